package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 UUID 字段
	FieldUID = "uid"

	// FieldSessionID 会话 ID 字段
	FieldSessionID = "sessionId"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldItemUUID 条目 UUID 字段
	FieldItemUUID = "itemUuid"

	// FieldSharedVaultUUID 共享库 UUID 字段
	FieldSharedVaultUUID = "sharedVaultUuid"

	// FieldConflictType 冲突类型字段
	FieldConflictType = "conflictType"

	// FieldCount 数量字段
	FieldCount = "count"

	// FieldSize 字节数字段
	FieldSize = "size"
)
