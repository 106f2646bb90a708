package domain

// SortOrder is the direction items are sorted in.
// SortOrder 排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "ASC"
	SortDesc SortOrder = "DESC"
)

// Comparison is how the lower time bound of a query is applied.
// Comparison 时间下界比较方式
type Comparison string

const (
	// ComparisonGreater is used for sync tokens.
	// ComparisonGreater 普通同步令牌：严格大于
	ComparisonGreater Comparison = ">"
	// ComparisonGreaterOrEqual is used for cursor tokens; boundary rows may repeat.
	// ComparisonGreaterOrEqual 游标续传：大于等于，边界条目可能重复
	ComparisonGreaterOrEqual Comparison = ">="
)

// ItemQuery filters, orders and limits an item lookup.
// ItemQuery 条目查询条件
type ItemQuery struct {
	UserUUID string
	// LastSyncTime 为 nil 表示全量同步
	LastSyncTime   *int64
	SyncComparison Comparison
	// UntilSyncTime is an inclusive upper bound on updated_at_timestamp
	// UntilSyncTime 更新时间上界（含），nil 不限制
	UntilSyncTime *int64
	ContentType   ContentType
	// Deleted 为 nil 表示不过滤删除状态
	Deleted *bool
	// IncludeSharedVaultUUIDs widens the owner filter: own items OR items in these vaults
	// IncludeSharedVaultUUIDs 自有条目 + 这些共享库中的条目
	IncludeSharedVaultUUIDs []string
	// ExclusiveSharedVaultUUIDs restricts the result to these vaults only
	// ExclusiveSharedVaultUUIDs 仅返回这些共享库中的条目
	ExclusiveSharedVaultUUIDs []string
	// Exclusive 为 true 时即使 ExclusiveSharedVaultUUIDs 为空也不回退到自有条目
	Exclusive bool
	UUIDs     []string
	SortOrder SortOrder
	Limit     int
}

// ContentSizeDescriptor carries an item UUID and size without its content.
// ContentSizeDescriptor 轻量级的条目大小描述，不含内容
type ContentSizeDescriptor struct {
	UUID               string
	ContentSize        int64
	UpdatedAtTimestamp int64
}
