package domain

// Permission is a shared vault member role.
// Permission 共享库成员权限
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
	PermissionAdmin Permission = "admin"
)

var permissionRank = map[Permission]int{
	PermissionRead:  1,
	PermissionWrite: 2,
	PermissionAdmin: 3,
}

// IsValid reports whether p is a known role.
// IsValid 是否为合法权限
func (p Permission) IsValid() bool {
	_, ok := permissionRank[p]
	return ok
}

// AtLeast reports whether p is ordered at or above other (read < write < admin)
// AtLeast reports whether p ranks at or above other.
// AtLeast 判断权限是否不低于 other
func (p Permission) AtLeast(other Permission) bool {
	return permissionRank[p] >= permissionRank[other]
}

// SharedVault is a vault whose items several users can access.
// SharedVault 共享库
type SharedVault struct {
	UUID               string
	UserUUID           string // 创建者（所有者）
	CreatedAtTimestamp int64
	UpdatedAtTimestamp int64
}

// IsOwnedBy reports whether userUUID owns the vault.
// IsOwnedBy 是否由指定用户拥有
func (v *SharedVault) IsOwnedBy(userUUID string) bool {
	return v != nil && v.UserUUID == userUUID
}

// SharedVaultUser is a membership of a user in a shared vault.
// SharedVaultUser 共享库成员关系
type SharedVaultUser struct {
	UUID               string
	SharedVaultUUID    string
	UserUUID           string
	Permission         Permission
	CreatedAtTimestamp int64
	UpdatedAtTimestamp int64
}

// RemovedSharedVaultUser records a removal so the client can drop local data.
// RemovedSharedVaultUser 被移出共享库的记录，客户端据此清理本地数据
type RemovedSharedVaultUser struct {
	UUID               string
	SharedVaultUUID    string
	UserUUID           string
	RemovedBy          string
	CreatedAtTimestamp int64
	UpdatedAtTimestamp int64
}

// SharedVaultInvite is a pending invitation to a shared vault.
// SharedVaultInvite 共享库邀请
type SharedVaultInvite struct {
	UUID               string
	SharedVaultUUID    string
	UserUUID           string // 被邀请人
	SenderUUID         string
	EncryptedMessage   string
	Permission         Permission
	CreatedAtTimestamp int64
	UpdatedAtTimestamp int64
}
