package domain

// ConflictType classifies why an item write was rejected.
// ConflictType 条目保存冲突类型
type ConflictType string

const (
	ConflictSync                    ConflictType = "sync_conflict"
	ConflictUUID                    ConflictType = "uuid_conflict"
	ConflictContentType             ConflictType = "content_type_error"
	ConflictContent                 ConflictType = "content_error"
	ConflictReadOnly                ConflictType = "readonly_error"
	ConflictUUIDError               ConflictType = "uuid_error"
	ConflictSharedVaultSnjsVersion  ConflictType = "shared_vault_snjs_version_error"
	ConflictSharedVaultPermission   ConflictType = "shared_vault_insufficient_permissions_error"
	ConflictSharedVaultNotMember    ConflictType = "shared_vault_not_member_error"
	ConflictSharedVaultInvalidState ConflictType = "shared_vault_invalid_state"
)

// EchoesServerItem reports whether a conflict of this type carries the server item
// EchoesServerItem reports whether the server copy is returned with this conflict.
// EchoesServerItem 该冲突类型是否回传服务端条目
func (t ConflictType) EchoesServerItem() bool {
	switch t {
	case ConflictSync, ConflictSharedVaultInvalidState, ConflictSharedVaultPermission:
		return true
	default:
		return false
	}
}

// Conflict is a rejected write reported back to the client.
// Conflict 被拒绝的写入
type Conflict struct {
	Type        ConflictType
	ServerItem  *Item
	UnsavedItem *ItemHash
}

// NewConflict builds a conflict, keeping the server item only when the type echoes it
// NewConflict builds a conflict, keeping server only when the type echoes it.
// NewConflict 创建冲突，仅在该类型允许时保留服务端条目
func NewConflict(t ConflictType, unsaved *ItemHash, server *Item) *Conflict {
	c := &Conflict{Type: t, UnsavedItem: unsaved}
	if t.EchoesServerItem() {
		c.ServerItem = server
	}
	return c
}

// ItemUUID returns the UUID of the item the conflict is about.
// ItemUUID 冲突涉及的条目 UUID
func (c *Conflict) ItemUUID() string {
	if c.ServerItem != nil {
		return c.ServerItem.UUID
	}
	if c.UnsavedItem != nil {
		return c.UnsavedItem.UUID
	}
	return ""
}
