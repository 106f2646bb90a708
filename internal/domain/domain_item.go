package domain

// ContentType is the declared type of an item payload.
// ContentType 条目内容类型
type ContentType string

const (
	ContentTypeNote              ContentType = "Note"
	ContentTypeTag               ContentType = "Tag"
	ContentTypeSmartView         ContentType = "SN|SmartTag"
	ContentTypeComponent         ContentType = "SN|Component"
	ContentTypeTheme             ContentType = "SN|Theme"
	ContentTypeEditor            ContentType = "SN|Editor"
	ContentTypeActionsExtension  ContentType = "Extension"
	ContentTypeExtensionRepo     ContentType = "SN|ExtensionRepo"
	ContentTypeFile              ContentType = "SN|File"
	ContentTypeFileSafeCreds     ContentType = "SN|FileSafe|Credentials"
	ContentTypeFileSafeFileMeta  ContentType = "SN|FileSafe|FileMetadata"
	ContentTypeFileSafeIntegr    ContentType = "SN|FileSafe|Integration"
	ContentTypeItemsKey          ContentType = "SN|ItemsKey"
	ContentTypeKeySystemItemsKey ContentType = "SN|KeySystemItemsKey"
	ContentTypeKeySystemRootKey  ContentType = "SN|KeySystemRootKey"
	ContentTypeTrustedContact    ContentType = "SN|TrustedContact"
	ContentTypeVaultListing      ContentType = "SN|VaultListing"
	ContentTypeUserPreferences   ContentType = "SN|UserPreferences"
	ContentTypePrivileges        ContentType = "SN|Privileges"
	ContentTypeEncryptedStorage  ContentType = "SN|EncryptedStorage"
	ContentTypeRootKey           ContentType = "SN|RootKey|NoKeyParams"
	ContentTypeMfa               ContentType = "SF|MFA"
	ContentTypeServerExtension   ContentType = "SF|Extension"
)

var knownContentTypes = map[ContentType]struct{}{
	ContentTypeNote: {}, ContentTypeTag: {}, ContentTypeSmartView: {}, ContentTypeComponent: {},
	ContentTypeTheme: {}, ContentTypeEditor: {}, ContentTypeActionsExtension: {}, ContentTypeExtensionRepo: {},
	ContentTypeFile: {}, ContentTypeFileSafeCreds: {}, ContentTypeFileSafeFileMeta: {}, ContentTypeFileSafeIntegr: {},
	ContentTypeItemsKey: {}, ContentTypeKeySystemItemsKey: {}, ContentTypeKeySystemRootKey: {},
	ContentTypeTrustedContact: {}, ContentTypeVaultListing: {}, ContentTypeUserPreferences: {},
	ContentTypePrivileges: {}, ContentTypeEncryptedStorage: {}, ContentTypeRootKey: {},
	ContentTypeMfa: {}, ContentTypeServerExtension: {},
}

// IsKnown reports whether the server accepts this content type.
// IsKnown 是否为服务端认可的内容类型
func (c ContentType) IsKnown() bool {
	_, ok := knownContentTypes[c]
	return ok
}

// RequiresAdmin reports whether writing this type into a shared vault needs the admin role
// RequiresAdmin reports whether writing this type into a shared vault needs admin.
// RequiresAdmin 写入共享库时是否需要 admin 权限
func (c ContentType) RequiresAdmin() bool {
	return c == ContentTypeKeySystemItemsKey
}

// Item is a stored sync item. Its content is opaque to the server.
// Item 条目领域模型，内容对服务端不透明
// 空字符串字段表示该字段为空（null）
type Item struct {
	UUID                string
	UserUUID            string
	SharedVaultUUID     string
	KeySystemIdentifier string
	ItemsKeyID          string
	DuplicateOf         string
	EncItemKey          string
	Content             string
	ContentType         ContentType
	ContentSize         int64
	AuthHash            string
	Deleted             bool
	LastEditedByUUID    string
	UpdatedWithSession  string
	CreatedAtTimestamp  int64 // 微秒
	UpdatedAtTimestamp  int64 // 微秒
}

// IsInSharedVault reports whether the item belongs to a shared vault.
// IsInSharedVault 是否属于共享库
func (i *Item) IsInSharedVault() bool {
	return i != nil && i.SharedVaultUUID != ""
}

// IsOwnedBy reports whether userUUID owns the item.
// IsOwnedBy 是否由指定用户拥有
func (i *Item) IsOwnedBy(userUUID string) bool {
	return i != nil && i.UserUUID == userUUID
}

// ItemHash is the client-submitted version of an item. Nil pointers mean
// the field was not sent.
// ItemHash is an item as submitted by a client. Nil pointers mean the field was omitted.
// ItemHash 客户端提交的条目，nil 指针表示字段未提交
type ItemHash struct {
	UUID                string
	ContentType         ContentType
	Content             *string
	Deleted             *bool
	DuplicateOf         *string
	AuthHash            *string
	EncItemKey          *string
	ItemsKeyID          *string
	KeySystemIdentifier *string
	SharedVaultUUID     *string
	CreatedAt           *string
	CreatedAtTimestamp  *int64
	UpdatedAt           *string
	UpdatedAtTimestamp  *int64
}

// SharedVault returns the submitted shared vault UUID, or "".
// SharedVault 返回提交的共享库 UUID（未提交时为空）
func (h *ItemHash) SharedVault() string {
	return strValue(h.SharedVaultUUID)
}

// HasSharedVault reports whether a shared vault UUID was submitted.
// HasSharedVault 是否携带共享库 UUID
func (h *ItemHash) HasSharedVault() bool {
	return h.SharedVault() != ""
}

// HasKeySystem reports whether a key system identifier was submitted.
// HasKeySystem 是否携带密钥系统标识
func (h *ItemHash) HasKeySystem() bool {
	return strValue(h.KeySystemIdentifier) != ""
}

// IsDeleted reports whether the submission marks the item deleted.
// IsDeleted 是否标记为删除
func (h *ItemHash) IsDeleted() bool {
	return h.Deleted != nil && *h.Deleted
}

// EquivalentTo reports whether persisting h over item would change nothing
// EquivalentTo reports whether applying h to item would change nothing.
// EquivalentTo 判断将 h 写入 item 是否不会产生任何变化
func (h *ItemHash) EquivalentTo(item *Item) bool {
	if item == nil || h.UUID != item.UUID || h.ContentType != item.ContentType {
		return false
	}
	if h.IsDeleted() != item.Deleted {
		return false
	}
	if h.SharedVault() != item.SharedVaultUUID || strValue(h.KeySystemIdentifier) != item.KeySystemIdentifier {
		return false
	}
	if item.Deleted {
		return true
	}
	return strValue(h.Content) == item.Content &&
		strValue(h.EncItemKey) == item.EncItemKey &&
		strValue(h.ItemsKeyID) == item.ItemsKeyID &&
		strValue(h.AuthHash) == item.AuthHash &&
		strValue(h.DuplicateOf) == item.DuplicateOf
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
