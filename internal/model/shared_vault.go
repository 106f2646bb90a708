package model

const (
	TableNameSharedVault            = "shared_vaults"
	TableNameSharedVaultUser        = "shared_vault_users"
	TableNameRemovedSharedVaultUser = "removed_shared_vault_users"
	TableNameSharedVaultInvite      = "shared_vault_invites"
)

// SharedVault mapped from table <shared_vaults>
type SharedVault struct {
	UUID               string `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`
	UserUUID           string `gorm:"column:user_uuid;type:varchar(36);not null;index" json:"userUuid"`
	CreatedAtTimestamp int64  `gorm:"column:created_at_timestamp;not null" json:"createdAtTimestamp"`
	UpdatedAtTimestamp int64  `gorm:"column:updated_at_timestamp;not null" json:"updatedAtTimestamp"`
}

func (*SharedVault) TableName() string {
	return TableNameSharedVault
}

// SharedVaultUser mapped from table <shared_vault_users>
type SharedVaultUser struct {
	UUID               string `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`
	SharedVaultUUID    string `gorm:"column:shared_vault_uuid;type:varchar(36);not null;uniqueIndex:uk_vault_user,priority:1" json:"sharedVaultUuid"`
	UserUUID           string `gorm:"column:user_uuid;type:varchar(36);not null;uniqueIndex:uk_vault_user,priority:2;index:idx_vault_user_updated,priority:1" json:"userUuid"`
	Permission         string `gorm:"column:permission;type:varchar(16);not null" json:"permission"`
	CreatedAtTimestamp int64  `gorm:"column:created_at_timestamp;not null" json:"createdAtTimestamp"`
	UpdatedAtTimestamp int64  `gorm:"column:updated_at_timestamp;not null;index:idx_vault_user_updated,priority:2" json:"updatedAtTimestamp"`
}

func (*SharedVaultUser) TableName() string {
	return TableNameSharedVaultUser
}

// RemovedSharedVaultUser mapped from table <removed_shared_vault_users>
type RemovedSharedVaultUser struct {
	UUID               string `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`
	SharedVaultUUID    string `gorm:"column:shared_vault_uuid;type:varchar(36);not null" json:"sharedVaultUuid"`
	UserUUID           string `gorm:"column:user_uuid;type:varchar(36);not null;index" json:"userUuid"`
	RemovedBy          string `gorm:"column:removed_by;type:varchar(36);not null" json:"removedBy"`
	CreatedAtTimestamp int64  `gorm:"column:created_at_timestamp;not null" json:"createdAtTimestamp"`
	UpdatedAtTimestamp int64  `gorm:"column:updated_at_timestamp;not null" json:"updatedAtTimestamp"`
}

func (*RemovedSharedVaultUser) TableName() string {
	return TableNameRemovedSharedVaultUser
}

// SharedVaultInvite mapped from table <shared_vault_invites>
type SharedVaultInvite struct {
	UUID               string `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`
	SharedVaultUUID    string `gorm:"column:shared_vault_uuid;type:varchar(36);not null;index" json:"sharedVaultUuid"`
	UserUUID           string `gorm:"column:user_uuid;type:varchar(36);not null;index" json:"userUuid"`
	SenderUUID         string `gorm:"column:sender_uuid;type:varchar(36);not null;index" json:"senderUuid"`
	EncryptedMessage   string `gorm:"column:encrypted_message;type:text" json:"encryptedMessage"`
	Permission         string `gorm:"column:permission;type:varchar(16);not null" json:"permission"`
	CreatedAtTimestamp int64  `gorm:"column:created_at_timestamp;not null" json:"createdAtTimestamp"`
	UpdatedAtTimestamp int64  `gorm:"column:updated_at_timestamp;not null" json:"updatedAtTimestamp"`
}

func (*SharedVaultInvite) TableName() string {
	return TableNameSharedVaultInvite
}
