package model

const TableNameItem = "items"

// Item mapped from table <items>
// 可空列使用指针，nil 对应 NULL
type Item struct {
	UUID                string  `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`
	UserUUID            string  `gorm:"column:user_uuid;type:varchar(36);not null;index:idx_items_user_updated,priority:1" json:"userUuid"`
	SharedVaultUUID     *string `gorm:"column:shared_vault_uuid;type:varchar(36);index:idx_items_vault_updated,priority:1" json:"sharedVaultUuid"`
	KeySystemIdentifier *string `gorm:"column:key_system_identifier;type:varchar(255)" json:"keySystemIdentifier"`
	ItemsKeyID          *string `gorm:"column:items_key_id;type:varchar(255)" json:"itemsKeyId"`
	DuplicateOf         *string `gorm:"column:duplicate_of;type:varchar(36)" json:"duplicateOf"`
	EncItemKey          *string `gorm:"column:enc_item_key;type:text" json:"encItemKey"`
	Content             *string `gorm:"column:content;type:text" json:"content"`
	ContentType         string  `gorm:"column:content_type;type:varchar(255);not null;index:idx_items_content_type" json:"contentType"`
	ContentSize         int64   `gorm:"column:content_size;not null" json:"contentSize"`
	AuthHash            *string `gorm:"column:auth_hash;type:varchar(255)" json:"authHash"`
	Deleted             bool    `gorm:"column:deleted;not null" json:"deleted"`
	LastEditedByUUID    *string `gorm:"column:last_edited_by_uuid;type:varchar(36)" json:"lastEditedByUuid"`
	UpdatedWithSession  *string `gorm:"column:updated_with_session;type:varchar(36)" json:"updatedWithSession"`
	CreatedAtTimestamp  int64   `gorm:"column:created_at_timestamp;not null" json:"createdAtTimestamp"`
	UpdatedAtTimestamp  int64   `gorm:"column:updated_at_timestamp;not null;index:idx_items_user_updated,priority:2;index:idx_items_vault_updated,priority:2" json:"updatedAtTimestamp"`
}

// TableName Item's table name
func (*Item) TableName() string {
	return TableNameItem
}
