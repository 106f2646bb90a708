package model

const TableNameContact = "contacts"

// Contact mapped from table <contacts>
type Contact struct {
	UUID                    string `gorm:"column:uuid;type:varchar(36);primaryKey" json:"uuid"`
	UserUUID                string `gorm:"column:user_uuid;type:varchar(36);not null;uniqueIndex:uk_user_contact,priority:1" json:"userUuid"`
	ContactUUID             string `gorm:"column:contact_uuid;type:varchar(36);not null;uniqueIndex:uk_user_contact,priority:2" json:"contactUuid"`
	ContactPublicKey        string `gorm:"column:contact_public_key;type:text;not null" json:"contactPublicKey"`
	ContactSigningPublicKey string `gorm:"column:contact_signing_public_key;type:text;not null" json:"contactSigningPublicKey"`
	CreatedAtTimestamp      int64  `gorm:"column:created_at_timestamp;not null" json:"createdAtTimestamp"`
	UpdatedAtTimestamp      int64  `gorm:"column:updated_at_timestamp;not null" json:"updatedAtTimestamp"`
}

func (*Contact) TableName() string {
	return TableNameContact
}
