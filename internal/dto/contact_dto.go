package dto

// ContactSaveRequest 创建或更新联系人的请求参数
type ContactSaveRequest struct {
	ContactUUID             string `json:"contact_uuid" form:"contact_uuid" binding:"required,uuid_canonical"`
	ContactPublicKey        string `json:"contact_public_key" form:"contact_public_key" binding:"required"`
	ContactSigningPublicKey string `json:"contact_signing_public_key" form:"contact_signing_public_key" binding:"required"`
}

// ContactURIRequest 路径中的联系人 UUID
type ContactURIRequest struct {
	UUID string `uri:"uuid" binding:"required,uuid_canonical"`
}

// ContactDTO 联系人
type ContactDTO struct {
	UUID                    string `json:"uuid"`
	UserUUID                string `json:"user_uuid"`
	ContactUUID             string `json:"contact_uuid"`
	ContactPublicKey        string `json:"contact_public_key"`
	ContactSigningPublicKey string `json:"contact_signing_public_key"`
	CreatedAtTimestamp      int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp      int64  `json:"updated_at_timestamp"`
}
