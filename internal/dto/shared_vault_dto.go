package dto

// SharedVaultCreateRequest 创建共享库的请求参数，uuid 为空时由服务端生成
type SharedVaultCreateRequest struct {
	UUID string `json:"uuid" form:"uuid" binding:"omitempty,uuid_canonical"`
}

// SharedVaultURIRequest 路径中的共享库 UUID
type SharedVaultURIRequest struct {
	SharedVaultUUID string `uri:"uuid" binding:"required,uuid_canonical"`
}

// SharedVaultUserURIRequest 路径中的共享库 UUID 与成员用户 UUID
type SharedVaultUserURIRequest struct {
	SharedVaultUUID string `uri:"uuid" binding:"required,uuid_canonical"`
	UserUUID        string `uri:"userUuid" binding:"required,uuid_canonical"`
}

// SharedVaultDTO 共享库
type SharedVaultDTO struct {
	UUID               string `json:"uuid"`
	UserUUID           string `json:"user_uuid"`
	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

// SharedVaultUserDTO 共享库成员
type SharedVaultUserDTO struct {
	UUID               string `json:"uuid"`
	SharedVaultUUID    string `json:"shared_vault_uuid"`
	UserUUID           string `json:"user_uuid"`
	Permission         string `json:"permission"`
	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

// SharedVaultCreateDTO 创建共享库的结果：共享库与创建者的成员关系
type SharedVaultCreateDTO struct {
	SharedVault     *SharedVaultDTO     `json:"shared_vault"`
	SharedVaultUser *SharedVaultUserDTO `json:"shared_vault_user"`
}

// RemovedSharedVaultUserDTO 被移出共享库的记录
type RemovedSharedVaultUserDTO struct {
	UUID               string `json:"uuid"`
	SharedVaultUUID    string `json:"shared_vault_uuid"`
	UserUUID           string `json:"user_uuid"`
	RemovedBy          string `json:"removed_by"`
	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

// SharedVaultInviteCreateRequest 邀请用户加入共享库的请求参数
type SharedVaultInviteCreateRequest struct {
	RecipientUUID    string `json:"recipient_uuid" form:"recipient_uuid" binding:"required,uuid_canonical"`
	EncryptedMessage string `json:"encrypted_message" form:"encrypted_message" binding:"required"`
	Permission       string `json:"permission" form:"permission" binding:"required,permission"`
}

// SharedVaultInviteURIRequest 路径中的邀请 UUID
type SharedVaultInviteURIRequest struct {
	InviteUUID string `uri:"inviteUuid" binding:"required,uuid_canonical"`
}

// SharedVaultInviteDeleteURIRequest 删除邀请的路径参数
type SharedVaultInviteDeleteURIRequest struct {
	SharedVaultUUID string `uri:"uuid" binding:"required,uuid_canonical"`
	InviteUUID      string `uri:"inviteUuid" binding:"required,uuid_canonical"`
}

// SharedVaultInviteDTO 共享库邀请
type SharedVaultInviteDTO struct {
	UUID               string `json:"uuid"`
	SharedVaultUUID    string `json:"shared_vault_uuid"`
	UserUUID           string `json:"user_uuid"`
	SenderUUID         string `json:"sender_uuid"`
	EncryptedMessage   string `json:"encrypted_message"`
	Permission         string `json:"permission"`
	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}
