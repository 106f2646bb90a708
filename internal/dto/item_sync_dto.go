// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"
)

// ItemHashRequest Item as submitted by a client; nil fields were not sent
// ItemHashRequest 客户端提交的条目，nil 字段表示未提交
type ItemHashRequest struct {
	UUID                string  `json:"uuid"`
	ContentType         string  `json:"content_type"`
	Content             *string `json:"content,omitempty"`
	Deleted             *bool   `json:"deleted,omitempty"`
	DuplicateOf         *string `json:"duplicate_of,omitempty"`
	AuthHash            *string `json:"auth_hash,omitempty"`
	EncItemKey          *string `json:"enc_item_key,omitempty"`
	ItemsKeyID          *string `json:"items_key_id,omitempty"`
	KeySystemIdentifier *string `json:"key_system_identifier,omitempty"`
	SharedVaultUUID     *string `json:"shared_vault_uuid,omitempty"`
	CreatedAt           *string `json:"created_at,omitempty"`
	CreatedAtTimestamp  *int64  `json:"created_at_timestamp,omitempty"`
	UpdatedAt           *string `json:"updated_at,omitempty"`
	UpdatedAtTimestamp  *int64  `json:"updated_at_timestamp,omitempty"`
}

// ToDomain 转换为领域模型
func (r *ItemHashRequest) ToDomain() *domain.ItemHash {
	return &domain.ItemHash{
		UUID:                r.UUID,
		ContentType:         domain.ContentType(r.ContentType),
		Content:             r.Content,
		Deleted:             r.Deleted,
		DuplicateOf:         r.DuplicateOf,
		AuthHash:            r.AuthHash,
		EncItemKey:          r.EncItemKey,
		ItemsKeyID:          r.ItemsKeyID,
		KeySystemIdentifier: r.KeySystemIdentifier,
		SharedVaultUUID:     r.SharedVaultUUID,
		CreatedAt:           r.CreatedAt,
		CreatedAtTimestamp:  r.CreatedAtTimestamp,
		UpdatedAt:           r.UpdatedAt,
		UpdatedAtTimestamp:  r.UpdatedAtTimestamp,
	}
}

// NewItemHashRequest 由领域模型还原客户端提交的内容（冲突回显用）
func NewItemHashRequest(h *domain.ItemHash) *ItemHashRequest {
	if h == nil {
		return nil
	}
	return &ItemHashRequest{
		UUID:                h.UUID,
		ContentType:         string(h.ContentType),
		Content:             h.Content,
		Deleted:             h.Deleted,
		DuplicateOf:         h.DuplicateOf,
		AuthHash:            h.AuthHash,
		EncItemKey:          h.EncItemKey,
		ItemsKeyID:          h.ItemsKeyID,
		KeySystemIdentifier: h.KeySystemIdentifier,
		SharedVaultUUID:     h.SharedVaultUUID,
		CreatedAt:           h.CreatedAt,
		CreatedAtTimestamp:  h.CreatedAtTimestamp,
		UpdatedAt:           h.UpdatedAt,
		UpdatedAtTimestamp:  h.UpdatedAtTimestamp,
	}
}

// ItemSyncRequest Request body of POST /v1/items/sync
// ItemSyncRequest 同步请求参数
type ItemSyncRequest struct {
	Items            []ItemHashRequest `json:"items" form:"items"`
	SyncToken        string            `json:"sync_token" form:"sync_token"`
	CursorToken      string            `json:"cursor_token" form:"cursor_token"`
	Limit            int               `json:"limit" form:"limit" binding:"omitempty,gte=0"`
	ContentType      string            `json:"content_type" form:"content_type"`
	SharedVaultUUIDs []string          `json:"shared_vault_uuids" form:"shared_vault_uuids" binding:"omitempty,dive,uuid_canonical"`
	API              string            `json:"api" form:"api" binding:"omitempty,oneof=20161215 20200115"`
}

// ItemHashes 转换提交的条目
func (r *ItemSyncRequest) ItemHashes() []*domain.ItemHash {
	out := make([]*domain.ItemHash, 0, len(r.Items))
	for i := range r.Items {
		out = append(out, r.Items[i].ToDomain())
	}
	return out
}

// ItemProjection 条目输出结构，空字段输出为 null
type ItemProjection struct {
	UUID                string     `json:"uuid"`
	ItemsKeyID          *string    `json:"items_key_id"`
	DuplicateOf         *string    `json:"duplicate_of"`
	EncItemKey          *string    `json:"enc_item_key"`
	Content             *string    `json:"content"`
	ContentType         string     `json:"content_type"`
	AuthHash            *string    `json:"auth_hash"`
	Deleted             bool       `json:"deleted"`
	UserUUID            string     `json:"user_uuid"`
	KeySystemIdentifier *string    `json:"key_system_identifier"`
	SharedVaultUUID     *string    `json:"shared_vault_uuid"`
	LastEditedByUUID    *string    `json:"last_edited_by_uuid"`
	CreatedAt           timex.Time `json:"created_at"`
	CreatedAtTimestamp  int64      `json:"created_at_timestamp"`
	UpdatedAt           timex.Time `json:"updated_at"`
	UpdatedAtTimestamp  int64      `json:"updated_at_timestamp"`
	UpdatedWithSession  *string    `json:"updated_with_session"`
}

// SavedItemProjection 已保存条目的输出结构，不回传内容
type SavedItemProjection struct {
	UUID                string     `json:"uuid"`
	ItemsKeyID          *string    `json:"items_key_id"`
	DuplicateOf         *string    `json:"duplicate_of"`
	ContentType         string     `json:"content_type"`
	AuthHash            *string    `json:"auth_hash"`
	Deleted             bool       `json:"deleted"`
	UserUUID            string     `json:"user_uuid"`
	KeySystemIdentifier *string    `json:"key_system_identifier"`
	SharedVaultUUID     *string    `json:"shared_vault_uuid"`
	LastEditedByUUID    *string    `json:"last_edited_by_uuid"`
	CreatedAt           timex.Time `json:"created_at"`
	CreatedAtTimestamp  int64      `json:"created_at_timestamp"`
	UpdatedAt           timex.Time `json:"updated_at"`
	UpdatedAtTimestamp  int64      `json:"updated_at_timestamp"`
	UpdatedWithSession  *string    `json:"updated_with_session"`
}

// ConflictProjection 冲突输出结构
type ConflictProjection struct {
	ServerItem  *ItemProjection  `json:"server_item,omitempty"`
	UnsavedItem *ItemHashRequest `json:"unsaved_item,omitempty"`
	Type        string           `json:"type"`
}

// GroupKeyProjection 共享库成员关系（group_keys）输出结构
type GroupKeyProjection struct {
	UUID               string `json:"uuid"`
	SharedVaultUUID    string `json:"shared_vault_uuid"`
	UserUUID           string `json:"user_uuid"`
	Permission         string `json:"permission"`
	CreatedAtTimestamp int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp int64  `json:"updated_at_timestamp"`
}

// ContactProjection 联系人输出结构
type ContactProjection struct {
	UUID                    string `json:"uuid"`
	UserUUID                string `json:"user_uuid"`
	ContactUUID             string `json:"contact_uuid"`
	ContactPublicKey        string `json:"contact_public_key"`
	ContactSigningPublicKey string `json:"contact_signing_public_key"`
	CreatedAtTimestamp      int64  `json:"created_at_timestamp"`
	UpdatedAtTimestamp      int64  `json:"updated_at_timestamp"`
}

// ItemSyncResponse Response body of POST /v1/items/sync; field names are the
// client wire contract
// ItemSyncResponse 同步响应，字段名为客户端协议的一部分
type ItemSyncResponse struct {
	RetrievedItems []*ItemProjection      `json:"retrieved_items"`
	SavedItems     []*SavedItemProjection `json:"saved_items"`
	Conflicts      []*ConflictProjection  `json:"conflicts"`
	SyncToken      string                 `json:"sync_token"`
	CursorToken    string                 `json:"cursor_token,omitempty"`
	GroupKeys      []*GroupKeyProjection  `json:"group_keys"`
	Contacts       []*ContactProjection   `json:"contacts"`
}

// SyncPayload 构建同步响应所需的领域数据
type SyncPayload struct {
	RetrievedItems []*domain.Item
	SavedItems     []*domain.Item
	Conflicts      []*domain.Conflict
	SyncToken      string
	CursorToken    string
	GroupKeys      []*domain.SharedVaultUser
	Contacts       []*domain.Contact
}

// NewItemSyncResponse 将领域数据投影为响应结构，空列表输出为 []
func NewItemSyncResponse(p *SyncPayload) *ItemSyncResponse {
	resp := &ItemSyncResponse{
		RetrievedItems: make([]*ItemProjection, 0, len(p.RetrievedItems)),
		SavedItems:     make([]*SavedItemProjection, 0, len(p.SavedItems)),
		Conflicts:      make([]*ConflictProjection, 0, len(p.Conflicts)),
		SyncToken:      p.SyncToken,
		CursorToken:    p.CursorToken,
		GroupKeys:      make([]*GroupKeyProjection, 0, len(p.GroupKeys)),
		Contacts:       make([]*ContactProjection, 0, len(p.Contacts)),
	}
	for _, item := range p.RetrievedItems {
		resp.RetrievedItems = append(resp.RetrievedItems, NewItemProjection(item))
	}
	for _, item := range p.SavedItems {
		resp.SavedItems = append(resp.SavedItems, NewSavedItemProjection(item))
	}
	for _, c := range p.Conflicts {
		resp.Conflicts = append(resp.Conflicts, &ConflictProjection{
			ServerItem:  NewItemProjection(c.ServerItem),
			UnsavedItem: NewItemHashRequest(c.UnsavedItem),
			Type:        string(c.Type),
		})
	}
	for _, k := range p.GroupKeys {
		resp.GroupKeys = append(resp.GroupKeys, &GroupKeyProjection{
			UUID:               k.UUID,
			SharedVaultUUID:    k.SharedVaultUUID,
			UserUUID:           k.UserUUID,
			Permission:         string(k.Permission),
			CreatedAtTimestamp: k.CreatedAtTimestamp,
			UpdatedAtTimestamp: k.UpdatedAtTimestamp,
		})
	}
	for _, c := range p.Contacts {
		resp.Contacts = append(resp.Contacts, NewContactProjection(c))
	}
	return resp
}

// NewItemProjection 条目投影
func NewItemProjection(item *domain.Item) *ItemProjection {
	if item == nil {
		return nil
	}
	return &ItemProjection{
		UUID:                item.UUID,
		ItemsKeyID:          nullString(item.ItemsKeyID),
		DuplicateOf:         nullString(item.DuplicateOf),
		EncItemKey:          nullString(item.EncItemKey),
		Content:             nullString(item.Content),
		ContentType:         string(item.ContentType),
		AuthHash:            nullString(item.AuthHash),
		Deleted:             item.Deleted,
		UserUUID:            item.UserUUID,
		KeySystemIdentifier: nullString(item.KeySystemIdentifier),
		SharedVaultUUID:     nullString(item.SharedVaultUUID),
		LastEditedByUUID:    nullString(item.LastEditedByUUID),
		CreatedAt:           timex.FromMicro(item.CreatedAtTimestamp),
		CreatedAtTimestamp:  item.CreatedAtTimestamp,
		UpdatedAt:           timex.FromMicro(item.UpdatedAtTimestamp),
		UpdatedAtTimestamp:  item.UpdatedAtTimestamp,
		UpdatedWithSession:  nullString(item.UpdatedWithSession),
	}
}

// NewSavedItemProjection 已保存条目投影
func NewSavedItemProjection(item *domain.Item) *SavedItemProjection {
	if item == nil {
		return nil
	}
	return &SavedItemProjection{
		UUID:                item.UUID,
		ItemsKeyID:          nullString(item.ItemsKeyID),
		DuplicateOf:         nullString(item.DuplicateOf),
		ContentType:         string(item.ContentType),
		AuthHash:            nullString(item.AuthHash),
		Deleted:             item.Deleted,
		UserUUID:            item.UserUUID,
		KeySystemIdentifier: nullString(item.KeySystemIdentifier),
		SharedVaultUUID:     nullString(item.SharedVaultUUID),
		LastEditedByUUID:    nullString(item.LastEditedByUUID),
		CreatedAt:           timex.FromMicro(item.CreatedAtTimestamp),
		CreatedAtTimestamp:  item.CreatedAtTimestamp,
		UpdatedAt:           timex.FromMicro(item.UpdatedAtTimestamp),
		UpdatedAtTimestamp:  item.UpdatedAtTimestamp,
		UpdatedWithSession:  nullString(item.UpdatedWithSession),
	}
}

// NewContactProjection 联系人投影
func NewContactProjection(c *domain.Contact) *ContactProjection {
	if c == nil {
		return nil
	}
	return &ContactProjection{
		UUID:                    c.UUID,
		UserUUID:                c.UserUUID,
		ContactUUID:             c.ContactUUID,
		ContactPublicKey:        c.ContactPublicKey,
		ContactSigningPublicKey: c.ContactSigningPublicKey,
		CreatedAtTimestamp:      c.CreatedAtTimestamp,
		UpdatedAtTimestamp:      c.UpdatedAtTimestamp,
	}
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
