package dao

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sharedVaultInviteRepository 实现 domain.SharedVaultInviteRepository 接口
type sharedVaultInviteRepository struct {
	dao *Dao
}

// NewSharedVaultInviteRepository 创建 SharedVaultInviteRepository 实例
func NewSharedVaultInviteRepository(dao *Dao) domain.SharedVaultInviteRepository {
	return &sharedVaultInviteRepository{dao: dao}
}

func (r *sharedVaultInviteRepository) toDomain(m *model.SharedVaultInvite) *domain.SharedVaultInvite {
	if m == nil {
		return nil
	}
	return &domain.SharedVaultInvite{
		UUID:               m.UUID,
		SharedVaultUUID:    m.SharedVaultUUID,
		UserUUID:           m.UserUUID,
		SenderUUID:         m.SenderUUID,
		EncryptedMessage:   m.EncryptedMessage,
		Permission:         domain.Permission(m.Permission),
		CreatedAtTimestamp: m.CreatedAtTimestamp,
		UpdatedAtTimestamp: m.UpdatedAtTimestamp,
	}
}

func (r *sharedVaultInviteRepository) toModel(i *domain.SharedVaultInvite) *model.SharedVaultInvite {
	return &model.SharedVaultInvite{
		UUID:               i.UUID,
		SharedVaultUUID:    i.SharedVaultUUID,
		UserUUID:           i.UserUUID,
		SenderUUID:         i.SenderUUID,
		EncryptedMessage:   i.EncryptedMessage,
		Permission:         string(i.Permission),
		CreatedAtTimestamp: i.CreatedAtTimestamp,
		UpdatedAtTimestamp: i.UpdatedAtTimestamp,
	}
}

func (r *sharedVaultInviteRepository) find(db *gorm.DB) ([]*domain.SharedVaultInvite, error) {
	var modelList []*model.SharedVaultInvite
	if err := db.Order("created_at_timestamp ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	results := make([]*domain.SharedVaultInvite, 0, len(modelList))
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// FindByUUID 根据 UUID 获取邀请
func (r *sharedVaultInviteRepository) FindByUUID(ctx context.Context, uuid string) (*domain.SharedVaultInvite, error) {
	var m model.SharedVaultInvite
	if err := r.dao.DB(ctx).Where("uuid = ?", uuid).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindByRecipientAndVault 获取某用户在某共享库的待处理邀请
func (r *sharedVaultInviteRepository) FindByRecipientAndVault(ctx context.Context, userUUID, sharedVaultUUID string) (*domain.SharedVaultInvite, error) {
	var m model.SharedVaultInvite
	err := r.dao.DB(ctx).
		Where("user_uuid = ? AND shared_vault_uuid = ?", userUUID, sharedVaultUUID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindInbound 用户收到的邀请
func (r *sharedVaultInviteRepository) FindInbound(ctx context.Context, userUUID string) ([]*domain.SharedVaultInvite, error) {
	return r.find(r.dao.DB(ctx).Where("user_uuid = ?", userUUID))
}

// FindOutbound 用户发出的邀请
func (r *sharedVaultInviteRepository) FindOutbound(ctx context.Context, senderUUID string) ([]*domain.SharedVaultInvite, error) {
	return r.find(r.dao.DB(ctx).Where("sender_uuid = ?", senderUUID))
}

// Save 创建或更新邀请
func (r *sharedVaultInviteRepository) Save(ctx context.Context, invite *domain.SharedVaultInvite) error {
	return r.dao.ExecuteWrite(ctx, invite.SenderUUID, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"encrypted_message", "permission", "updated_at_timestamp"}),
		}).Create(r.toModel(invite)).Error
	})
}

// Remove 删除邀请
func (r *sharedVaultInviteRepository) Remove(ctx context.Context, uuid string) error {
	return r.dao.ExecuteWrite(ctx, uuid, func(db *gorm.DB) error {
		return db.Where("uuid = ?", uuid).Delete(&model.SharedVaultInvite{}).Error
	})
}

// RemoveByVault 删除共享库的全部邀请
func (r *sharedVaultInviteRepository) RemoveByVault(ctx context.Context, sharedVaultUUID string) error {
	return r.dao.ExecuteWrite(ctx, sharedVaultUUID, func(db *gorm.DB) error {
		return db.Where("shared_vault_uuid = ?", sharedVaultUUID).Delete(&model.SharedVaultInvite{}).Error
	})
}

var _ domain.SharedVaultInviteRepository = (*sharedVaultInviteRepository)(nil)
