package dao

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"

	"gorm.io/gorm"
)

// sharedVaultUserRepository 实现 domain.SharedVaultUserRepository 接口
type sharedVaultUserRepository struct {
	dao *Dao
}

// NewSharedVaultUserRepository 创建 SharedVaultUserRepository 实例
func NewSharedVaultUserRepository(dao *Dao) domain.SharedVaultUserRepository {
	return &sharedVaultUserRepository{dao: dao}
}

func (r *sharedVaultUserRepository) toDomain(m *model.SharedVaultUser) *domain.SharedVaultUser {
	if m == nil {
		return nil
	}
	return &domain.SharedVaultUser{
		UUID:               m.UUID,
		SharedVaultUUID:    m.SharedVaultUUID,
		UserUUID:           m.UserUUID,
		Permission:         domain.Permission(m.Permission),
		CreatedAtTimestamp: m.CreatedAtTimestamp,
		UpdatedAtTimestamp: m.UpdatedAtTimestamp,
	}
}

func (r *sharedVaultUserRepository) toDomainList(modelList []*model.SharedVaultUser) []*domain.SharedVaultUser {
	results := make([]*domain.SharedVaultUser, 0, len(modelList))
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results
}

// FindByUserAndVault 成员资格查询
func (r *sharedVaultUserRepository) FindByUserAndVault(ctx context.Context, userUUID, sharedVaultUUID string) (*domain.SharedVaultUser, error) {
	var m model.SharedVaultUser
	err := r.dao.DB(ctx).
		Where("user_uuid = ? AND shared_vault_uuid = ?", userUUID, sharedVaultUUID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindByUser 获取用户的成员关系
func (r *sharedVaultUserRepository) FindByUser(ctx context.Context, userUUID string, updatedAfter *int64) ([]*domain.SharedVaultUser, error) {
	db := r.dao.DB(ctx).Where("user_uuid = ?", userUUID)
	if updatedAfter != nil {
		db = db.Where("updated_at_timestamp > ?", *updatedAfter)
	}
	var modelList []*model.SharedVaultUser
	if err := db.Order("updated_at_timestamp ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	return r.toDomainList(modelList), nil
}

// FindByVault 获取共享库的所有成员
func (r *sharedVaultUserRepository) FindByVault(ctx context.Context, sharedVaultUUID string) ([]*domain.SharedVaultUser, error) {
	var modelList []*model.SharedVaultUser
	err := r.dao.DB(ctx).
		Where("shared_vault_uuid = ?", sharedVaultUUID).
		Order("created_at_timestamp ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}
	return r.toDomainList(modelList), nil
}

// Create 创建成员关系
func (r *sharedVaultUserRepository) Create(ctx context.Context, user *domain.SharedVaultUser) error {
	return r.dao.ExecuteWrite(ctx, user.UserUUID, func(db *gorm.DB) error {
		return db.Create(&model.SharedVaultUser{
			UUID:               user.UUID,
			SharedVaultUUID:    user.SharedVaultUUID,
			UserUUID:           user.UserUUID,
			Permission:         string(user.Permission),
			CreatedAtTimestamp: user.CreatedAtTimestamp,
			UpdatedAtTimestamp: user.UpdatedAtTimestamp,
		}).Error
	})
}

// Remove 删除成员关系
func (r *sharedVaultUserRepository) Remove(ctx context.Context, uuid string) error {
	return r.dao.ExecuteWrite(ctx, uuid, func(db *gorm.DB) error {
		return db.Where("uuid = ?", uuid).Delete(&model.SharedVaultUser{}).Error
	})
}

var _ domain.SharedVaultUserRepository = (*sharedVaultUserRepository)(nil)
