package dao

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"

	"gorm.io/gorm"
)

// removedSharedVaultUserRepository 实现 domain.RemovedSharedVaultUserRepository 接口
type removedSharedVaultUserRepository struct {
	dao *Dao
}

// NewRemovedSharedVaultUserRepository 创建 RemovedSharedVaultUserRepository 实例
func NewRemovedSharedVaultUserRepository(dao *Dao) domain.RemovedSharedVaultUserRepository {
	return &removedSharedVaultUserRepository{dao: dao}
}

// Create 记录一次移除
func (r *removedSharedVaultUserRepository) Create(ctx context.Context, removed *domain.RemovedSharedVaultUser) error {
	return r.dao.ExecuteWrite(ctx, removed.UserUUID, func(db *gorm.DB) error {
		return db.Create(&model.RemovedSharedVaultUser{
			UUID:               removed.UUID,
			SharedVaultUUID:    removed.SharedVaultUUID,
			UserUUID:           removed.UserUUID,
			RemovedBy:          removed.RemovedBy,
			CreatedAtTimestamp: removed.CreatedAtTimestamp,
			UpdatedAtTimestamp: removed.UpdatedAtTimestamp,
		}).Error
	})
}

// FindByUser 获取用户被移除的记录
func (r *removedSharedVaultUserRepository) FindByUser(ctx context.Context, userUUID string) ([]*domain.RemovedSharedVaultUser, error) {
	var modelList []*model.RemovedSharedVaultUser
	err := r.dao.DB(ctx).
		Where("user_uuid = ?", userUUID).
		Order("created_at_timestamp ASC").
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	results := make([]*domain.RemovedSharedVaultUser, 0, len(modelList))
	for _, m := range modelList {
		results = append(results, &domain.RemovedSharedVaultUser{
			UUID:               m.UUID,
			SharedVaultUUID:    m.SharedVaultUUID,
			UserUUID:           m.UserUUID,
			RemovedBy:          m.RemovedBy,
			CreatedAtTimestamp: m.CreatedAtTimestamp,
			UpdatedAtTimestamp: m.UpdatedAtTimestamp,
		})
	}
	return results, nil
}

var _ domain.RemovedSharedVaultUserRepository = (*removedSharedVaultUserRepository)(nil)
