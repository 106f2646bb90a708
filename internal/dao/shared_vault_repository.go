package dao

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"

	"gorm.io/gorm"
)

// sharedVaultRepository 实现 domain.SharedVaultRepository 接口
type sharedVaultRepository struct {
	dao *Dao
}

// NewSharedVaultRepository 创建 SharedVaultRepository 实例
func NewSharedVaultRepository(dao *Dao) domain.SharedVaultRepository {
	return &sharedVaultRepository{dao: dao}
}

func (r *sharedVaultRepository) toDomain(m *model.SharedVault) *domain.SharedVault {
	if m == nil {
		return nil
	}
	return &domain.SharedVault{
		UUID:               m.UUID,
		UserUUID:           m.UserUUID,
		CreatedAtTimestamp: m.CreatedAtTimestamp,
		UpdatedAtTimestamp: m.UpdatedAtTimestamp,
	}
}

func (r *sharedVaultRepository) toModel(v *domain.SharedVault) *model.SharedVault {
	return &model.SharedVault{
		UUID:               v.UUID,
		UserUUID:           v.UserUUID,
		CreatedAtTimestamp: v.CreatedAtTimestamp,
		UpdatedAtTimestamp: v.UpdatedAtTimestamp,
	}
}

// Create 创建共享库
func (r *sharedVaultRepository) Create(ctx context.Context, vault *domain.SharedVault) error {
	return r.dao.ExecuteWrite(ctx, vault.UserUUID, func(db *gorm.DB) error {
		return db.Create(r.toModel(vault)).Error
	})
}

// FindByUUID 根据 UUID 获取共享库
func (r *sharedVaultRepository) FindByUUID(ctx context.Context, uuid string) (*domain.SharedVault, error) {
	var m model.SharedVault
	if err := r.dao.DB(ctx).Where("uuid = ?", uuid).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindByUUIDs 批量获取共享库
func (r *sharedVaultRepository) FindByUUIDs(ctx context.Context, uuids []string) ([]*domain.SharedVault, error) {
	if len(uuids) == 0 {
		return nil, nil
	}
	var modelList []*model.SharedVault
	if err := r.dao.DB(ctx).Where("uuid IN ?", uuids).Order("created_at_timestamp ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	results := make([]*domain.SharedVault, 0, len(modelList))
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// Remove 删除共享库
func (r *sharedVaultRepository) Remove(ctx context.Context, uuid string) error {
	return r.dao.ExecuteWrite(ctx, uuid, func(db *gorm.DB) error {
		return db.Where("uuid = ?", uuid).Delete(&model.SharedVault{}).Error
	})
}

var _ domain.SharedVaultRepository = (*sharedVaultRepository)(nil)
