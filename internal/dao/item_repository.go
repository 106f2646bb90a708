package dao

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// itemRepository 实现 domain.ItemRepository 接口
type itemRepository struct {
	dao *Dao
}

// NewItemRepository 创建 ItemRepository 实例
func NewItemRepository(dao *Dao) domain.ItemRepository {
	return &itemRepository{dao: dao}
}

// toDomain 将数据库模型转换为领域模型
func (r *itemRepository) toDomain(m *model.Item) *domain.Item {
	if m == nil {
		return nil
	}
	return &domain.Item{
		UUID:                m.UUID,
		UserUUID:            m.UserUUID,
		SharedVaultUUID:     deref(m.SharedVaultUUID),
		KeySystemIdentifier: deref(m.KeySystemIdentifier),
		ItemsKeyID:          deref(m.ItemsKeyID),
		DuplicateOf:         deref(m.DuplicateOf),
		EncItemKey:          deref(m.EncItemKey),
		Content:             deref(m.Content),
		ContentType:         domain.ContentType(m.ContentType),
		ContentSize:         m.ContentSize,
		AuthHash:            deref(m.AuthHash),
		Deleted:             m.Deleted,
		LastEditedByUUID:    deref(m.LastEditedByUUID),
		UpdatedWithSession:  deref(m.UpdatedWithSession),
		CreatedAtTimestamp:  m.CreatedAtTimestamp,
		UpdatedAtTimestamp:  m.UpdatedAtTimestamp,
	}
}

// toModel 将领域模型转换为数据库模型，空字符串写为 NULL
func (r *itemRepository) toModel(item *domain.Item) *model.Item {
	if item == nil {
		return nil
	}
	return &model.Item{
		UUID:                item.UUID,
		UserUUID:            item.UserUUID,
		SharedVaultUUID:     nullable(item.SharedVaultUUID),
		KeySystemIdentifier: nullable(item.KeySystemIdentifier),
		ItemsKeyID:          nullable(item.ItemsKeyID),
		DuplicateOf:         nullable(item.DuplicateOf),
		EncItemKey:          nullable(item.EncItemKey),
		Content:             nullable(item.Content),
		ContentType:         string(item.ContentType),
		ContentSize:         item.ContentSize,
		AuthHash:            nullable(item.AuthHash),
		Deleted:             item.Deleted,
		LastEditedByUUID:    nullable(item.LastEditedByUUID),
		UpdatedWithSession:  nullable(item.UpdatedWithSession),
		CreatedAtTimestamp:  item.CreatedAtTimestamp,
		UpdatedAtTimestamp:  item.UpdatedAtTimestamp,
	}
}

// scope 把 ItemQuery 翻译为查询条件（不含排序与 limit）
func (r *itemRepository) scope(q domain.ItemQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case q.Exclusive || len(q.ExclusiveSharedVaultUUIDs) > 0:
			if len(q.ExclusiveSharedVaultUUIDs) == 0 {
				// 请求的共享库与成员关系没有交集
				return db.Where("1 = 0")
			}
			db = db.Where("shared_vault_uuid IN ?", q.ExclusiveSharedVaultUUIDs)
		case len(q.IncludeSharedVaultUUIDs) > 0:
			db = db.Where("(user_uuid = ? OR shared_vault_uuid IN ?)", q.UserUUID, q.IncludeSharedVaultUUIDs)
		case q.UserUUID != "":
			db = db.Where("user_uuid = ?", q.UserUUID)
		}

		if q.LastSyncTime != nil {
			if q.SyncComparison == domain.ComparisonGreaterOrEqual {
				db = db.Where("updated_at_timestamp >= ?", *q.LastSyncTime)
			} else {
				db = db.Where("updated_at_timestamp > ?", *q.LastSyncTime)
			}
		}
		if q.UntilSyncTime != nil {
			db = db.Where("updated_at_timestamp <= ?", *q.UntilSyncTime)
		}
		if q.ContentType != "" {
			db = db.Where("content_type = ?", string(q.ContentType))
		}
		if q.Deleted != nil {
			db = db.Where("deleted = ?", *q.Deleted)
		}
		if len(q.UUIDs) > 0 {
			db = db.Where("uuid IN ?", q.UUIDs)
		}
		return db
	}
}

// order 排序与 limit，updated_at_timestamp 相同时按 uuid 保证顺序稳定
func (r *itemRepository) order(q domain.ItemQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.SortOrder == domain.SortDesc {
			db = db.Order("updated_at_timestamp DESC").Order("uuid DESC")
		} else {
			db = db.Order("updated_at_timestamp ASC").Order("uuid ASC")
		}
		if q.Limit > 0 {
			db = db.Limit(q.Limit)
		}
		return db
	}
}

// FindByUUID 根据 UUID 获取条目
func (r *itemRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Item, error) {
	var m model.Item
	if err := r.dao.DB(ctx).Where("uuid = ?", uuid).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindContentSizeDescriptors 只查询 uuid / content_size / updated_at_timestamp
func (r *itemRepository) FindContentSizeDescriptors(ctx context.Context, q domain.ItemQuery) ([]domain.ContentSizeDescriptor, error) {
	var rows []struct {
		UUID               string
		ContentSize        int64
		UpdatedAtTimestamp int64
	}
	err := r.dao.DB(ctx).Model(&model.Item{}).
		Select("uuid", "content_size", "updated_at_timestamp").
		Scopes(r.scope(q), r.order(q)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.ContentSizeDescriptor, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.ContentSizeDescriptor{
			UUID:               row.UUID,
			ContentSize:        row.ContentSize,
			UpdatedAtTimestamp: row.UpdatedAtTimestamp,
		})
	}
	return out, nil
}

// FindAll 按查询条件获取完整条目
func (r *itemRepository) FindAll(ctx context.Context, q domain.ItemQuery) ([]*domain.Item, error) {
	var modelList []*model.Item
	err := r.dao.DB(ctx).Scopes(r.scope(q), r.order(q)).Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	results := make([]*domain.Item, 0, len(modelList))
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// CountAll 统计满足条件的条目数（忽略 Limit）
func (r *itemRepository) CountAll(ctx context.Context, q domain.ItemQuery) (int64, error) {
	var count int64
	err := r.dao.DB(ctx).Model(&model.Item{}).Scopes(r.scope(q)).Count(&count).Error
	return count, err
}

// Upsert 按 UUID 插入或整行覆盖
func (r *itemRepository) Upsert(ctx context.Context, item *domain.Item) error {
	m := r.toModel(item)
	return r.dao.ExecuteWrite(ctx, item.UserUUID, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			UpdateAll: true,
		}).Create(m).Error
	})
}

// Ensure itemRepository implements domain.ItemRepository interface
var _ domain.ItemRepository = (*itemRepository)(nil)
