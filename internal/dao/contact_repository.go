package dao

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// contactRepository 实现 domain.ContactRepository 接口
type contactRepository struct {
	dao *Dao
}

// NewContactRepository 创建 ContactRepository 实例
func NewContactRepository(dao *Dao) domain.ContactRepository {
	return &contactRepository{dao: dao}
}

func (r *contactRepository) toDomain(m *model.Contact) *domain.Contact {
	if m == nil {
		return nil
	}
	return &domain.Contact{
		UUID:                    m.UUID,
		UserUUID:                m.UserUUID,
		ContactUUID:             m.ContactUUID,
		ContactPublicKey:        m.ContactPublicKey,
		ContactSigningPublicKey: m.ContactSigningPublicKey,
		CreatedAtTimestamp:      m.CreatedAtTimestamp,
		UpdatedAtTimestamp:      m.UpdatedAtTimestamp,
	}
}

// FindByUUID 根据 UUID 获取联系人
func (r *contactRepository) FindByUUID(ctx context.Context, uuid string) (*domain.Contact, error) {
	var m model.Contact
	if err := r.dao.DB(ctx).Where("uuid = ?", uuid).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindByUserAndContact 根据用户与联系人用户获取记录
func (r *contactRepository) FindByUserAndContact(ctx context.Context, userUUID, contactUUID string) (*domain.Contact, error) {
	var m model.Contact
	err := r.dao.DB(ctx).
		Where("user_uuid = ? AND contact_uuid = ?", userUUID, contactUUID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// FindByUser 获取用户的联系人
func (r *contactRepository) FindByUser(ctx context.Context, userUUID string, updatedAfter *int64) ([]*domain.Contact, error) {
	db := r.dao.DB(ctx).Where("user_uuid = ?", userUUID)
	if updatedAfter != nil {
		db = db.Where("updated_at_timestamp > ?", *updatedAfter)
	}
	var modelList []*model.Contact
	if err := db.Order("updated_at_timestamp ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}
	results := make([]*domain.Contact, 0, len(modelList))
	for _, m := range modelList {
		results = append(results, r.toDomain(m))
	}
	return results, nil
}

// Save 创建或更新联系人
func (r *contactRepository) Save(ctx context.Context, contact *domain.Contact) error {
	return r.dao.ExecuteWrite(ctx, contact.UserUUID, func(db *gorm.DB) error {
		return db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uuid"}},
			DoUpdates: clause.AssignmentColumns([]string{"contact_public_key", "contact_signing_public_key", "updated_at_timestamp"}),
		}).Create(&model.Contact{
			UUID:                    contact.UUID,
			UserUUID:                contact.UserUUID,
			ContactUUID:             contact.ContactUUID,
			ContactPublicKey:        contact.ContactPublicKey,
			ContactSigningPublicKey: contact.ContactSigningPublicKey,
			CreatedAtTimestamp:      contact.CreatedAtTimestamp,
			UpdatedAtTimestamp:      contact.UpdatedAtTimestamp,
		}).Error
	})
}

// Remove 删除联系人
func (r *contactRepository) Remove(ctx context.Context, uuid string) error {
	return r.dao.ExecuteWrite(ctx, uuid, func(db *gorm.DB) error {
		return db.Where("uuid = ?", uuid).Delete(&model.Contact{}).Error
	})
}

var _ domain.ContactRepository = (*contactRepository)(nil)
