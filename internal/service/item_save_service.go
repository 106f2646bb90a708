package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"
	"github.com/haierkeys/fast-vault-sync-service/pkg/synctoken"
	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SyncActor 发起同步的用户会话
type SyncActor struct {
	UserUUID    string
	SessionUUID string
	ReadOnly    bool
}

// SaveItemsResult 批量保存结果
type SaveItemsResult struct {
	SavedItems []*domain.Item
	Conflicts  []*domain.Conflict
	SyncToken  string
}

// ItemSaveService 定义条目保存业务接口
type ItemSaveService interface {
	// SaveItems validates and persists a batch in submission order. Rejected
	// items come back as conflicts; only collaborator failures return an error.
	// SaveItems 按提交顺序校验并保存条目，被拒绝的条目以冲突返回
	SaveItems(ctx context.Context, actor SyncActor, apiVersion string, hashes []*domain.ItemHash) (*SaveItemsResult, error)
}

type itemSaveService struct {
	items     domain.ItemRepository
	validator *ItemSaveValidator
	timer     timex.Timer
	logger    *zap.Logger
}

// NewItemSaveService 创建 ItemSaveService 实例
func NewItemSaveService(items domain.ItemRepository, validator *ItemSaveValidator, timer timex.Timer, logger *zap.Logger) ItemSaveService {
	return &itemSaveService{
		items:     items,
		validator: validator,
		timer:     timer,
		logger:    logger,
	}
}

func (s *itemSaveService) SaveItems(ctx context.Context, actor SyncActor, apiVersion string, hashes []*domain.ItemHash) (*SaveItemsResult, error) {
	result := &SaveItemsResult{
		SavedItems: make([]*domain.Item, 0, len(hashes)),
		Conflicts:  make([]*domain.Conflict, 0),
	}
	lastUpdated := s.timer.NowMicro()

	for _, hash := range hashes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		existing, err := s.items.FindByUUID(ctx, hash.UUID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorDBQuery.WithDetails(err.Error())
			}
			existing = nil
		}

		conflict, err := s.validator.Validate(ctx, &ItemSaveValidation{
			UserUUID:    actor.UserUUID,
			SessionUUID: actor.SessionUUID,
			ReadOnly:    actor.ReadOnly,
			APIVersion:  apiVersion,
			Incoming:    hash,
			Existing:    existing,
		})
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			s.logger.Debug("item rejected",
				zap.String(logger.FieldUID, actor.UserUUID),
				zap.String(logger.FieldItemUUID, hash.UUID),
				zap.String(logger.FieldConflictType, string(conflict.Type)))
			result.Conflicts = append(result.Conflicts, conflict)
			continue
		}

		// 重复提交不产生写入
		if existing != nil && hash.EquivalentTo(existing) {
			result.SavedItems = append(result.SavedItems, existing)
			lastUpdated = max(lastUpdated, existing.UpdatedAtTimestamp)
			continue
		}

		item := s.buildItem(hash, existing, actor)
		if err := s.items.Upsert(ctx, item); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("item upsert failed",
				logger.TraceField(ctx),
				zap.String(logger.FieldUID, actor.UserUUID),
				zap.String(logger.FieldItemUUID, hash.UUID),
				zap.Error(err))
			result.Conflicts = append(result.Conflicts, domain.NewConflict(domain.ConflictUUID, hash, nil))
			continue
		}

		result.SavedItems = append(result.SavedItems, item)
		lastUpdated = max(lastUpdated, item.UpdatedAtTimestamp)
	}

	result.SyncToken = synctoken.Encode(lastUpdated + 1)
	return result, nil
}

// buildItem 将提交内容合并到已有条目（或新条目）上
func (s *itemSaveService) buildItem(hash *domain.ItemHash, existing *domain.Item, actor SyncActor) *domain.Item {
	now := s.timer.NowMicro()

	var item domain.Item
	if existing != nil {
		item = *existing
	} else {
		item = domain.Item{
			UUID:               hash.UUID,
			UserUUID:           actor.UserUUID,
			CreatedAtTimestamp: createdAtOf(hash, now),
		}
	}

	item.ContentType = hash.ContentType
	overwrite(&item.Content, hash.Content)
	overwrite(&item.EncItemKey, hash.EncItemKey)
	overwrite(&item.ItemsKeyID, hash.ItemsKeyID)
	overwrite(&item.AuthHash, hash.AuthHash)
	overwrite(&item.DuplicateOf, hash.DuplicateOf)
	if hash.Deleted != nil {
		item.Deleted = *hash.Deleted
	}

	item.SharedVaultUUID = hash.SharedVault()
	item.KeySystemIdentifier = ""
	overwrite(&item.KeySystemIdentifier, hash.KeySystemIdentifier)

	if item.Deleted {
		item.Content = ""
		item.EncItemKey = ""
		item.AuthHash = ""
		item.ItemsKeyID = ""
	}

	item.ContentSize = int64(len(item.Content))
	item.LastEditedByUUID = actor.UserUUID
	item.UpdatedWithSession = actor.SessionUUID
	item.UpdatedAtTimestamp = now
	return &item
}

func overwrite(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// createdAtOf 优先 created_at_timestamp，其次 created_at，最后当前时间
func createdAtOf(hash *domain.ItemHash, now int64) int64 {
	if hash.CreatedAtTimestamp != nil {
		return *hash.CreatedAtTimestamp
	}
	if hash.CreatedAt != nil {
		if us, err := timex.ParseDateToMicro(*hash.CreatedAt); err == nil {
			return us
		}
	}
	return now
}

var _ ItemSaveService = (*itemSaveService)(nil)
