package service

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"
	"github.com/haierkeys/fast-vault-sync-service/pkg/synctoken"

	"go.uber.org/zap"
)

// GetItemsRequest 拉取参数
type GetItemsRequest struct {
	SyncToken   string
	CursorToken string
	Limit       int
	ContentType domain.ContentType
	// SharedVaultUUIDs 非空时只拉取这些共享库（与成员关系取交集）
	SharedVaultUUIDs []string
}

// VaultExclusive 是否为仅限指定共享库的同步
func (r *GetItemsRequest) VaultExclusive() bool {
	return len(r.SharedVaultUUIDs) > 0
}

// GetItemsResult 拉取结果
type GetItemsResult struct {
	Items []*domain.Item
	// CursorToken 为空表示本轮同步已取完
	CursorToken string
	// LastSyncTime 解码出的时间下界，全量同步时为 nil
	LastSyncTime *int64
}

// ItemGetService 定义条目拉取业务接口
type ItemGetService interface {
	// GetItems returns one page of items changed after the caller's token,
	// bounded by the row limit and the byte transfer budget.
	// GetItems 拉取一页变更条目
	GetItems(ctx context.Context, userUUID string, req *GetItemsRequest) (*GetItemsResult, error)

	// LastSyncTime 解码令牌，cursor_token 优先；两者都为空时返回 nil
	LastSyncTime(syncToken, cursorToken string) (*int64, error)

	// FrontLoadKeys 将用户的 ItemsKey 条目移到列表最前面
	FrontLoadKeys(ctx context.Context, userUUID string, items []*domain.Item) ([]*domain.Item, error)
}

type itemGetService struct {
	items   domain.ItemRepository
	members domain.SharedVaultUserRepository
	config  SyncServiceConfig
	logger  *zap.Logger
}

// NewItemGetService 创建 ItemGetService 实例
func NewItemGetService(items domain.ItemRepository, members domain.SharedVaultUserRepository, config SyncServiceConfig, logger *zap.Logger) ItemGetService {
	return &itemGetService{
		items:   items,
		members: members,
		config:  config.withDefaults(),
		logger:  logger,
	}
}

func (s *itemGetService) LastSyncTime(syncToken, cursorToken string) (*int64, error) {
	token := syncToken
	if cursorToken != "" {
		token = cursorToken
	}
	if token == "" {
		return nil, nil
	}
	decoded, err := synctoken.Decode(token)
	if err != nil {
		return nil, code.ErrorInvalidSyncToken.WithDetails(err.Error())
	}
	micro := decoded.Micro
	return &micro, nil
}

// resolveLimit 默认值与上限
func (s *itemGetService) resolveLimit(limit int) int {
	if limit < 1 {
		limit = s.config.DefaultItemsLimit
	}
	return min(limit, s.config.MaxItemsLimit)
}

func (s *itemGetService) GetItems(ctx context.Context, userUUID string, req *GetItemsRequest) (*GetItemsResult, error) {
	lastSyncTime, err := s.LastSyncTime(req.SyncToken, req.CursorToken)
	if err != nil {
		return nil, err
	}

	comparison := domain.ComparisonGreater
	if req.CursorToken != "" {
		comparison = domain.ComparisonGreaterOrEqual
	}
	limit := s.resolveLimit(req.Limit)

	memberships, err := s.members.FindByUser(ctx, userUUID, nil)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	userVaults := make([]string, 0, len(memberships))
	for _, m := range memberships {
		userVaults = append(userVaults, m.SharedVaultUUID)
	}

	query := domain.ItemQuery{
		UserUUID:       userUUID,
		LastSyncTime:   lastSyncTime,
		SyncComparison: comparison,
		ContentType:    req.ContentType,
		SortOrder:      domain.SortAsc,
		Limit:          limit,
	}
	if lastSyncTime == nil {
		notDeleted := false
		query.Deleted = &notDeleted
	}
	if req.VaultExclusive() {
		query.Exclusive = true
		query.ExclusiveSharedVaultUUIDs = intersect(req.SharedVaultUUIDs, userVaults)
	} else {
		query.IncludeSharedVaultUUIDs = userVaults
	}

	descriptors, err := s.items.FindContentSizeDescriptors(ctx, query)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	selection := ComputeItemUUIDsToFetch(descriptors, s.config.ContentSizeTransferLimit)

	items := make([]*domain.Item, 0, len(selection.UUIDs))
	if len(selection.UUIDs) > 0 {
		items, err = s.items.FindAll(ctx, domain.ItemQuery{UUIDs: selection.UUIDs, SortOrder: domain.SortAsc})
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
	}

	result := &GetItemsResult{Items: items, LastSyncTime: lastSyncTime}

	more := selection.BudgetBreached
	if !more {
		total, err := s.items.CountAll(ctx, query)
		if err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		more = total > int64(limit)
	}

	if more && len(items) > 0 {
		cursor := items[len(items)-1].UpdatedAtTimestamp
		if comparison == domain.ComparisonGreaterOrEqual && lastSyncTime != nil && cursor <= *lastSyncTime {
			// The whole page sits on the cursor timestamp, so >= would return it
			// again. Deliver every row at that timestamp, then step past it.
			// 整页都落在游标时间上：一次返回该时间的全部条目，再前进游标
			if result.Items, err = s.itemsAt(ctx, query, *lastSyncTime); err != nil {
				return nil, err
			}
			cursor = *lastSyncTime + 1
		}
		result.CursorToken = synctoken.Encode(cursor)
	}

	s.logger.Debug("items retrieved",
		zap.String(logger.FieldUID, userUUID),
		zap.Int(logger.FieldCount, len(items)),
		zap.Bool("budgetBreached", selection.BudgetBreached),
		zap.Bool("hasCursor", result.CursorToken != ""))

	return result, nil
}

func (s *itemGetService) FrontLoadKeys(ctx context.Context, userUUID string, items []*domain.Item) ([]*domain.Item, error) {
	notDeleted := false
	keys, err := s.items.FindAll(ctx, domain.ItemQuery{
		UserUUID:    userUUID,
		ContentType: domain.ContentTypeItemsKey,
		Deleted:     &notDeleted,
		SortOrder:   domain.SortAsc,
	})
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if len(keys) == 0 {
		return items, nil
	}

	seen := make(map[string]struct{}, len(keys))
	out := make([]*domain.Item, 0, len(keys)+len(items))
	for _, k := range keys {
		seen[k.UUID] = struct{}{}
		out = append(out, k)
	}
	for _, item := range items {
		if _, ok := seen[item.UUID]; ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// itemsAt returns every item of query's scope updated exactly at ts,
// ignoring the page limit and the transfer budget.
func (s *itemGetService) itemsAt(ctx context.Context, query domain.ItemQuery, ts int64) ([]*domain.Item, error) {
	query.LastSyncTime = &ts
	query.SyncComparison = domain.ComparisonGreaterOrEqual
	query.UntilSyncTime = &ts
	query.Limit = 0
	items, err := s.items.FindAll(ctx, query)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return items, nil
}

// intersect 返回 a 中同时出现在 b 中的元素，保持 a 的顺序并去重
func intersect(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, v := range a {
		if _, ok := set[v]; ok {
			out = append(out, v)
			delete(set, v)
		}
	}
	return out
}

var _ ItemGetService = (*itemGetService)(nil)
