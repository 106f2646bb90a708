package service

import (
	"context"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SyncService 定义条目同步业务接口
type SyncService interface {
	// Sync pulls one page of server changes and saves the submitted items.
	// Sync 拉取一页服务端变更并保存客户端提交的条目
	Sync(ctx context.Context, actor SyncActor, params *dto.ItemSyncRequest) (*dto.SyncPayload, error)
}

type syncService struct {
	getter   ItemGetService
	saver    ItemSaveService
	members  domain.SharedVaultUserRepository
	contacts domain.ContactRepository
	notifier ItemChangeNotifier
	metrics  *SyncMetrics
	logger   *zap.Logger
}

// NewSyncService 创建 SyncService 实例，notifier 与 metrics 可以为 nil
func NewSyncService(
	getter ItemGetService,
	saver ItemSaveService,
	members domain.SharedVaultUserRepository,
	contacts domain.ContactRepository,
	notifier ItemChangeNotifier,
	metrics *SyncMetrics,
	logger *zap.Logger,
) SyncService {
	return &syncService{
		getter:   getter,
		saver:    saver,
		members:  members,
		contacts: contacts,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *syncService) Sync(ctx context.Context, actor SyncActor, params *dto.ItemSyncRequest) (payload *dto.SyncPayload, err error) {
	start := time.Now()
	defer func() {
		s.observe(start, payload, err)
		if err != nil {
			s.logger.Error("sync failed",
				logger.TraceField(ctx),
				zap.String(logger.FieldUID, actor.UserUUID),
				zap.String(logger.FieldSessionID, actor.SessionUUID),
				zap.Error(err))
		}
	}()

	getReq := &GetItemsRequest{
		SyncToken:        params.SyncToken,
		CursorToken:      params.CursorToken,
		Limit:            params.Limit,
		ContentType:      domain.ContentType(params.ContentType),
		SharedVaultUUIDs: params.SharedVaultUUIDs,
	}
	retrieved, err := s.getter.GetItems(ctx, actor.UserUUID, getReq)
	if err != nil {
		return nil, err
	}

	apiVersion := params.API
	if apiVersion == "" {
		apiVersion = APIVersion20200115
	}
	saved, err := s.saver.SaveItems(ctx, actor, apiVersion, params.ItemHashes())
	if err != nil {
		return nil, err
	}

	items := retrieved.Items
	exclusive := getReq.VaultExclusive()
	if params.SyncToken == "" && !exclusive {
		if items, err = s.getter.FrontLoadKeys(ctx, actor.UserUUID, items); err != nil {
			return nil, err
		}
	}
	// 冲突条目已随 conflicts 回显，front-load 之后再剔除
	items = withoutSyncConflicts(items, saved.Conflicts)

	payload = &dto.SyncPayload{
		RetrievedItems: items,
		SavedItems:     saved.SavedItems,
		Conflicts:      saved.Conflicts,
		SyncToken:      saved.SyncToken,
		CursorToken:    retrieved.CursorToken,
	}

	if !exclusive {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			keys, err := s.members.FindByUser(gctx, actor.UserUUID, retrieved.LastSyncTime)
			if err != nil {
				return code.ErrorDBQuery.WithDetails(err.Error())
			}
			payload.GroupKeys = keys
			return nil
		})
		g.Go(func() error {
			contacts, err := s.contacts.FindByUser(gctx, actor.UserUUID, retrieved.LastSyncTime)
			if err != nil {
				return code.ErrorDBQuery.WithDetails(err.Error())
			}
			payload.Contacts = contacts
			return nil
		})
		if err = g.Wait(); err != nil {
			return nil, err
		}
	}

	if s.notifier != nil && len(saved.SavedItems) > 0 {
		s.notifier.NotifyItemsChanged(ctx, actor, saved.SavedItems)
	}
	return payload, nil
}

// observe 记录请求结果与耗时
func (s *syncService) observe(start time.Time, payload *dto.SyncPayload, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.Duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Requests.WithLabelValues("error").Inc()
		return
	}
	s.metrics.Requests.WithLabelValues("ok").Inc()
	s.metrics.Saved.Add(float64(len(payload.SavedItems)))
	s.metrics.Retrieved.Add(float64(len(payload.RetrievedItems)))
	for _, c := range payload.Conflicts {
		s.metrics.Conflicts.WithLabelValues(string(c.Type)).Inc()
	}
}

// withoutSyncConflicts drops retrieved items the client will learn about
// through a sync_conflict of this same request
// withoutSyncConflicts 去掉本次请求产生 sync_conflict 的条目
func withoutSyncConflicts(items []*domain.Item, conflicts []*domain.Conflict) []*domain.Item {
	conflicted := make(map[string]struct{})
	for _, c := range conflicts {
		if c.Type == domain.ConflictSync {
			conflicted[c.ItemUUID()] = struct{}{}
		}
	}
	if len(conflicted) == 0 {
		return items
	}
	out := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if _, ok := conflicted[item.UUID]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}

var _ SyncService = (*syncService)(nil)
