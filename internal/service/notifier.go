package service

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"
	"github.com/haierkeys/fast-vault-sync-service/pkg/workerpool"

	"go.uber.org/zap"
)

// ActionItemsChanged 条目变更推送动作
const ActionItemsChanged = "ITEMS_CHANGED_ON_SERVER"

// ChangePusher delivers a message to a user's open connections
// ChangePusher 向用户在线连接推送消息（由 websocket hub 实现）
type ChangePusher interface {
	SendToUser(userUUID, exceptSession, action string, content any) (int, error)
}

// ItemsChangedEvent 推送给客户端的变更摘要
type ItemsChangedEvent struct {
	UserUUID         string   `json:"userUuid"`
	SharedVaultUUIDs []string `json:"sharedVaultUuids"`
	ItemCount        int      `json:"itemCount"`
}

// ItemChangeNotifier 条目变更通知接口，尽力而为
type ItemChangeNotifier interface {
	NotifyItemsChanged(ctx context.Context, actor SyncActor, items []*domain.Item)
}

type itemChangeNotifier struct {
	pool    *workerpool.Pool
	pusher  ChangePusher
	members domain.SharedVaultUserRepository
	logger  *zap.Logger
}

// NewItemChangeNotifier 创建基于 worker pool 的变更通知
func NewItemChangeNotifier(pool *workerpool.Pool, pusher ChangePusher, members domain.SharedVaultUserRepository, logger *zap.Logger) ItemChangeNotifier {
	return &itemChangeNotifier{
		pool:    pool,
		pusher:  pusher,
		members: members,
		logger:  logger,
	}
}

func (n *itemChangeNotifier) NotifyItemsChanged(ctx context.Context, actor SyncActor, items []*domain.Item) {
	if n.pool == nil || n.pusher == nil || len(items) == 0 {
		return
	}

	event := ItemsChangedEvent{UserUUID: actor.UserUUID, ItemCount: len(items)}
	seen := make(map[string]struct{})
	for _, item := range items {
		if item.SharedVaultUUID == "" {
			continue
		}
		if _, ok := seen[item.SharedVaultUUID]; ok {
			continue
		}
		seen[item.SharedVaultUUID] = struct{}{}
		event.SharedVaultUUIDs = append(event.SharedVaultUUIDs, item.SharedVaultUUID)
	}

	err := n.pool.SubmitAsync(context.WithoutCancel(ctx), "notify_items_changed", func(ctx context.Context) error {
		n.push(ctx, actor, event)
		return nil
	})
	if err != nil {
		n.logger.Warn("items changed notification dropped",
			logger.TraceField(ctx),
			zap.String(logger.FieldUID, actor.UserUUID),
			zap.Error(err))
	}
}

// push 先推送给用户自己的其它会话，再推送给涉及共享库的其它成员
func (n *itemChangeNotifier) push(ctx context.Context, actor SyncActor, event ItemsChangedEvent) {
	if _, err := n.pusher.SendToUser(actor.UserUUID, actor.SessionUUID, ActionItemsChanged, event); err != nil {
		n.logger.Warn("push to user failed", logger.TraceField(ctx), zap.String(logger.FieldUID, actor.UserUUID), zap.Error(err))
	}

	notified := map[string]struct{}{actor.UserUUID: {}}
	for _, vaultUUID := range event.SharedVaultUUIDs {
		members, err := n.members.FindByVault(ctx, vaultUUID)
		if err != nil {
			n.logger.Warn("list shared vault members failed",
				logger.TraceField(ctx),
				zap.String(logger.FieldSharedVaultUUID, vaultUUID),
				zap.Error(err))
			continue
		}
		for _, m := range members {
			if _, ok := notified[m.UserUUID]; ok {
				continue
			}
			notified[m.UserUUID] = struct{}{}
			if _, err := n.pusher.SendToUser(m.UserUUID, "", ActionItemsChanged, event); err != nil {
				n.logger.Warn("push to member failed", logger.TraceField(ctx), zap.String(logger.FieldUID, m.UserUUID), zap.Error(err))
			}
		}
	}
}

var _ ItemChangeNotifier = (*itemChangeNotifier)(nil)
