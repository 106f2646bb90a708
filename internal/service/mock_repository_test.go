package service

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"

	"gorm.io/gorm"
)

// stepTimer 每次调用前进 1 微秒
type stepTimer struct {
	mu  sync.Mutex
	now int64
}

func newStepTimer(start int64) *stepTimer { return &stepTimer{now: start} }

func (t *stepTimer) NowMicro() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now++
	return t.now
}

// memItemRepository 内存条目仓储，按 ItemQuery 语义过滤
type memItemRepository struct {
	mu        sync.Mutex
	items     map[string]*domain.Item
	upserts   int
	upsertErr map[string]error
	findErr   error
}

func newMemItemRepository(items ...*domain.Item) *memItemRepository {
	r := &memItemRepository{items: map[string]*domain.Item{}, upsertErr: map[string]error{}}
	for _, it := range items {
		cp := *it
		r.items[it.UUID] = &cp
	}
	return r
}

func (r *memItemRepository) match(q domain.ItemQuery, it *domain.Item) bool {
	switch {
	case q.Exclusive || len(q.ExclusiveSharedVaultUUIDs) > 0:
		if it.SharedVaultUUID == "" || !slices.Contains(q.ExclusiveSharedVaultUUIDs, it.SharedVaultUUID) {
			return false
		}
	case len(q.IncludeSharedVaultUUIDs) > 0:
		if it.UserUUID != q.UserUUID && !slices.Contains(q.IncludeSharedVaultUUIDs, it.SharedVaultUUID) {
			return false
		}
	case q.UserUUID != "":
		if it.UserUUID != q.UserUUID {
			return false
		}
	}
	if q.LastSyncTime != nil {
		if q.SyncComparison == domain.ComparisonGreaterOrEqual {
			if it.UpdatedAtTimestamp < *q.LastSyncTime {
				return false
			}
		} else if it.UpdatedAtTimestamp <= *q.LastSyncTime {
			return false
		}
	}
	if q.UntilSyncTime != nil && it.UpdatedAtTimestamp > *q.UntilSyncTime {
		return false
	}
	if q.ContentType != "" && it.ContentType != q.ContentType {
		return false
	}
	if q.Deleted != nil && it.Deleted != *q.Deleted {
		return false
	}
	if len(q.UUIDs) > 0 && !slices.Contains(q.UUIDs, it.UUID) {
		return false
	}
	return true
}

func (r *memItemRepository) list(q domain.ItemQuery, limited bool) []*domain.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Item, 0)
	for _, it := range r.items {
		if r.match(q, it) {
			cp := *it
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAtTimestamp != out[j].UpdatedAtTimestamp {
			return out[i].UpdatedAtTimestamp < out[j].UpdatedAtTimestamp
		}
		return out[i].UUID < out[j].UUID
	})
	if limited && q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func (r *memItemRepository) FindByUUID(_ context.Context, uuid string) (*domain.Item, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[uuid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepository) FindContentSizeDescriptors(_ context.Context, q domain.ItemQuery) ([]domain.ContentSizeDescriptor, error) {
	items := r.list(q, true)
	out := make([]domain.ContentSizeDescriptor, 0, len(items))
	for _, it := range items {
		out = append(out, domain.ContentSizeDescriptor{UUID: it.UUID, ContentSize: it.ContentSize, UpdatedAtTimestamp: it.UpdatedAtTimestamp})
	}
	return out, nil
}

func (r *memItemRepository) FindAll(_ context.Context, q domain.ItemQuery) ([]*domain.Item, error) {
	return r.list(q, true), nil
}

func (r *memItemRepository) CountAll(_ context.Context, q domain.ItemQuery) (int64, error) {
	return int64(len(r.list(q, false))), nil
}

func (r *memItemRepository) Upsert(_ context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.upsertErr[item.UUID]; err != nil {
		return err
	}
	cp := *item
	r.items[item.UUID] = &cp
	r.upserts++
	return nil
}

func (r *memItemRepository) get(uuid string) *domain.Item {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[uuid]
}

// mockMemberRepo 内存成员关系仓储
type mockMemberRepo struct {
	domain.SharedVaultUserRepository
	mu      sync.Mutex
	members []*domain.SharedVaultUser
	err     error
	calls   int
}

func (m *mockMemberRepo) add(userUUID, vaultUUID string, p domain.Permission) *mockMemberRepo {
	m.members = append(m.members, &domain.SharedVaultUser{
		UUID:            userUUID + "-" + vaultUUID,
		UserUUID:        userUUID,
		SharedVaultUUID: vaultUUID,
		Permission:      p,
	})
	return m
}

func (m *mockMemberRepo) FindByUserAndVault(_ context.Context, userUUID, vaultUUID string) (*domain.SharedVaultUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for _, v := range m.members {
		if v.UserUUID == userUUID && v.SharedVaultUUID == vaultUUID {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMemberRepo) FindByUser(_ context.Context, userUUID string, updatedAfter *int64) ([]*domain.SharedVaultUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.SharedVaultUser, 0)
	for _, v := range m.members {
		if v.UserUUID != userUUID {
			continue
		}
		if updatedAfter != nil && v.UpdatedAtTimestamp <= *updatedAfter {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockMemberRepo) FindByVault(_ context.Context, vaultUUID string) ([]*domain.SharedVaultUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.SharedVaultUser, 0)
	for _, v := range m.members {
		if v.SharedVaultUUID == vaultUUID {
			out = append(out, v)
		}
	}
	return out, nil
}

// mockContactRepo 只实现 FindByUser
type mockContactRepo struct {
	domain.ContactRepository
	contacts []*domain.Contact
	calls    int
}

func (m *mockContactRepo) FindByUser(_ context.Context, userUUID string, updatedAfter *int64) ([]*domain.Contact, error) {
	m.calls++
	out := make([]*domain.Contact, 0)
	for _, c := range m.contacts {
		if c.UserUUID == userUUID && (updatedAfter == nil || c.UpdatedAtTimestamp > *updatedAfter) {
			out = append(out, c)
		}
	}
	return out, nil
}

func ptr[T any](v T) *T { return &v }
