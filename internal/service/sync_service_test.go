package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	"github.com/haierkeys/fast-vault-sync-service/pkg/synctoken"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]*domain.Item
}

func (n *recordingNotifier) NotifyItemsChanged(_ context.Context, _ SyncActor, items []*domain.Item) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, items)
}

type syncFixture struct {
	items    *memItemRepository
	members  *mockMemberRepo
	contacts *mockContactRepo
	notifier *recordingNotifier
	metrics  *SyncMetrics
	svc      SyncService
}

func newSyncFixture(items *memItemRepository, members *mockMemberRepo) *syncFixture {
	f := &syncFixture{
		items:    items,
		members:  members,
		contacts: &mockContactRepo{},
		notifier: &recordingNotifier{},
		metrics:  NewSyncMetrics(prometheus.NewRegistry()),
	}
	getter := NewItemGetService(items, members, SyncServiceConfig{}, zap.NewNop())
	saver := NewItemSaveService(items, NewDefaultItemSaveValidator(members), newStepTimer(1_000_000), zap.NewNop())
	f.svc = NewSyncService(getter, saver, members, f.contacts, f.notifier, f.metrics, zap.NewNop())
	return f
}

func uuidsOf(items []*domain.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.UUID)
	}
	return out
}

func TestSyncService_StaleWriteIsReturnedAsConflictOnly(t *testing.T) {
	items := newMemItemRepository(
		&domain.Item{UUID: item1, UserUUID: userA, ContentType: domain.ContentTypeNote, Content: "004:server", UpdatedAtTimestamp: 5_000},
		&domain.Item{UUID: item2, UserUUID: userA, ContentType: domain.ContentTypeNote, Content: "004:other", UpdatedAtTimestamp: 6_000},
	)
	f := newSyncFixture(items, &mockMemberRepo{})

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA, SessionUUID: sessionA}, &dto.ItemSyncRequest{
		SyncToken: synctoken.Encode(1_000),
		Items: []dto.ItemHashRequest{{
			UUID:               item1,
			ContentType:        string(domain.ContentTypeNote),
			Content:            ptr("004:client"),
			UpdatedAtTimestamp: ptr(int64(1_000)),
		}},
	})
	require.NoError(t, err)

	require.Len(t, payload.Conflicts, 1)
	assert.Equal(t, domain.ConflictSync, payload.Conflicts[0].Type)
	require.NotNil(t, payload.Conflicts[0].ServerItem)
	assert.Equal(t, "004:server", payload.Conflicts[0].ServerItem.Content)

	assert.Equal(t, []string{item2}, uuidsOf(payload.RetrievedItems))
	assert.Empty(t, payload.SavedItems)
	assert.Empty(t, f.notifier.calls)
	assert.Equal(t, "004:server", items.get(item1).Content)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Requests.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Conflicts.WithLabelValues(string(domain.ConflictSync))))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Retrieved))
}

func TestSyncService_FirstSyncFrontLoadsKeys(t *testing.T) {
	items := newMemItemRepository(
		&domain.Item{UUID: itemUUID(1), UserUUID: userA, ContentType: domain.ContentTypeNote, UpdatedAtTimestamp: 100},
		&domain.Item{UUID: itemUUID(2), UserUUID: userA, ContentType: domain.ContentTypeItemsKey, UpdatedAtTimestamp: 200},
	)
	f := newSyncFixture(items, &mockMemberRepo{})

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA}, &dto.ItemSyncRequest{})
	require.NoError(t, err)
	assert.Equal(t, []string{itemUUID(2), itemUUID(1)}, uuidsOf(payload.RetrievedItems))
	assert.NotEmpty(t, payload.SyncToken)
	assert.Empty(t, payload.CursorToken)
}

func TestSyncService_FirstSyncDoesNotFrontLoadConflictedKey(t *testing.T) {
	items := newMemItemRepository(
		&domain.Item{UUID: item1, UserUUID: userA, ContentType: domain.ContentTypeItemsKey, Content: "004:server-key", UpdatedAtTimestamp: 5_000},
		&domain.Item{UUID: itemUUID(2), UserUUID: userA, ContentType: domain.ContentTypeItemsKey, Content: "004:other-key", UpdatedAtTimestamp: 6_000},
		&domain.Item{UUID: itemUUID(3), UserUUID: userA, ContentType: domain.ContentTypeNote, UpdatedAtTimestamp: 7_000},
	)
	f := newSyncFixture(items, &mockMemberRepo{})

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA, SessionUUID: sessionA}, &dto.ItemSyncRequest{
		Items: []dto.ItemHashRequest{{
			UUID:               item1,
			ContentType:        string(domain.ContentTypeItemsKey),
			Content:            ptr("004:client-key"),
			UpdatedAtTimestamp: ptr(int64(1_000)),
		}},
	})
	require.NoError(t, err)

	require.Len(t, payload.Conflicts, 1)
	assert.Equal(t, domain.ConflictSync, payload.Conflicts[0].Type)
	assert.Equal(t, item1, payload.Conflicts[0].ItemUUID())

	retrieved := uuidsOf(payload.RetrievedItems)
	assert.NotContains(t, retrieved, item1)
	assert.Equal(t, []string{itemUUID(2), itemUUID(3)}, retrieved)
	assert.Equal(t, "004:server-key", items.get(item1).Content)
}

func TestSyncService_SavesAndNotifies(t *testing.T) {
	f := newSyncFixture(newMemItemRepository(), &mockMemberRepo{})
	f.contacts.contacts = []*domain.Contact{{UUID: "c1", UserUUID: userA, ContactUUID: userB, UpdatedAtTimestamp: 10}}

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA, SessionUUID: sessionA}, &dto.ItemSyncRequest{
		Items: []dto.ItemHashRequest{{UUID: item1, ContentType: string(domain.ContentTypeNote), Content: ptr("004:new")}},
	})
	require.NoError(t, err)

	require.Len(t, payload.SavedItems, 1)
	assert.Equal(t, item1, payload.SavedItems[0].UUID)
	require.Len(t, payload.Contacts, 1)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, item1, f.notifier.calls[0][0].UUID)

	token, err := synctoken.Decode(payload.SyncToken)
	require.NoError(t, err)
	assert.Greater(t, token.Micro, payload.SavedItems[0].UpdatedAtTimestamp)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Saved))
}

func TestSyncService_VaultExclusiveSyncSkipsDeltas(t *testing.T) {
	items := newMemItemRepository(
		&domain.Item{UUID: itemUUID(1), UserUUID: userA, ContentType: domain.ContentTypeItemsKey, UpdatedAtTimestamp: 100},
		&domain.Item{UUID: itemUUID(2), UserUUID: userB, SharedVaultUUID: vault1, KeySystemIdentifier: "ks", ContentType: domain.ContentTypeNote, UpdatedAtTimestamp: 200},
	)
	members := (&mockMemberRepo{}).add(userA, vault1, domain.PermissionWrite)
	f := newSyncFixture(items, members)

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA}, &dto.ItemSyncRequest{SharedVaultUUIDs: []string{vault1}})
	require.NoError(t, err)

	assert.Equal(t, []string{itemUUID(2)}, uuidsOf(payload.RetrievedItems))
	assert.Nil(t, payload.GroupKeys)
	assert.Nil(t, payload.Contacts)
	assert.Zero(t, f.contacts.calls)
}

func TestSyncService_GroupKeysFollowLastSyncTime(t *testing.T) {
	members := &mockMemberRepo{}
	members.add(userA, vault1, domain.PermissionRead).add(userA, vault2, domain.PermissionAdmin)
	members.members[0].UpdatedAtTimestamp = 100
	members.members[1].UpdatedAtTimestamp = 900
	f := newSyncFixture(newMemItemRepository(), members)

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA}, &dto.ItemSyncRequest{SyncToken: synctoken.Encode(500)})
	require.NoError(t, err)
	require.Len(t, payload.GroupKeys, 1)
	assert.Equal(t, vault2, payload.GroupKeys[0].SharedVaultUUID)
}

func TestSyncService_CollaboratorFailure(t *testing.T) {
	f := newSyncFixture(newMemItemRepository(), &mockMemberRepo{err: errors.New("db down")})

	payload, err := f.svc.Sync(context.Background(), SyncActor{UserUUID: userA}, &dto.ItemSyncRequest{})
	assert.Error(t, err)
	assert.Nil(t, payload)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Requests.WithLabelValues("error")))
}

func TestWithoutSyncConflicts(t *testing.T) {
	retrieved := []*domain.Item{{UUID: item1}, {UUID: item2}}
	conflicts := []*domain.Conflict{
		{Type: domain.ConflictUUID, UnsavedItem: &domain.ItemHash{UUID: item2}},
		{Type: domain.ConflictSync, ServerItem: &domain.Item{UUID: item1}},
	}
	assert.Equal(t, []string{item2}, uuidsOf(withoutSyncConflicts(retrieved, conflicts)))
	assert.Len(t, withoutSyncConflicts(retrieved, nil), 2)
}
