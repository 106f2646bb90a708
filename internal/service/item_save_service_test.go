package service

import (
	"context"
	"errors"
	"testing"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/synctoken"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	item2    = "0e4a8d2b-3c5f-4b6a-9d7e-1f2a3b4c5d02"
	sessionA = "5e1d9c3a-8b7f-4e2d-a6c5-0f9e8d7c6b01"
)

func newTestSaveService(items *memItemRepository, members *mockMemberRepo, start int64) ItemSaveService {
	return NewItemSaveService(items, NewDefaultItemSaveValidator(members), newStepTimer(start), zap.NewNop())
}

func TestItemSaveService_CreatesNewItem(t *testing.T) {
	items := newMemItemRepository()
	svc := newTestSaveService(items, &mockMemberRepo{}, 1_000)

	hash := &domain.ItemHash{
		UUID:               item1,
		ContentType:        domain.ContentTypeNote,
		Content:            ptr("004:abcdef"),
		EncItemKey:         ptr("004:key"),
		ItemsKeyID:         ptr("ik-1"),
		CreatedAtTimestamp: ptr(int64(42)),
	}
	result, err := svc.SaveItems(context.Background(), SyncActor{UserUUID: userA, SessionUUID: sessionA}, APIVersion20200115, []*domain.ItemHash{hash})
	require.NoError(t, err)
	require.Len(t, result.SavedItems, 1)
	assert.Empty(t, result.Conflicts)

	saved := items.get(item1)
	require.NotNil(t, saved)
	assert.Equal(t, userA, saved.UserUUID)
	assert.Equal(t, userA, saved.LastEditedByUUID)
	assert.Equal(t, sessionA, saved.UpdatedWithSession)
	assert.Equal(t, int64(42), saved.CreatedAtTimestamp)
	assert.Equal(t, int64(len("004:abcdef")), saved.ContentSize)
	assert.Greater(t, saved.UpdatedAtTimestamp, int64(1_000))

	token, err := synctoken.Decode(result.SyncToken)
	require.NoError(t, err)
	assert.Equal(t, saved.UpdatedAtTimestamp+1, token.Micro)
}

func TestItemSaveService_ResubmissionIsIdempotent(t *testing.T) {
	items := newMemItemRepository()
	svc := newTestSaveService(items, &mockMemberRepo{}, 1_000)
	actor := SyncActor{UserUUID: userA, SessionUUID: sessionA}
	hash := &domain.ItemHash{UUID: item1, ContentType: domain.ContentTypeNote, Content: ptr("004:same")}

	first, err := svc.SaveItems(context.Background(), actor, "", []*domain.ItemHash{hash})
	require.NoError(t, err)
	second, err := svc.SaveItems(context.Background(), actor, "", []*domain.ItemHash{hash})
	require.NoError(t, err)

	assert.Equal(t, 1, items.upserts)
	assert.Len(t, items.items, 1)
	require.Len(t, second.SavedItems, 1)
	assert.Empty(t, second.Conflicts)
	assert.Equal(t, first.SavedItems[0].UpdatedAtTimestamp, second.SavedItems[0].UpdatedAtTimestamp)
}

func TestItemSaveService_DeletionClearsPayload(t *testing.T) {
	existing := &domain.Item{
		UUID: item1, UserUUID: userA, ContentType: domain.ContentTypeNote,
		Content: "004:secret", EncItemKey: "004:key", AuthHash: "auth", ItemsKeyID: "ik-1",
		ContentSize: 10, UpdatedAtTimestamp: 5_000,
	}
	items := newMemItemRepository(existing)
	svc := newTestSaveService(items, &mockMemberRepo{}, 10_000)

	hash := &domain.ItemHash{UUID: item1, ContentType: domain.ContentTypeNote, Deleted: ptr(true), UpdatedAtTimestamp: ptr(int64(5_000))}
	result, err := svc.SaveItems(context.Background(), SyncActor{UserUUID: userA}, "", []*domain.ItemHash{hash})
	require.NoError(t, err)
	require.Len(t, result.SavedItems, 1)

	saved := items.get(item1)
	assert.True(t, saved.Deleted)
	assert.Empty(t, saved.Content)
	assert.Empty(t, saved.EncItemKey)
	assert.Empty(t, saved.AuthHash)
	assert.Empty(t, saved.ItemsKeyID)
	assert.Zero(t, saved.ContentSize)
}

func TestItemSaveService_UpsertFailureBecomesConflict(t *testing.T) {
	items := newMemItemRepository()
	items.upsertErr[item1] = errors.New("duplicate key")
	svc := newTestSaveService(items, &mockMemberRepo{}, 1_000)

	hashes := []*domain.ItemHash{
		{UUID: item1, ContentType: domain.ContentTypeNote, Content: ptr("004:a")},
		{UUID: item2, ContentType: domain.ContentTypeNote, Content: ptr("004:b")},
	}
	result, err := svc.SaveItems(context.Background(), SyncActor{UserUUID: userA}, "", hashes)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, domain.ConflictUUID, result.Conflicts[0].Type)
	assert.Nil(t, result.Conflicts[0].ServerItem)
	assert.Same(t, hashes[0], result.Conflicts[0].UnsavedItem)

	require.Len(t, result.SavedItems, 1)
	assert.Equal(t, item2, result.SavedItems[0].UUID)
}

func TestItemSaveService_ConflictsKeepSubmissionOrder(t *testing.T) {
	items := newMemItemRepository(&domain.Item{UUID: item2, UserUUID: userB, ContentType: domain.ContentTypeNote})
	svc := newTestSaveService(items, &mockMemberRepo{}, 1_000)

	hashes := []*domain.ItemHash{
		{UUID: "not-a-uuid", ContentType: domain.ContentTypeNote},
		{UUID: item2, ContentType: domain.ContentTypeNote, Content: ptr("004:x")},
		{UUID: item1, ContentType: domain.ContentTypeNote, Content: ptr("004:y")},
	}
	result, err := svc.SaveItems(context.Background(), SyncActor{UserUUID: userA}, "", hashes)
	require.NoError(t, err)

	require.Len(t, result.Conflicts, 2)
	assert.Equal(t, domain.ConflictUUIDError, result.Conflicts[0].Type)
	assert.Equal(t, domain.ConflictUUID, result.Conflicts[1].Type)
	require.Len(t, result.SavedItems, 1)
	assert.Equal(t, item1, result.SavedItems[0].UUID)
	assert.Equal(t, userB, items.get(item2).UserUUID)
}

func TestItemSaveService_CancelledContext(t *testing.T) {
	items := newMemItemRepository()
	svc := newTestSaveService(items, &mockMemberRepo{}, 1_000)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SaveItems(ctx, SyncActor{UserUUID: userA}, "", []*domain.ItemHash{
		{UUID: item1, ContentType: domain.ContentTypeNote},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, items.upserts)
}

func TestItemSaveService_ReadOnlySessionSavesNothing(t *testing.T) {
	items := newMemItemRepository()
	svc := newTestSaveService(items, &mockMemberRepo{}, 1_000)

	result, err := svc.SaveItems(context.Background(), SyncActor{UserUUID: userA, ReadOnly: true}, "", []*domain.ItemHash{
		{UUID: item1, ContentType: domain.ContentTypeNote, Content: ptr("004:a")},
	})
	require.NoError(t, err)
	assert.Empty(t, result.SavedItems)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, domain.ConflictReadOnly, result.Conflicts[0].Type)
	assert.Zero(t, items.upserts)
}
