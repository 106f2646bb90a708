package service

import (
	"context"
	"testing"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inviteRequest(recipient string, p domain.Permission) *dto.SharedVaultInviteCreateRequest {
	return &dto.SharedVaultInviteCreateRequest{RecipientUUID: recipient, EncryptedMessage: "sealed", Permission: string(p)}
}

func TestSharedVaultInviteService_CreateRules(t *testing.T) {
	ctx := context.Background()
	r := newSQLiteRepos(t)
	_, err := r.vaultService().Create(ctx, userA, &dto.SharedVaultCreateRequest{UUID: vault1})
	require.NoError(t, err)
	svc := r.inviteService()

	_, err = svc.Create(ctx, userA, vault2, inviteRequest(userB, domain.PermissionRead))
	assert.ErrorIs(t, err, code.ErrorSharedVaultNotFound)

	_, err = svc.Create(ctx, userC, vault1, inviteRequest(userB, domain.PermissionRead))
	assert.ErrorIs(t, err, code.ErrorSharedVaultNotMember)

	_, err = svc.Create(ctx, userA, vault1, inviteRequest(userA, domain.PermissionRead))
	assert.ErrorIs(t, err, code.ErrorSharedVaultInvalidInvite)

	_, err = svc.Create(ctx, userA, vault1, inviteRequest(userB, "owner"))
	assert.ErrorIs(t, err, code.ErrorSharedVaultInvalidInvite)

	joinVault(t, r, vault1, userA, userB, domain.PermissionWrite)

	_, err = svc.Create(ctx, userB, vault1, inviteRequest(userC, domain.PermissionRead))
	assert.ErrorIs(t, err, code.ErrorSharedVaultPermission)

	_, err = svc.Create(ctx, userA, vault1, inviteRequest(userB, domain.PermissionAdmin))
	assert.ErrorIs(t, err, code.ErrorSharedVaultUserExists)
}

func TestSharedVaultInviteService_ReinviteUpdatesPendingInvite(t *testing.T) {
	ctx := context.Background()
	r := newSQLiteRepos(t)
	_, err := r.vaultService().Create(ctx, userA, &dto.SharedVaultCreateRequest{UUID: vault1})
	require.NoError(t, err)
	svc := r.inviteService()

	first, err := svc.Create(ctx, userA, vault1, inviteRequest(userB, domain.PermissionRead))
	require.NoError(t, err)
	second, err := svc.Create(ctx, userA, vault1, inviteRequest(userB, domain.PermissionWrite))
	require.NoError(t, err)
	assert.Equal(t, first.UUID, second.UUID)

	inbound, err := svc.Inbound(ctx, userB)
	require.NoError(t, err)
	require.Len(t, inbound, 1)
	assert.Equal(t, string(domain.PermissionWrite), inbound[0].Permission)

	outbound, err := svc.Outbound(ctx, userA)
	require.NoError(t, err)
	assert.Len(t, outbound, 1)
}

func TestSharedVaultInviteService_AcceptGrantsInvitedRole(t *testing.T) {
	ctx := context.Background()
	r := newSQLiteRepos(t)
	_, err := r.vaultService().Create(ctx, userA, &dto.SharedVaultCreateRequest{UUID: vault1})
	require.NoError(t, err)
	svc := r.inviteService()

	invite, err := svc.Create(ctx, userA, vault1, inviteRequest(userB, domain.PermissionWrite))
	require.NoError(t, err)

	_, err = svc.Accept(ctx, userC, invite.UUID)
	assert.ErrorIs(t, err, code.ErrorSharedVaultInviteNotFound)

	member, err := svc.Accept(ctx, userB, invite.UUID)
	require.NoError(t, err)
	assert.Equal(t, vault1, member.SharedVaultUUID)
	assert.Equal(t, string(domain.PermissionWrite), member.Permission)

	stored, err := r.members.FindByUserAndVault(ctx, userB, vault1)
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionWrite, stored.Permission)

	_, err = svc.Accept(ctx, userB, invite.UUID)
	assert.ErrorIs(t, err, code.ErrorSharedVaultInviteNotFound)
}

func TestSharedVaultInviteService_DeclineAndDelete(t *testing.T) {
	ctx := context.Background()
	r := newSQLiteRepos(t)
	_, err := r.vaultService().Create(ctx, userA, &dto.SharedVaultCreateRequest{UUID: vault1})
	require.NoError(t, err)
	svc := r.inviteService()

	toB, err := svc.Create(ctx, userA, vault1, inviteRequest(userB, domain.PermissionRead))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Decline(ctx, userA, toB.UUID), code.ErrorSharedVaultInviteNotFound)
	require.NoError(t, svc.Decline(ctx, userB, toB.UUID))

	toC, err := svc.Create(ctx, userA, vault1, inviteRequest(userC, domain.PermissionRead))
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(ctx, userB, vault1, toC.UUID), code.ErrorSharedVaultPermission)
	assert.ErrorIs(t, svc.Delete(ctx, userA, vault2, toC.UUID), code.ErrorSharedVaultInviteNotFound)
	require.NoError(t, svc.Delete(ctx, userA, vault1, toC.UUID))

	outbound, err := svc.Outbound(ctx, userA)
	require.NoError(t, err)
	assert.Empty(t, outbound)
}
