package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"gorm.io/gorm"
)

// sharedVaultHandler decides one derived save operation. perms maps a vault
// uuid to the actor's role; a missing key means the actor is not a member.
type sharedVaultHandler func(op domain.SaveOperation, perms map[string]domain.Permission) domain.ConflictType

// SharedVaultFilter authorizes writes that create, add, remove, move or save
// items in shared vaults. Plain saves pass through.
// SharedVaultFilter 共享库写入授权规则
type SharedVaultFilter struct {
	members  domain.SharedVaultUserRepository
	handlers map[domain.SaveOperationKind]sharedVaultHandler
}

// NewSharedVaultFilter 创建共享库授权规则
func NewSharedVaultFilter(members domain.SharedVaultUserRepository) *SharedVaultFilter {
	return &SharedVaultFilter{
		members: members,
		handlers: map[domain.SaveOperationKind]sharedVaultHandler{
			domain.SaveOperationAddToSharedVault:       handleAddToSharedVault,
			domain.SaveOperationRemoveFromSharedVault:  handleRemoveFromSharedVault,
			domain.SaveOperationMoveToOtherSharedVault: handleMoveToOtherSharedVault,
			domain.SaveOperationSaveToSharedVault:      handleWriteInSharedVault,
			domain.SaveOperationCreateToSharedVault:    handleWriteInSharedVault,
		},
	}
}

// Check 校验共享库写操作
func (f *SharedVaultFilter) Check(ctx context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	op, ok := domain.DeriveSaveOperation(v.Incoming, v.Existing, v.UserUUID)
	if !ok {
		return nil, nil
	}

	if v.Incoming.HasSharedVault() && !v.Incoming.HasKeySystem() {
		return domain.NewConflict(domain.ConflictSharedVaultInvalidState, op.Incoming, op.Existing), nil
	}

	handler, ok := f.handlers[op.Kind]
	if !ok {
		return nil, code.ErrorServerInternal.WithDetails("unsupported shared vault operation " + string(op.Kind))
	}

	perms := make(map[string]domain.Permission, 2)
	for _, vaultUUID := range []string{op.SharedVaultUUID, op.TargetSharedVaultUUID} {
		if vaultUUID == "" {
			continue
		}
		p, found, err := f.permission(ctx, v.UserUUID, vaultUUID)
		if err != nil {
			return nil, err
		}
		if found {
			perms[vaultUUID] = p
		}
	}

	if t := handler(op, perms); t != "" {
		return domain.NewConflict(t, op.Incoming, op.Existing), nil
	}
	return nil, nil
}

// permission looks up the actor's role under the caller's own ctx.
// permission 查询成员权限，非成员返回 found=false
func (f *SharedVaultFilter) permission(ctx context.Context, userUUID, vaultUUID string) (domain.Permission, bool, error) {
	member, err := f.members.FindByUserAndVault(ctx, userUUID, vaultUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return member.Permission, member.Permission != "", nil
}

// canWriteContentType KeySystemItemsKey 仅 admin 可写
func canWriteContentType(t domain.ContentType, p domain.Permission) bool {
	if t.RequiresAdmin() {
		return p == domain.PermissionAdmin
	}
	return true
}

func eitherDeleted(op domain.SaveOperation) bool {
	return op.Incoming.IsDeleted() || (op.Existing != nil && op.Existing.Deleted)
}

func handleAddToSharedVault(op domain.SaveOperation, perms map[string]domain.Permission) domain.ConflictType {
	p, ok := perms[op.SharedVaultUUID]
	switch {
	case !ok:
		return domain.ConflictSharedVaultNotMember
	case eitherDeleted(op):
		return domain.ConflictSharedVaultInvalidState
	case !canWriteContentType(op.Incoming.ContentType, p):
		return domain.ConflictSharedVaultPermission
	case p == domain.PermissionRead:
		return domain.ConflictSharedVaultPermission
	case !op.Existing.IsOwnedBy(op.UserUUID):
		return domain.ConflictUUID
	}
	return ""
}

func handleRemoveFromSharedVault(op domain.SaveOperation, perms map[string]domain.Permission) domain.ConflictType {
	p, ok := perms[op.SharedVaultUUID]
	switch {
	case !ok:
		return domain.ConflictSharedVaultNotMember
	case eitherDeleted(op):
		return domain.ConflictSharedVaultInvalidState
	case !op.Existing.IsOwnedBy(op.UserUUID):
		return domain.ConflictSharedVaultPermission
	case !canWriteContentType(op.Incoming.ContentType, p):
		return domain.ConflictSharedVaultPermission
	case p == domain.PermissionRead:
		return domain.ConflictSharedVaultPermission
	}
	return ""
}

func handleMoveToOtherSharedVault(op domain.SaveOperation, perms map[string]domain.Permission) domain.ConflictType {
	source, okSource := perms[op.SharedVaultUUID]
	target, okTarget := perms[op.TargetSharedVaultUUID]
	switch {
	case !okSource || !okTarget:
		return domain.ConflictSharedVaultNotMember
	case eitherDeleted(op):
		return domain.ConflictSharedVaultInvalidState
	case source == domain.PermissionRead || target == domain.PermissionRead:
		return domain.ConflictSharedVaultPermission
	case !canWriteContentType(op.Incoming.ContentType, source) || !canWriteContentType(op.Incoming.ContentType, target):
		return domain.ConflictSharedVaultPermission
	}
	return ""
}

// handleWriteInSharedVault covers save-to and create-to
func handleWriteInSharedVault(op domain.SaveOperation, perms map[string]domain.Permission) domain.ConflictType {
	p, ok := perms[op.SharedVaultUUID]
	switch {
	case !ok:
		return domain.ConflictSharedVaultNotMember
	case !canWriteContentType(op.Incoming.ContentType, p):
		return domain.ConflictSharedVaultPermission
	case p == domain.PermissionRead:
		return domain.ConflictSharedVaultPermission
	}
	return ""
}

var _ ItemSaveRule = (*SharedVaultFilter)(nil)
