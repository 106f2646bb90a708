package domain

// SaveOperationKind names a shared vault write.
// SaveOperationKind 共享库写操作类型
type SaveOperationKind string

const (
	SaveOperationCreateToSharedVault    SaveOperationKind = "create-to-shared-vault"
	SaveOperationAddToSharedVault       SaveOperationKind = "add-to-shared-vault"
	SaveOperationRemoveFromSharedVault  SaveOperationKind = "remove-from-shared-vault"
	SaveOperationMoveToOtherSharedVault SaveOperationKind = "move-to-other-shared-vault"
	SaveOperationSaveToSharedVault      SaveOperationKind = "save-to-shared-vault"
)

// SaveOperation is derived per incoming item by comparing the hash with the
// existing server item. It is never persisted.
// SaveOperation describes how a write moves an item between vaults. It is never stored.
// SaveOperation 由提交条目与服务端条目比较得出，不持久化
type SaveOperation struct {
	Kind     SaveOperationKind
	Incoming *ItemHash
	Existing *Item
	UserUUID string
	// SharedVaultUUID is the vault the item is currently in, or the vault it
	// is being created in / added to
	// SharedVaultUUID 当前所在（或新加入）的共享库
	SharedVaultUUID string
	// TargetSharedVaultUUID is only set for move-to-other-shared-vault
	// TargetSharedVaultUUID 仅在移动到其他共享库时设置
	TargetSharedVaultUUID string
}

// DeriveSaveOperation returns the shared-vault operation an incoming hash
// performs. The boolean is false for a plain save that touches no vault.
// DeriveSaveOperation returns false when neither side involves a shared vault.
// DeriveSaveOperation 推导共享库写操作；不涉及共享库时返回 false
func DeriveSaveOperation(incoming *ItemHash, existing *Item, userUUID string) (SaveOperation, bool) {
	op := SaveOperation{Incoming: incoming, Existing: existing, UserUUID: userUUID}

	if existing.IsInSharedVault() {
		op.SharedVaultUUID = existing.SharedVaultUUID
		switch {
		case incoming.HasSharedVault() && incoming.SharedVault() != existing.SharedVaultUUID:
			op.Kind = SaveOperationMoveToOtherSharedVault
			op.TargetSharedVaultUUID = incoming.SharedVault()
		case !incoming.HasSharedVault():
			op.Kind = SaveOperationRemoveFromSharedVault
		default:
			op.Kind = SaveOperationSaveToSharedVault
		}
		return op, true
	}

	if incoming.HasSharedVault() {
		op.SharedVaultUUID = incoming.SharedVault()
		if existing != nil {
			op.Kind = SaveOperationAddToSharedVault
		} else {
			op.Kind = SaveOperationCreateToSharedVault
		}
		return op, true
	}

	return op, false
}
