// Package domain holds the sync models and the repository interfaces.
// Package domain 定义领域模型和接口
package domain

import "context"

// ItemRepository stores items. Missing rows yield gorm.ErrRecordNotFound.
// ItemRepository 条目仓储接口
// 查不到记录时返回 gorm.ErrRecordNotFound
type ItemRepository interface {
	// FindByUUID 根据 UUID 获取条目
	FindByUUID(ctx context.Context, uuid string) (*Item, error)

	// FindContentSizeDescriptors 按查询条件获取条目大小描述（不含内容）
	FindContentSizeDescriptors(ctx context.Context, query ItemQuery) ([]ContentSizeDescriptor, error)

	// FindAll 按查询条件获取完整条目
	FindAll(ctx context.Context, query ItemQuery) ([]*Item, error)

	// CountAll 按查询条件统计条目数量（忽略 Limit）
	CountAll(ctx context.Context, query ItemQuery) (int64, error)

	// Upsert 按 UUID 插入或更新条目
	Upsert(ctx context.Context, item *Item) error
}

// SharedVaultRepository stores shared vaults.
// SharedVaultRepository 共享库仓储接口
type SharedVaultRepository interface {
	// Create 创建共享库
	Create(ctx context.Context, vault *SharedVault) error

	// FindByUUID 根据 UUID 获取共享库
	FindByUUID(ctx context.Context, uuid string) (*SharedVault, error)

	// FindByUUIDs 批量获取共享库
	FindByUUIDs(ctx context.Context, uuids []string) ([]*SharedVault, error)

	// Remove 删除共享库
	Remove(ctx context.Context, uuid string) error
}

// SharedVaultUserRepository stores vault memberships.
// SharedVaultUserRepository 共享库成员仓储接口
type SharedVaultUserRepository interface {
	// FindByUserAndVault 获取成员关系（成员资格查询）
	FindByUserAndVault(ctx context.Context, userUUID, sharedVaultUUID string) (*SharedVaultUser, error)

	// FindByUser 获取用户的所有成员关系，updatedAfter 不为 nil 时只返回之后更新的记录
	FindByUser(ctx context.Context, userUUID string, updatedAfter *int64) ([]*SharedVaultUser, error)

	// FindByVault 获取共享库的所有成员
	FindByVault(ctx context.Context, sharedVaultUUID string) ([]*SharedVaultUser, error)

	// Create 创建成员关系
	Create(ctx context.Context, user *SharedVaultUser) error

	// Remove 删除成员关系
	Remove(ctx context.Context, uuid string) error
}

// RemovedSharedVaultUserRepository stores membership removals.
// RemovedSharedVaultUserRepository 成员移除记录仓储接口
type RemovedSharedVaultUserRepository interface {
	// Create 记录一次移除
	Create(ctx context.Context, removed *RemovedSharedVaultUser) error

	// FindByUser 获取用户被移除的记录
	FindByUser(ctx context.Context, userUUID string) ([]*RemovedSharedVaultUser, error)
}

// SharedVaultInviteRepository stores vault invitations.
// SharedVaultInviteRepository 共享库邀请仓储接口
type SharedVaultInviteRepository interface {
	// FindByUUID 根据 UUID 获取邀请
	FindByUUID(ctx context.Context, uuid string) (*SharedVaultInvite, error)

	// FindByRecipientAndVault 获取某用户在某共享库的待处理邀请
	FindByRecipientAndVault(ctx context.Context, userUUID, sharedVaultUUID string) (*SharedVaultInvite, error)

	// FindInbound 用户收到的邀请
	FindInbound(ctx context.Context, userUUID string) ([]*SharedVaultInvite, error)

	// FindOutbound 用户发出的邀请
	FindOutbound(ctx context.Context, senderUUID string) ([]*SharedVaultInvite, error)

	// Save 创建或更新邀请
	Save(ctx context.Context, invite *SharedVaultInvite) error

	// Remove 删除邀请
	Remove(ctx context.Context, uuid string) error

	// RemoveByVault 删除共享库的全部邀请
	RemoveByVault(ctx context.Context, sharedVaultUUID string) error
}

// ContactRepository stores trusted contacts.
// ContactRepository 联系人仓储接口
type ContactRepository interface {
	// FindByUUID 根据 UUID 获取联系人
	FindByUUID(ctx context.Context, uuid string) (*Contact, error)

	// FindByUserAndContact 根据用户与联系人用户获取记录
	FindByUserAndContact(ctx context.Context, userUUID, contactUUID string) (*Contact, error)

	// FindByUser 获取用户的联系人，updatedAfter 不为 nil 时只返回之后更新的记录
	FindByUser(ctx context.Context, userUUID string, updatedAfter *int64) ([]*Contact, error)

	// Save 创建或更新联系人
	Save(ctx context.Context, contact *Contact) error

	// Remove 删除联系人
	Remove(ctx context.Context, uuid string) error
}
