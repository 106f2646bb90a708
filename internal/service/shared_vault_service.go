package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/convert"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"
	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SharedVaultService 定义共享库管理业务接口
type SharedVaultService interface {
	// Create 创建共享库，创建者成为 admin 成员
	Create(ctx context.Context, uid string, params *dto.SharedVaultCreateRequest) (*dto.SharedVaultCreateDTO, error)

	// List 获取用户所属的共享库
	List(ctx context.Context, uid string) ([]*dto.SharedVaultDTO, error)

	// Delete removes the vault with its memberships and invites. Owner only.
	// Delete 删除共享库及其成员关系与邀请，仅所有者可操作
	Delete(ctx context.Context, uid string, sharedVaultUUID string) error

	// Users 获取共享库成员，仅成员可查看
	Users(ctx context.Context, uid string, sharedVaultUUID string) ([]*dto.SharedVaultUserDTO, error)

	// RemoveUser removes a member. The owner may remove anyone but itself; a
	// member may remove itself.
	// RemoveUser 移除成员：所有者可移除他人，成员可移除自己，所有者不可被移除
	RemoveUser(ctx context.Context, uid string, sharedVaultUUID string, userUUID string) error

	// Removed 获取用户被移出共享库的记录
	Removed(ctx context.Context, uid string) ([]*dto.RemovedSharedVaultUserDTO, error)
}

type sharedVaultService struct {
	vaults  domain.SharedVaultRepository
	members domain.SharedVaultUserRepository
	removed domain.RemovedSharedVaultUserRepository
	invites domain.SharedVaultInviteRepository
	timer   timex.Timer
	logger  *zap.Logger
}

// NewSharedVaultService 创建 SharedVaultService 实例
func NewSharedVaultService(
	vaults domain.SharedVaultRepository,
	members domain.SharedVaultUserRepository,
	removed domain.RemovedSharedVaultUserRepository,
	invites domain.SharedVaultInviteRepository,
	timer timex.Timer,
	logger *zap.Logger,
) SharedVaultService {
	return &sharedVaultService{
		vaults:  vaults,
		members: members,
		removed: removed,
		invites: invites,
		timer:   timer,
		logger:  logger,
	}
}

// getVault 获取共享库，不存在时返回 ErrorSharedVaultNotFound
func (s *sharedVaultService) getVault(ctx context.Context, sharedVaultUUID string) (*domain.SharedVault, error) {
	vault, err := s.vaults.FindByUUID(ctx, sharedVaultUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorSharedVaultNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return vault, nil
}

func (s *sharedVaultService) Create(ctx context.Context, uid string, params *dto.SharedVaultCreateRequest) (*dto.SharedVaultCreateDTO, error) {
	vaultUUID := params.UUID
	if vaultUUID == "" {
		vaultUUID = uuid.NewString()
	} else {
		_, err := s.vaults.FindByUUID(ctx, vaultUUID)
		if err == nil {
			return nil, code.ErrorSharedVaultExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
	}

	now := s.timer.NowMicro()
	vault := &domain.SharedVault{
		UUID:               vaultUUID,
		UserUUID:           uid,
		CreatedAtTimestamp: now,
		UpdatedAtTimestamp: now,
	}
	if err := s.vaults.Create(ctx, vault); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	owner := &domain.SharedVaultUser{
		UUID:               uuid.NewString(),
		SharedVaultUUID:    vaultUUID,
		UserUUID:           uid,
		Permission:         domain.PermissionAdmin,
		CreatedAtTimestamp: now,
		UpdatedAtTimestamp: now,
	}
	if err := s.members.Create(ctx, owner); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	result := &dto.SharedVaultCreateDTO{SharedVault: &dto.SharedVaultDTO{}, SharedVaultUser: &dto.SharedVaultUserDTO{}}
	if err := convert.CopyStruct(result.SharedVault, vault); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	if err := convert.CopyStruct(result.SharedVaultUser, owner); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return result, nil
}

func (s *sharedVaultService) List(ctx context.Context, uid string) ([]*dto.SharedVaultDTO, error) {
	memberships, err := s.members.FindByUser(ctx, uid, nil)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	if len(memberships) == 0 {
		return []*dto.SharedVaultDTO{}, nil
	}

	uuids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		uuids = append(uuids, m.SharedVaultUUID)
	}
	vaults, err := s.vaults.FindByUUIDs(ctx, uuids)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list, err := convert.CopySlice[dto.SharedVaultDTO](vaults)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return list, nil
}

func (s *sharedVaultService) Delete(ctx context.Context, uid string, sharedVaultUUID string) error {
	vault, err := s.getVault(ctx, sharedVaultUUID)
	if err != nil {
		return err
	}
	if !vault.IsOwnedBy(uid) {
		return code.ErrorSharedVaultPermission
	}

	members, err := s.members.FindByVault(ctx, sharedVaultUUID)
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	for _, m := range members {
		if err := s.removeMember(ctx, m, uid); err != nil {
			return err
		}
	}

	if err := s.invites.RemoveByVault(ctx, sharedVaultUUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if err := s.vaults.Remove(ctx, sharedVaultUUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("shared vault deleted",
		zap.String(logger.FieldUID, uid),
		zap.String(logger.FieldSharedVaultUUID, sharedVaultUUID),
		zap.Int(logger.FieldCount, len(members)))
	return nil
}

// removeMember 删除成员关系并记录移除
func (s *sharedVaultService) removeMember(ctx context.Context, m *domain.SharedVaultUser, removedBy string) error {
	if err := s.members.Remove(ctx, m.UUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	now := s.timer.NowMicro()
	err := s.removed.Create(ctx, &domain.RemovedSharedVaultUser{
		UUID:               uuid.NewString(),
		SharedVaultUUID:    m.SharedVaultUUID,
		UserUUID:           m.UserUUID,
		RemovedBy:          removedBy,
		CreatedAtTimestamp: now,
		UpdatedAtTimestamp: now,
	})
	if err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

func (s *sharedVaultService) Users(ctx context.Context, uid string, sharedVaultUUID string) ([]*dto.SharedVaultUserDTO, error) {
	vault, err := s.getVault(ctx, sharedVaultUUID)
	if err != nil {
		return nil, err
	}
	if !vault.IsOwnedBy(uid) {
		if _, err := s.members.FindByUserAndVault(ctx, uid, sharedVaultUUID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorSharedVaultNotMember
			}
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
	}

	members, err := s.members.FindByVault(ctx, sharedVaultUUID)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list, err := convert.CopySlice[dto.SharedVaultUserDTO](members)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return list, nil
}

func (s *sharedVaultService) RemoveUser(ctx context.Context, uid string, sharedVaultUUID string, userUUID string) error {
	vault, err := s.getVault(ctx, sharedVaultUUID)
	if err != nil {
		return err
	}
	if vault.IsOwnedBy(userUUID) {
		return code.ErrorSharedVaultOwnerRemoval
	}
	if !vault.IsOwnedBy(uid) && uid != userUUID {
		return code.ErrorSharedVaultPermission
	}

	member, err := s.members.FindByUserAndVault(ctx, userUUID, sharedVaultUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorSharedVaultUserNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.removeMember(ctx, member, uid)
}

func (s *sharedVaultService) Removed(ctx context.Context, uid string) ([]*dto.RemovedSharedVaultUserDTO, error) {
	records, err := s.removed.FindByUser(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list, err := convert.CopySlice[dto.RemovedSharedVaultUserDTO](records)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return list, nil
}

var _ SharedVaultService = (*sharedVaultService)(nil)
