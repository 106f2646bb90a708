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

// SharedVaultInviteService 定义共享库邀请业务接口
type SharedVaultInviteService interface {
	// Create invites a user; re-inviting updates the pending invite. Admin members only.
	// Create 邀请用户加入共享库，已有待处理邀请时更新该邀请，仅 admin 成员可操作
	Create(ctx context.Context, uid string, sharedVaultUUID string, params *dto.SharedVaultInviteCreateRequest) (*dto.SharedVaultInviteDTO, error)

	// Inbound 用户收到的邀请
	Inbound(ctx context.Context, uid string) ([]*dto.SharedVaultInviteDTO, error)

	// Outbound 用户发出的邀请
	Outbound(ctx context.Context, uid string) ([]*dto.SharedVaultInviteDTO, error)

	// Accept 接受邀请：按邀请的权限创建成员关系并删除邀请
	Accept(ctx context.Context, uid string, inviteUUID string) (*dto.SharedVaultUserDTO, error)

	// Decline 拒绝邀请（仅被邀请人）
	Decline(ctx context.Context, uid string, inviteUUID string) error

	// Delete 撤回或删除邀请（发送人或被邀请人）
	Delete(ctx context.Context, uid string, sharedVaultUUID string, inviteUUID string) error
}

type sharedVaultInviteService struct {
	vaults  domain.SharedVaultRepository
	members domain.SharedVaultUserRepository
	invites domain.SharedVaultInviteRepository
	timer   timex.Timer
	logger  *zap.Logger
}

// NewSharedVaultInviteService 创建 SharedVaultInviteService 实例
func NewSharedVaultInviteService(
	vaults domain.SharedVaultRepository,
	members domain.SharedVaultUserRepository,
	invites domain.SharedVaultInviteRepository,
	timer timex.Timer,
	logger *zap.Logger,
) SharedVaultInviteService {
	return &sharedVaultInviteService{
		vaults:  vaults,
		members: members,
		invites: invites,
		timer:   timer,
		logger:  logger,
	}
}

func (s *sharedVaultInviteService) toDTO(invite *domain.SharedVaultInvite) (*dto.SharedVaultInviteDTO, error) {
	out := &dto.SharedVaultInviteDTO{}
	if err := convert.CopyStruct(out, invite); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return out, nil
}

// membership 查询成员关系，不存在时返回 nil
func (s *sharedVaultInviteService) membership(ctx context.Context, userUUID, sharedVaultUUID string) (*domain.SharedVaultUser, error) {
	m, err := s.members.FindByUserAndVault(ctx, userUUID, sharedVaultUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return m, nil
}

// findInvite 获取邀请，不存在时返回 ErrorSharedVaultInviteNotFound
func (s *sharedVaultInviteService) findInvite(ctx context.Context, inviteUUID string) (*domain.SharedVaultInvite, error) {
	invite, err := s.invites.FindByUUID(ctx, inviteUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorSharedVaultInviteNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return invite, nil
}

func (s *sharedVaultInviteService) Create(ctx context.Context, uid string, sharedVaultUUID string, params *dto.SharedVaultInviteCreateRequest) (*dto.SharedVaultInviteDTO, error) {
	if _, err := s.vaults.FindByUUID(ctx, sharedVaultUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorSharedVaultNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	sender, err := s.membership(ctx, uid, sharedVaultUUID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, code.ErrorSharedVaultNotMember
	}
	if sender.Permission != domain.PermissionAdmin {
		return nil, code.ErrorSharedVaultPermission
	}

	permission := domain.Permission(params.Permission)
	if !permission.IsValid() || params.RecipientUUID == uid {
		return nil, code.ErrorSharedVaultInvalidInvite
	}

	recipient, err := s.membership(ctx, params.RecipientUUID, sharedVaultUUID)
	if err != nil {
		return nil, err
	}
	if recipient != nil {
		return nil, code.ErrorSharedVaultUserExists
	}

	now := s.timer.NowMicro()
	invite, err := s.invites.FindByRecipientAndVault(ctx, params.RecipientUUID, sharedVaultUUID)
	switch {
	case err == nil:
		invite.EncryptedMessage = params.EncryptedMessage
		invite.Permission = permission
		invite.UpdatedAtTimestamp = now
	case errors.Is(err, gorm.ErrRecordNotFound):
		invite = &domain.SharedVaultInvite{
			UUID:               uuid.NewString(),
			SharedVaultUUID:    sharedVaultUUID,
			UserUUID:           params.RecipientUUID,
			SenderUUID:         uid,
			EncryptedMessage:   params.EncryptedMessage,
			Permission:         permission,
			CreatedAtTimestamp: now,
			UpdatedAtTimestamp: now,
		}
	default:
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	if err := s.invites.Save(ctx, invite); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return s.toDTO(invite)
}

func (s *sharedVaultInviteService) Inbound(ctx context.Context, uid string) ([]*dto.SharedVaultInviteDTO, error) {
	invites, err := s.invites.FindInbound(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list, err := convert.CopySlice[dto.SharedVaultInviteDTO](invites)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return list, nil
}

func (s *sharedVaultInviteService) Outbound(ctx context.Context, uid string) ([]*dto.SharedVaultInviteDTO, error) {
	invites, err := s.invites.FindOutbound(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list, err := convert.CopySlice[dto.SharedVaultInviteDTO](invites)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return list, nil
}

func (s *sharedVaultInviteService) Accept(ctx context.Context, uid string, inviteUUID string) (*dto.SharedVaultUserDTO, error) {
	invite, err := s.findInvite(ctx, inviteUUID)
	if err != nil {
		return nil, err
	}
	if invite.UserUUID != uid {
		return nil, code.ErrorSharedVaultInviteNotFound
	}

	if _, err := s.vaults.FindByUUID(ctx, invite.SharedVaultUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = s.invites.Remove(ctx, invite.UUID)
			return nil, code.ErrorSharedVaultNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	member, err := s.membership(ctx, uid, invite.SharedVaultUUID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		now := s.timer.NowMicro()
		member = &domain.SharedVaultUser{
			UUID:               uuid.NewString(),
			SharedVaultUUID:    invite.SharedVaultUUID,
			UserUUID:           uid,
			Permission:         invite.Permission,
			CreatedAtTimestamp: now,
			UpdatedAtTimestamp: now,
		}
		if err := s.members.Create(ctx, member); err != nil {
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
	}

	if err := s.invites.Remove(ctx, invite.UUID); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	s.logger.Info("shared vault invite accepted",
		zap.String(logger.FieldUID, uid),
		zap.String(logger.FieldSharedVaultUUID, invite.SharedVaultUUID))

	out := &dto.SharedVaultUserDTO{}
	if err := convert.CopyStruct(out, member); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return out, nil
}

func (s *sharedVaultInviteService) Decline(ctx context.Context, uid string, inviteUUID string) error {
	invite, err := s.findInvite(ctx, inviteUUID)
	if err != nil {
		return err
	}
	if invite.UserUUID != uid {
		return code.ErrorSharedVaultInviteNotFound
	}
	if err := s.invites.Remove(ctx, invite.UUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

func (s *sharedVaultInviteService) Delete(ctx context.Context, uid string, sharedVaultUUID string, inviteUUID string) error {
	invite, err := s.findInvite(ctx, inviteUUID)
	if err != nil {
		return err
	}
	if invite.SharedVaultUUID != sharedVaultUUID {
		return code.ErrorSharedVaultInviteNotFound
	}
	if invite.SenderUUID != uid && invite.UserUUID != uid {
		return code.ErrorSharedVaultPermission
	}
	if err := s.invites.Remove(ctx, invite.UUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

var _ SharedVaultInviteService = (*sharedVaultInviteService)(nil)
