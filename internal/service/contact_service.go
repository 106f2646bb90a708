package service

import (
	"context"
	"errors"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/convert"
	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactService 定义联系人业务接口
type ContactService interface {
	// Save 按（用户, 联系人用户）创建或更新联系人
	Save(ctx context.Context, uid string, params *dto.ContactSaveRequest) (*dto.ContactDTO, error)

	// List 获取用户的全部联系人
	List(ctx context.Context, uid string) ([]*dto.ContactDTO, error)

	// Delete 删除联系人
	Delete(ctx context.Context, uid string, contactUUID string) error
}

type contactService struct {
	repo  domain.ContactRepository
	timer timex.Timer
}

// NewContactService 创建 ContactService 实例
func NewContactService(repo domain.ContactRepository, timer timex.Timer) ContactService {
	return &contactService{repo: repo, timer: timer}
}

func (s *contactService) Save(ctx context.Context, uid string, params *dto.ContactSaveRequest) (*dto.ContactDTO, error) {
	now := s.timer.NowMicro()

	contact, err := s.repo.FindByUserAndContact(ctx, uid, params.ContactUUID)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		contact = &domain.Contact{
			UUID:               uuid.NewString(),
			UserUUID:           uid,
			ContactUUID:        params.ContactUUID,
			CreatedAtTimestamp: now,
		}
	default:
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	contact.ContactPublicKey = params.ContactPublicKey
	contact.ContactSigningPublicKey = params.ContactSigningPublicKey
	contact.UpdatedAtTimestamp = now

	if err := s.repo.Save(ctx, contact); err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	out := &dto.ContactDTO{}
	if err := convert.CopyStruct(out, contact); err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return out, nil
}

func (s *contactService) List(ctx context.Context, uid string) ([]*dto.ContactDTO, error) {
	contacts, err := s.repo.FindByUser(ctx, uid, nil)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	list, err := convert.CopySlice[dto.ContactDTO](contacts)
	if err != nil {
		return nil, code.ErrorServerInternal.WithDetails(err.Error())
	}
	return list, nil
}

func (s *contactService) Delete(ctx context.Context, uid string, contactUUID string) error {
	contact, err := s.repo.FindByUUID(ctx, contactUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorContactNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	if contact.UserUUID != uid {
		return code.ErrorContactNotFound
	}
	if err := s.repo.Remove(ctx, contactUUID); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

var _ ContactService = (*contactService)(nil)
