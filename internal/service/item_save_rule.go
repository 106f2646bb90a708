package service

import (
	"context"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"
	"github.com/haierkeys/fast-vault-sync-service/pkg/validator"
)

const (
	// APIVersion20161215 旧版客户端协议
	APIVersion20161215 = "20161215"
	// APIVersion20200115 当前客户端协议
	APIVersion20200115 = "20200115"
)

// ItemSaveValidation is the input every save rule sees for one incoming item
// ItemSaveValidation 单个提交条目的校验上下文
type ItemSaveValidation struct {
	UserUUID    string
	SessionUUID string
	ReadOnly    bool
	APIVersion  string
	Incoming    *domain.ItemHash
	// Existing 服务端已有条目，新条目为 nil
	Existing *domain.Item
}

// ItemSaveRule checks one incoming item. A nil conflict means the rule passed.
// The error is reserved for collaborator failures, which abort the request.
// ItemSaveRule 保存规则：返回 nil 冲突表示通过，error 仅用于依赖故障
type ItemSaveRule interface {
	Check(ctx context.Context, v *ItemSaveValidation) (*domain.Conflict, error)
}

// ItemSaveRuleFunc 函数形式的规则
type ItemSaveRuleFunc func(ctx context.Context, v *ItemSaveValidation) (*domain.Conflict, error)

func (f ItemSaveRuleFunc) Check(ctx context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	return f(ctx, v)
}

// ItemSaveValidator runs rules in order and stops at the first failure
// ItemSaveValidator 按顺序执行规则，遇到第一个冲突即停止
type ItemSaveValidator struct {
	rules []ItemSaveRule
}

// NewItemSaveValidator 创建规则链
func NewItemSaveValidator(rules ...ItemSaveRule) *ItemSaveValidator {
	return &ItemSaveValidator{rules: rules}
}

// NewDefaultItemSaveValidator builds the full chain used by item saving
// NewDefaultItemSaveValidator 构建完整的保存规则链
func NewDefaultItemSaveValidator(members domain.SharedVaultUserRepository) *ItemSaveValidator {
	return NewItemSaveValidator(
		NewSharedVaultFilter(members),
		ItemSaveRuleFunc(readOnlyFilter),
		ItemSaveRuleFunc(uuidFilter),
		ItemSaveRuleFunc(contentTypeFilter),
		ItemSaveRuleFunc(ownershipFilter),
		ItemSaveRuleFunc(timeDifferenceFilter),
	)
}

// Validate 依次执行规则
func (s *ItemSaveValidator) Validate(ctx context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	for _, rule := range s.rules {
		conflict, err := rule.Check(ctx, v)
		if err != nil {
			return nil, err
		}
		if conflict != nil {
			return conflict, nil
		}
	}
	return nil, nil
}

func readOnlyFilter(_ context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	if v.ReadOnly {
		return domain.NewConflict(domain.ConflictReadOnly, v.Incoming, v.Existing), nil
	}
	return nil, nil
}

func uuidFilter(_ context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	if !validator.IsCanonicalUUID(v.Incoming.UUID) {
		return domain.NewConflict(domain.ConflictUUIDError, v.Incoming, v.Existing), nil
	}
	return nil, nil
}

func contentTypeFilter(_ context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	if !v.Incoming.ContentType.IsKnown() {
		return domain.NewConflict(domain.ConflictContentType, v.Incoming, v.Existing), nil
	}
	return nil, nil
}

// 他人拥有的非共享条目不可覆盖；共享库条目的跨用户写入由 SharedVaultFilter 判定
func ownershipFilter(_ context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	if v.Existing == nil || v.Existing.IsOwnedBy(v.UserUUID) || v.Existing.IsInSharedVault() {
		return nil, nil
	}
	return domain.NewConflict(domain.ConflictUUID, v.Incoming, v.Existing), nil
}

// minimumConflictInterval 返回判定为并发编辑的最小时间差（微秒）
func minimumConflictInterval(apiVersion string) int64 {
	if apiVersion == APIVersion20161215 {
		return 1_000_000
	}
	return 1_000
}

// incomingUpdatedAt 客户端认为的服务端更新时间（微秒），未提供时为 0
func incomingUpdatedAt(h *domain.ItemHash) int64 {
	if h.UpdatedAtTimestamp != nil {
		return *h.UpdatedAtTimestamp
	}
	if h.UpdatedAt != nil {
		if us, err := timex.ParseDateToMicro(*h.UpdatedAt); err == nil {
			return us
		}
	}
	return 0
}

func timeDifferenceFilter(_ context.Context, v *ItemSaveValidation) (*domain.Conflict, error) {
	if v.Existing == nil || v.Incoming.EquivalentTo(v.Existing) {
		return nil, nil
	}

	diff := incomingUpdatedAt(v.Incoming) - v.Existing.UpdatedAtTimestamp
	if diff < 0 {
		diff = -diff
	}
	if diff < minimumConflictInterval(v.APIVersion) {
		return nil, nil
	}
	return domain.NewConflict(domain.ConflictSync, v.Incoming, v.Existing), nil
}
