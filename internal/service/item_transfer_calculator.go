package service

import "github.com/haierkeys/fast-vault-sync-service/internal/domain"

// TransferSelection 一页中被选中的条目
type TransferSelection struct {
	UUIDs []string
	// LastUpdatedAt 最后一个被选中条目的更新时间（微秒）
	LastUpdatedAt int64
	// BudgetBreached is true when candidates were left out because the byte
	// budget ran out
	// BudgetBreached 字节预算在候选条目取完之前耗尽
	BudgetBreached bool
}

// ComputeItemUUIDsToFetch selects the longest prefix of descriptors whose
// cumulative size fits the budget. The first descriptor is always selected so
// that an oversized item can still be delivered on its own page.
// ComputeItemUUIDsToFetch 选取累计大小不超过预算的最长前缀，首个条目总会被选中
func ComputeItemUUIDsToFetch(descriptors []domain.ContentSizeDescriptor, budget int64) TransferSelection {
	sel := TransferSelection{UUIDs: make([]string, 0, len(descriptors))}
	var total int64
	for _, d := range descriptors {
		if len(sel.UUIDs) > 0 && total+d.ContentSize > budget {
			sel.BudgetBreached = true
			break
		}
		total += d.ContentSize
		sel.UUIDs = append(sel.UUIDs, d.UUID)
		sel.LastUpdatedAt = d.UpdatedAtTimestamp
	}
	return sel
}
