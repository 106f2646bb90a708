package service

import (
	"testing"

	"github.com/haierkeys/fast-vault-sync-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func descriptors(sizes ...int64) []domain.ContentSizeDescriptor {
	out := make([]domain.ContentSizeDescriptor, 0, len(sizes))
	for i, size := range sizes {
		out = append(out, domain.ContentSizeDescriptor{
			UUID:               string(rune('a' + i)),
			ContentSize:        size,
			UpdatedAtTimestamp: int64(100 * (i + 1)),
		})
	}
	return out
}

func TestComputeItemUUIDsToFetch(t *testing.T) {
	tests := []struct {
		name     string
		sizes    []int64
		budget   int64
		want     []string
		last     int64
		breached bool
	}{
		{name: "stops before exceeding the budget", sizes: []int64{10, 10, 10}, budget: 15, want: []string{"a"}, last: 100, breached: true},
		{name: "oversized first item is still delivered", sizes: []int64{50, 1}, budget: 10, want: []string{"a"}, last: 100, breached: true},
		{name: "everything fits", sizes: []int64{1, 2, 3}, budget: 6, want: []string{"a", "b", "c"}, last: 300},
		{name: "empty page", budget: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := ComputeItemUUIDsToFetch(descriptors(tt.sizes...), tt.budget)
			assert.Equal(t, tt.want, sel.UUIDs)
			assert.Equal(t, tt.last, sel.LastUpdatedAt)
			assert.Equal(t, tt.breached, sel.BudgetBreached)
		})
	}
}
