package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matconsys/matcon-api/internal/domain/enum"
)

func TestDifferenceLabel(t *testing.T) {
	diff := func(v int64) *CashSession {
		return &CashSession{Difference: &v}
	}

	assert.Equal(t, "surplus", diff(200).DifferenceLabel())
	assert.Equal(t, "shortage", diff(-150).DifferenceLabel())
	assert.Equal(t, "balanced", diff(0).DifferenceLabel())
	assert.Equal(t, "", (&CashSession{}).DifferenceLabel())
}

func TestLedgerEntrySignedAmount(t *testing.T) {
	cases := []struct {
		kind enum.EntryKind
		want int64
	}{
		{enum.EntryKindOpening, 1000},
		{enum.EntryKindSale, 1000},
		{enum.EntryKindSupplement, 1000},
		{enum.EntryKindWithdrawal, -1000},
		{enum.EntryKindClosing, 0},
	}
	for _, tc := range cases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			e := &LedgerEntry{Kind: tc.kind, Amount: 1000}
			assert.Equal(t, tc.want, e.SignedAmount())
		})
	}
}
