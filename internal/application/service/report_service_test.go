package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
)

func TestSummarizeCashFlow(t *testing.T) {
	entry := func(kind enum.EntryKind, amount int64) entity.LedgerEntry {
		return entity.LedgerEntry{Kind: kind, Amount: amount}
	}

	t.Run("totals by kind and excludes session markers", func(t *testing.T) {
		summary := SummarizeCashFlow([]entity.LedgerEntry{
			entry(enum.EntryKindOpening, 10000),
			entry(enum.EntryKindSale, 5000),
			entry(enum.EntryKindSale, 2500),
			entry(enum.EntryKindSupplement, 1000),
			entry(enum.EntryKindWithdrawal, 3000),
			entry(enum.EntryKindClosing, 15500),
		})

		assert.Equal(t, int64(7500), summary.SalesTotal)
		assert.Equal(t, int64(3000), summary.WithdrawalsTotal)
		assert.Equal(t, int64(1000), summary.SupplementsTotal)
		assert.Equal(t, int64(5500), summary.NetMovement)
		assert.Equal(t, 4, summary.EntryCount)
	})

	t.Run("withdrawals can drive the net negative", func(t *testing.T) {
		summary := SummarizeCashFlow([]entity.LedgerEntry{
			entry(enum.EntryKindSale, 1000),
			entry(enum.EntryKindWithdrawal, 4000),
		})
		assert.Equal(t, int64(-3000), summary.NetMovement)
	})

	t.Run("empty period", func(t *testing.T) {
		assert.Equal(t, CashFlowSummary{}, SummarizeCashFlow(nil))
	})
}

func TestSummarizeReceivables(t *testing.T) {
	today := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	due := func(day int) time.Time { return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC) }

	discount := int64(500)
	receivables := []entity.Receivable{
		{ID: uuid.New(), Value: 10000, Status: enum.ReceivableStatusPending, DueDate: due(20)},
		{ID: uuid.New(), Value: 20000, Status: enum.ReceivableStatusPending, DueDate: due(5)}, // overdue
		{ID: uuid.New(), Value: 5000, Status: enum.ReceivableStatusPending, DueDate: due(10)}, // due today, not overdue
		{ID: uuid.New(), Value: 9500, Status: enum.ReceivableStatusSettled, DueDate: due(1), Discount: &discount},
	}

	summary := SummarizeReceivables(receivables, today)

	assert.Equal(t, 2, summary.PendingCount)
	assert.Equal(t, int64(15000), summary.PendingTotal)
	assert.Equal(t, 1, summary.OverdueCount)
	assert.Equal(t, int64(20000), summary.OverdueTotal)
	assert.Equal(t, 1, summary.SettledCount)
	assert.Equal(t, int64(9500), summary.SettledTotal)
	assert.Equal(t, int64(500), summary.DiscountTotal)

	// Pending and overdue are disjoint, so together they are all open debt.
	assert.Equal(t, int64(35000), summary.PendingTotal+summary.OverdueTotal)
}

func TestSummarizeSales(t *testing.T) {
	sales := []entity.Sale{
		{
			Subtotal:      10000,
			Discount:      1000,
			Total:         9000,
			PaymentMethod: "dinheiro",
			Items:         []entity.SaleItem{{Quantity: 2}, {Quantity: 3}},
		},
		{
			Subtotal:      20000,
			Total:         20000,
			PaymentMethod: "pix",
			Items:         []entity.SaleItem{{Quantity: 1}},
		},
		{
			Subtotal:      5000,
			Total:         5000,
			PaymentMethod: "pix",
			Items:         []entity.SaleItem{{Quantity: 4}},
		},
	}

	summary := SummarizeSales(sales)

	assert.Equal(t, 3, summary.SaleCount)
	assert.Equal(t, int64(35000), summary.GrossTotal)
	assert.Equal(t, int64(1000), summary.DiscountTotal)
	assert.Equal(t, int64(34000), summary.NetTotal)
	assert.Equal(t, 10, summary.ItemsSold)
	assert.Equal(t, int64(9000), summary.ByMethod["dinheiro"])
	assert.Equal(t, int64(25000), summary.ByMethod["pix"])
}
