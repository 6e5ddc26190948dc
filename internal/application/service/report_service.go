package service

import (
	"context"
	"time"

	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
)

// ReportService produces period summaries for the back office. The
// aggregation itself is done by pure functions over already-fetched rows so
// it can be exercised without a database; the service only fetches and
// delegates.
type ReportService struct {
	entryRepo      repository.LedgerEntryRepository
	receivableRepo repository.ReceivableRepository
	saleRepo       repository.SaleRepository
	now            func() time.Time
}

// NewReportService creates a new report service
func NewReportService(entryRepo repository.LedgerEntryRepository, receivableRepo repository.ReceivableRepository, saleRepo repository.SaleRepository) *ReportService {
	return &ReportService{
		entryRepo:      entryRepo,
		receivableRepo: receivableRepo,
		saleRepo:       saleRepo,
		now:            time.Now,
	}
}

// CashFlowSummary totals ledger movement per kind over a period, in cents
type CashFlowSummary struct {
	SalesTotal       int64 `json:"sales_total"`
	WithdrawalsTotal int64 `json:"withdrawals_total"`
	SupplementsTotal int64 `json:"supplements_total"`
	NetMovement      int64 `json:"net_movement"`
	EntryCount       int   `json:"entry_count"`
}

// SummarizeCashFlow totals movement entries by kind. Opening and closing
// entries are session markers and are excluded from the flow.
func SummarizeCashFlow(entries []entity.LedgerEntry) CashFlowSummary {
	var summary CashFlowSummary
	for i := range entries {
		e := &entries[i]
		switch e.Kind {
		case enum.EntryKindSale:
			summary.SalesTotal += e.Amount
		case enum.EntryKindWithdrawal:
			summary.WithdrawalsTotal += e.Amount
		case enum.EntryKindSupplement:
			summary.SupplementsTotal += e.Amount
		default:
			continue
		}
		summary.NetMovement += e.SignedAmount()
		summary.EntryCount++
	}
	return summary
}

// ReceivablesSummary breaks receivables into pending, overdue and settled
// buckets with totals in cents
type ReceivablesSummary struct {
	PendingCount  int   `json:"pending_count"`
	PendingTotal  int64 `json:"pending_total"`
	OverdueCount  int   `json:"overdue_count"`
	OverdueTotal  int64 `json:"overdue_total"`
	SettledCount  int   `json:"settled_count"`
	SettledTotal  int64 `json:"settled_total"`
	DiscountTotal int64 `json:"discount_total"`
}

// SummarizeReceivables buckets receivables by effective status as of today.
// Overdue is a subset of pending split out by due date; the two buckets are
// disjoint here so their totals add up to all outstanding debt.
func SummarizeReceivables(receivables []entity.Receivable, today time.Time) ReceivablesSummary {
	var summary ReceivablesSummary
	for i := range receivables {
		r := &receivables[i]
		switch {
		case r.IsOverdue(today):
			summary.OverdueCount++
			summary.OverdueTotal += r.Value
		case r.Status == enum.ReceivableStatusPending:
			summary.PendingCount++
			summary.PendingTotal += r.Value
		case r.Status == enum.ReceivableStatusSettled:
			summary.SettledCount++
			summary.SettledTotal += r.Value
			if r.Discount != nil {
				summary.DiscountTotal += *r.Discount
			}
		}
	}
	return summary
}

// SalesSummary totals sales over a period, in cents
type SalesSummary struct {
	SaleCount     int              `json:"sale_count"`
	GrossTotal    int64            `json:"gross_total"`
	DiscountTotal int64            `json:"discount_total"`
	NetTotal      int64            `json:"net_total"`
	ItemsSold     int              `json:"items_sold"`
	ByMethod      map[string]int64 `json:"by_method"`
}

// SummarizeSales totals sales and groups the net amount by payment method
func SummarizeSales(sales []entity.Sale) SalesSummary {
	summary := SalesSummary{ByMethod: make(map[string]int64)}
	for i := range sales {
		s := &sales[i]
		summary.SaleCount++
		summary.GrossTotal += s.Subtotal
		summary.DiscountTotal += s.Discount
		summary.NetTotal += s.Total
		summary.ByMethod[s.PaymentMethod] += s.Total
		for _, item := range s.Items {
			summary.ItemsSold += item.Quantity
		}
	}
	return summary
}

// PeriodReport bundles the three summaries for one period
type PeriodReport struct {
	From        time.Time          `json:"from"`
	To          time.Time          `json:"to"`
	CashFlow    CashFlowSummary    `json:"cash_flow"`
	Receivables ReceivablesSummary `json:"receivables"`
	Sales       SalesSummary       `json:"sales"`
}

// PeriodReport fetches the period's rows and aggregates them
func (s *ReportService) PeriodReport(ctx context.Context, from, to time.Time) (*PeriodReport, error) {
	if !to.After(from) {
		return nil, apperror.NewBadRequestError("Period end must be after period start")
	}

	entries, err := s.entryRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list ledger entries", err)
	}
	receivables, err := s.receivableRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list receivables", err)
	}
	sales, err := s.saleRepo.ListByPeriod(ctx, from, to)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list sales", err)
	}

	return &PeriodReport{
		From:        from,
		To:          to,
		CashFlow:    SummarizeCashFlow(entries),
		Receivables: SummarizeReceivables(receivables, s.now()),
		Sales:       SummarizeSales(sales),
	}, nil
}

// DailyReport aggregates the calendar day containing the given time
func (s *ReportService) DailyReport(ctx context.Context, day time.Time) (*PeriodReport, error) {
	y, m, d := day.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return s.PeriodReport(ctx, from, from.AddDate(0, 0, 1))
}
