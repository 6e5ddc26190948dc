package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// In-memory repository fakes. They reproduce the storage contracts the
// services rely on: conditional updates for close/settle, nil for not
// found, and transactional open.

type fakeCashSessionRepo struct {
	sessions map[uuid.UUID]*entity.CashSession
	entries  *fakeLedgerEntryRepo
	openErr  error
}

func newFakeCashSessionRepo() (*fakeCashSessionRepo, *fakeLedgerEntryRepo) {
	entries := &fakeLedgerEntryRepo{}
	return &fakeCashSessionRepo{
		sessions: make(map[uuid.UUID]*entity.CashSession),
		entries:  entries,
	}, entries
}

func (f *fakeCashSessionRepo) OpenSession(ctx context.Context, session *entity.CashSession, opening *entity.LedgerEntry) error {
	if f.openErr != nil {
		return f.openErr
	}
	for _, s := range f.sessions {
		if s.Status == enum.SessionStatusOpen {
			return repository.ErrSessionAlreadyOpen
		}
	}
	session.ID = uuid.New()
	f.sessions[session.ID] = session
	opening.ID = uuid.New()
	opening.SessionID = session.ID
	opening.CreatedAt = time.Now()
	f.entries.rows = append(f.entries.rows, *opening)
	return nil
}

func (f *fakeCashSessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	copied.Entries, _ = f.entries.ListBySession(ctx, id)
	return &copied, nil
}

func (f *fakeCashSessionRepo) GetOpenSession(ctx context.Context) (*entity.CashSession, error) {
	for id, s := range f.sessions {
		if s.Status == enum.SessionStatusOpen {
			return f.GetByID(ctx, id)
		}
	}
	return nil, nil
}

func (f *fakeCashSessionRepo) CloseSession(ctx context.Context, session *entity.CashSession, closing *entity.LedgerEntry) (bool, error) {
	stored, ok := f.sessions[session.ID]
	if !ok || stored.Status != enum.SessionStatusOpen {
		return false, nil
	}
	stored.Status = session.Status
	stored.ClosingAmount = session.ClosingAmount
	stored.ExpectedAmount = session.ExpectedAmount
	stored.Difference = session.Difference
	stored.ClosedAt = session.ClosedAt
	stored.Notes = session.Notes
	closing.ID = uuid.New()
	closing.SessionID = session.ID
	closing.CreatedAt = time.Now()
	f.entries.rows = append(f.entries.rows, *closing)
	return true, nil
}

func (f *fakeCashSessionRepo) List(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time) ([]entity.CashSession, int64, error) {
	var out []entity.CashSession
	for _, s := range f.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakeLedgerEntryRepo struct {
	rows      []entity.LedgerEntry
	appendErr error
}

func (f *fakeLedgerEntryRepo) Append(ctx context.Context, entry *entity.LedgerEntry) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.rows = append(f.rows, *entry)
	return nil
}

func (f *fakeLedgerEntryRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.LedgerEntry, error) {
	var out []entity.LedgerEntry
	for _, e := range f.rows {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerEntryRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.LedgerEntry, error) {
	return f.rows, nil
}

type fakeReceivableRepo struct {
	rows map[uuid.UUID]*entity.Receivable
}

func newFakeReceivableRepo() *fakeReceivableRepo {
	return &fakeReceivableRepo{rows: make(map[uuid.UUID]*entity.Receivable)}
}

func (f *fakeReceivableRepo) add(r *entity.Receivable) *entity.Receivable {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = enum.ReceivableStatusPending
	}
	f.rows[r.ID] = r
	return r
}

func (f *fakeReceivableRepo) Create(ctx context.Context, receivable *entity.Receivable) error {
	f.add(receivable)
	return nil
}

func (f *fakeReceivableRepo) CreateBatch(ctx context.Context, receivables []entity.Receivable) error {
	for i := range receivables {
		r := receivables[i]
		f.add(&r)
	}
	return nil
}

func (f *fakeReceivableRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receivable, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReceivableRepo) Update(ctx context.Context, receivable *entity.Receivable) error {
	f.rows[receivable.ID] = receivable
	return nil
}

func (f *fakeReceivableRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeReceivableRepo) List(ctx context.Context, params *pagination.PaginationParams, filter *repository.ReceivableFilter) ([]entity.Receivable, int64, error) {
	var out []entity.Receivable
	for _, r := range f.rows {
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeReceivableRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.Receivable, error) {
	var out []entity.Receivable
	for _, r := range f.rows {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeReceivableRepo) Settle(ctx context.Context, receivable *entity.Receivable) (bool, error) {
	stored, ok := f.rows[receivable.ID]
	if !ok || stored.Status != enum.ReceivableStatusPending {
		return false, nil
	}
	*stored = *receivable
	return true, nil
}

type fakeProductRepo struct {
	rows map[uuid.UUID]*entity.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{rows: make(map[uuid.UUID]*entity.Product)}
}

func (f *fakeProductRepo) add(p *entity.Product) *entity.Product {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.rows[p.ID] = p
	return p
}

func (f *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	f.add(product)
	return nil
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range f.rows {
		if p.Code == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := f.rows[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	f.rows[product.ID] = product
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeProductRepo) List(ctx context.Context, params *pagination.PaginationParams, search string, categoryID *uuid.UUID) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range f.rows {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) ListLowStock(ctx context.Context) ([]entity.Product, error) {
	var out []entity.Product
	for _, p := range f.rows {
		if p.IsLowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeSaleRepo struct {
	products *fakeProductRepo
	entries  *fakeLedgerEntryRepo
	sales    map[uuid.UUID]*entity.Sale
}

func newFakeSaleRepo(products *fakeProductRepo, entries *fakeLedgerEntryRepo) *fakeSaleRepo {
	return &fakeSaleRepo{
		products: products,
		entries:  entries,
		sales:    make(map[uuid.UUID]*entity.Sale),
	}
}

func (f *fakeSaleRepo) CreateWithStock(ctx context.Context, sale *entity.Sale, entry *entity.LedgerEntry) (*uuid.UUID, error) {
	// Validate all decrements before mutating anything, mirroring the
	// all-or-nothing transaction.
	for _, item := range sale.Items {
		p, ok := f.products.rows[item.ProductID]
		if !ok || p.Stock < item.Quantity {
			id := item.ProductID
			return &id, repository.ErrInsufficientStock
		}
	}
	for _, item := range sale.Items {
		f.products.rows[item.ProductID].Stock -= item.Quantity
	}
	sale.ID = uuid.New()
	f.sales[sale.ID] = sale
	if entry != nil {
		_ = f.entries.Append(ctx, entry)
	}
	return nil, nil
}

func (f *fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	s, ok := f.sales[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSaleRepo) GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	for _, s := range f.sales {
		if s.InvoiceNo == invoiceNo {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSaleRepo) List(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time, customerID *uuid.UUID) ([]entity.Sale, int64, error) {
	var out []entity.Sale
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (f *fakeSaleRepo) ListByPeriod(ctx context.Context, from, to time.Time) ([]entity.Sale, error) {
	var out []entity.Sale
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, nil
}
