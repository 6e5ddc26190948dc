package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// SaleService handles checkout. Prices are frozen at sale time from the
// catalog; clients send only product IDs and quantities.
type SaleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	sessionRepo repository.CashSessionRepository
	now         func() time.Time
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository, sessionRepo repository.CashSessionRepository) *SaleService {
	return &SaleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// SaleItemInput is one line of a checkout request
type SaleItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSaleInput represents the checkout input. When RecordOnSession is
// true the cash portion is appended to the open session's ledger in the
// same transaction as the sale.
type CreateSaleInput struct {
	UserID          uuid.UUID
	CustomerID      *uuid.UUID
	Items           []SaleItemInput
	Discount        int64 // cents, off the subtotal
	PaymentMethod   string
	Notes           *string
	RecordOnSession bool
}

// CreateSale performs checkout: prices the cart from the catalog, writes the
// sale, decrements stock and optionally records the cash movement, all
// atomically. Any stock shortage aborts the entire sale.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("At least one item is required")
	}
	if input.PaymentMethod == "" {
		return nil, apperror.NewBadRequestError("Payment method is required")
	}
	if input.Discount < 0 {
		return nil, apperror.NewInvalidAmountError("Discount must not be negative")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewInvalidAmountError("Quantity must be positive")
		}
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch products", err)
	}
	byID := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	var subtotal int64
	saleItems := make([]entity.SaleItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			return nil, apperror.NewNotFoundError("Product " + item.ProductID.String())
		}
		if !product.IsActive {
			return nil, apperror.NewInvalidStateError("Product " + product.Code + " is inactive")
		}
		lineTotal := product.SalePrice * int64(item.Quantity)
		subtotal += lineTotal
		saleItems = append(saleItems, entity.SaleItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.SalePrice,
			Total:     lineTotal,
		})
	}

	if input.Discount > subtotal {
		return nil, apperror.NewInvalidAmountError("Discount exceeds sale subtotal")
	}
	total := subtotal - input.Discount

	now := s.now()
	sale := &entity.Sale{
		InvoiceNo:     entity.GenerateInvoiceNo(now),
		CustomerID:    input.CustomerID,
		UserID:        input.UserID,
		Subtotal:      subtotal,
		Discount:      input.Discount,
		Total:         total,
		PaymentMethod: input.PaymentMethod,
		Notes:         input.Notes,
		Items:         saleItems,
	}

	var entry *entity.LedgerEntry
	if input.RecordOnSession {
		session, err := s.sessionRepo.GetOpenSession(ctx)
		if err != nil {
			return nil, apperror.NewStoreFailureError("fetch open session", err)
		}
		if session == nil {
			return nil, apperror.NewInvalidStateError("No open cash session to record the sale on")
		}
		sale.SessionID = &session.ID
		desc := fmt.Sprintf("Venda %s", sale.InvoiceNo)
		method := input.PaymentMethod
		entry = &entity.LedgerEntry{
			SessionID:     session.ID,
			Kind:          enum.EntryKindSale,
			Amount:        total,
			Description:   &desc,
			PaymentMethod: &method,
		}
	}

	failedProduct, err := s.saleRepo.CreateWithStock(ctx, sale, entry)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) && failedProduct != nil {
			if p, ok := byID[*failedProduct]; ok {
				return nil, apperror.NewConflictError("Insufficient stock for product " + p.Code)
			}
			return nil, apperror.NewConflictError("Insufficient stock")
		}
		return nil, apperror.NewStoreFailureError("create sale", err)
	}

	return sale, nil
}

// GetSale retrieves a sale with its items
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// ListSales lists sales with optional date and customer filters
func (s *SaleService) ListSales(ctx context.Context, params *pagination.PaginationParams, from, to *time.Time, customerID *uuid.UUID) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params, from, to, customerID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list sales", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}
