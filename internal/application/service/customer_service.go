package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// CustomerService handles customer and supplier records
type CustomerService struct {
	customerRepo repository.CustomerRepository
	supplierRepo repository.SupplierRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository, supplierRepo repository.SupplierRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, supplierRepo: supplierRepo}
}

// PartyInput holds the shared fields of customer and supplier records
type PartyInput struct {
	Name        string
	Document    *string
	Email       *string
	PhoneNumber *string
	Address     *string
	City        *string
	ContactName *string
	Notes       *string
}

// CreateCustomer creates a new customer
func (s *CustomerService) CreateCustomer(ctx context.Context, input *PartyInput) (*entity.Customer, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.Document != nil && *input.Document != "" {
		existing, err := s.customerRepo.GetByDocument(ctx, *input.Document)
		if err != nil {
			return nil, apperror.NewStoreFailureError("check customer document", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Customer document already registered")
		}
	}

	customer := &entity.Customer{
		Name:        input.Name,
		Document:    input.Document,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		City:        input.City,
		Notes:       input.Notes,
		IsActive:    true,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, apperror.NewStoreFailureError("create customer", err)
	}
	return customer, nil
}

// GetCustomer retrieves a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch customer", err)
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// UpdateCustomer updates a customer record
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, input *PartyInput) (*entity.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		customer.Name = input.Name
	}
	if input.Document != nil {
		customer.Document = input.Document
	}
	if input.Email != nil {
		customer.Email = input.Email
	}
	if input.PhoneNumber != nil {
		customer.PhoneNumber = input.PhoneNumber
	}
	if input.Address != nil {
		customer.Address = input.Address
	}
	if input.City != nil {
		customer.City = input.City
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, apperror.NewStoreFailureError("update customer", err)
	}
	return customer, nil
}

// DeleteCustomer soft-deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	if err := s.customerRepo.Delete(ctx, id); err != nil {
		return apperror.NewStoreFailureError("delete customer", err)
	}
	return nil
}

// ListCustomers lists customers with an optional search term
func (s *CustomerService) ListCustomers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Customer], error) {
	customers, total, err := s.customerRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list customers", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(customers, pag), nil
}

// CreateSupplier creates a new supplier
func (s *CustomerService) CreateSupplier(ctx context.Context, input *PartyInput) (*entity.Supplier, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	if input.Document != nil && *input.Document != "" {
		existing, err := s.supplierRepo.GetByDocument(ctx, *input.Document)
		if err != nil {
			return nil, apperror.NewStoreFailureError("check supplier document", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Supplier document already registered")
		}
	}

	supplier := &entity.Supplier{
		Name:        input.Name,
		Document:    input.Document,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		City:        input.City,
		ContactName: input.ContactName,
		Notes:       input.Notes,
		IsActive:    true,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, apperror.NewStoreFailureError("create supplier", err)
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier by ID
func (s *CustomerService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch supplier", err)
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	return supplier, nil
}

// UpdateSupplier updates a supplier record
func (s *CustomerService) UpdateSupplier(ctx context.Context, id uuid.UUID, input *PartyInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		supplier.Name = input.Name
	}
	if input.Document != nil {
		supplier.Document = input.Document
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.PhoneNumber != nil {
		supplier.PhoneNumber = input.PhoneNumber
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}
	if input.City != nil {
		supplier.City = input.City
	}
	if input.ContactName != nil {
		supplier.ContactName = input.ContactName
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, apperror.NewStoreFailureError("update supplier", err)
	}
	return supplier, nil
}

// DeleteSupplier soft-deletes a supplier
func (s *CustomerService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}
	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return apperror.NewStoreFailureError("delete supplier", err)
	}
	return nil
}

// ListSuppliers lists suppliers with an optional search term
func (s *CustomerService) ListSuppliers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Supplier], error) {
	suppliers, total, err := s.supplierRepo.List(ctx, params, search)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list suppliers", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(suppliers, pag), nil
}
