package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/pagination"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{productRepo: productRepo, categoryRepo: categoryRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Code        string
	Name        string
	Description *string
	CategoryID  *uuid.UUID
	Unit        string
	CostPrice   int64 // cents
	SalePrice   int64 // cents
	Stock       int
	MinStock    int
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if input.Code == "" || input.Name == "" {
		return nil, apperror.NewBadRequestError("Code and name are required")
	}
	if input.SalePrice <= 0 {
		return nil, apperror.NewInvalidAmountError("Sale price must be positive")
	}
	if input.CostPrice < 0 {
		return nil, apperror.NewInvalidAmountError("Cost price must not be negative")
	}
	if input.Stock < 0 || input.MinStock < 0 {
		return nil, apperror.NewInvalidAmountError("Stock must not be negative")
	}

	existing, err := s.productRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, apperror.NewStoreFailureError("check product code", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already in use")
	}

	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, apperror.NewStoreFailureError("fetch category", err)
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
	}

	unit := input.Unit
	if unit == "" {
		unit = "un"
	}

	product := &entity.Product{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Unit:        unit,
		CostPrice:   input.CostPrice,
		SalePrice:   input.SalePrice,
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		IsActive:    true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, apperror.NewStoreFailureError("create product", err)
	}
	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStoreFailureError("fetch product", err)
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
	Unit        *string
	CostPrice   *int64 // cents
	SalePrice   *int64 // cents
	Stock       *int
	MinStock    *int
	IsActive    *bool
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *input.CategoryID)
		if err != nil {
			return nil, apperror.NewStoreFailureError("fetch category", err)
		}
		if category == nil {
			return nil, apperror.NewNotFoundError("Category")
		}
		product.CategoryID = input.CategoryID
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.CostPrice != nil {
		if *input.CostPrice < 0 {
			return nil, apperror.NewInvalidAmountError("Cost price must not be negative")
		}
		product.CostPrice = *input.CostPrice
	}
	if input.SalePrice != nil {
		if *input.SalePrice <= 0 {
			return nil, apperror.NewInvalidAmountError("Sale price must be positive")
		}
		product.SalePrice = *input.SalePrice
	}
	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, apperror.NewInvalidAmountError("Stock must not be negative")
		}
		product.Stock = *input.Stock
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, apperror.NewInvalidAmountError("Minimum stock must not be negative")
		}
		product.MinStock = *input.MinStock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, apperror.NewStoreFailureError("update product", err)
	}
	return product, nil
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return apperror.NewStoreFailureError("delete product", err)
	}
	return nil
}

// ListProducts lists products with search and category filters
func (s *ProductService) ListProducts(ctx context.Context, params *pagination.PaginationParams, search string, categoryID *uuid.UUID) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params, search, categoryID)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list products", err)
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// ListLowStock lists active products at or below their minimum stock level
func (s *ProductService) ListLowStock(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.ListLowStock(ctx)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list low stock", err)
	}
	return products, nil
}

// CreateCategory creates a new category
func (s *ProductService) CreateCategory(ctx context.Context, name string, description *string) (*entity.Category, error) {
	if name == "" {
		return nil, apperror.NewBadRequestError("Name is required")
	}
	existing, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		return nil, apperror.NewStoreFailureError("check category name", err)
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Category already exists")
	}

	category := &entity.Category{Name: name, Description: description}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, apperror.NewStoreFailureError("create category", err)
	}
	return category, nil
}

// ListCategories lists all categories
func (s *ProductService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewStoreFailureError("list categories", err)
	}
	return categories, nil
}

// DeleteCategory removes a category
func (s *ProductService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return apperror.NewStoreFailureError("fetch category", err)
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return apperror.NewStoreFailureError("delete category", err)
	}
	return nil
}
