package request

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code        string  `json:"code" binding:"required,min=1,max=50"`
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Unit        string  `json:"unit" binding:"omitempty,max=20"`
	CostPrice   float64 `json:"cost_price" binding:"min=0"`
	SalePrice   float64 `json:"sale_price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	MinStock    int     `json:"min_stock" binding:"min=0"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string  `json:"description"`
	CategoryID  *string  `json:"category_id" binding:"omitempty,uuid"`
	Unit        *string  `json:"unit" binding:"omitempty,max=20"`
	CostPrice   *float64 `json:"cost_price" binding:"omitempty,min=0"`
	SalePrice   *float64 `json:"sale_price" binding:"omitempty,gt=0"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	MinStock    *int     `json:"min_stock" binding:"omitempty,min=0"`
	IsActive    *bool    `json:"is_active"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=100"`
	Description *string `json:"description"`
}
