package request

// SaleItemRequest is one line of a checkout request
type SaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateSaleRequest represents a checkout request
type CreateSaleRequest struct {
	CustomerID      *string           `json:"customer_id" binding:"omitempty,uuid"`
	Items           []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount        float64           `json:"discount" binding:"min=0"`
	PaymentMethod   string            `json:"payment_method" binding:"required"`
	Notes           *string           `json:"notes"`
	RecordOnSession bool              `json:"record_on_session"`
}
