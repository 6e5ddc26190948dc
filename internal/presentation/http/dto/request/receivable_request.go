package request

// CreateReceivableRequest represents a request to create a receivable
type CreateReceivableRequest struct {
	Description string  `json:"description" binding:"required,min=2,max=255"`
	Customer    string  `json:"customer" binding:"required,min=2,max=255"`
	Value       float64 `json:"value" binding:"required,gt=0"`
	DueDate     string  `json:"due_date" binding:"required,datetime=2006-01-02"`
}

// UpdateReceivableRequest represents a request to update a pending receivable
type UpdateReceivableRequest struct {
	Description *string  `json:"description" binding:"omitempty,min=2,max=255"`
	Customer    *string  `json:"customer" binding:"omitempty,min=2,max=255"`
	Value       *float64 `json:"value" binding:"omitempty,gt=0"`
	DueDate     *string  `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

// SettleItemRequest is one receivable within a settlement request
type SettleItemRequest struct {
	ID       string  `json:"id" binding:"required,uuid"`
	Discount float64 `json:"discount" binding:"min=0"`
	Addition float64 `json:"addition" binding:"min=0"`
}

// SettleRequest represents a request to settle one or more receivables
type SettleRequest struct {
	Items               []SettleItemRequest `json:"items" binding:"required,min=1,dive"`
	PaymentMethod       string              `json:"payment_method" binding:"required"`
	PaymentDate         *string             `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	AggregateDiscount   float64             `json:"aggregate_discount" binding:"min=0"`
	DistributeAggregate bool                `json:"distribute_aggregate"`
}
