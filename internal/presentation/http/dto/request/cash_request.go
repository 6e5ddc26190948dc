package request

// Amounts arrive as major-unit decimals (e.g. 150.00) and are converted to
// cents at the handler boundary.

// OpenRegisterRequest represents a request to open the cash register
type OpenRegisterRequest struct {
	OpeningAmount float64 `json:"opening_amount" binding:"min=0"`
	Operator      string  `json:"operator" binding:"required,min=2,max=255"`
	Notes         *string `json:"notes"`
}

// RecordMovementRequest represents a request to record a cash movement
type RecordMovementRequest struct {
	Kind          string  `json:"kind" binding:"required,oneof=sale withdrawal supplement"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Description   *string `json:"description"`
	PaymentMethod *string `json:"payment_method"`
}

// CloseRegisterRequest represents a request to close the cash register
type CloseRegisterRequest struct {
	CountedAmount float64 `json:"counted_amount" binding:"min=0"`
	Notes         *string `json:"notes"`
}
