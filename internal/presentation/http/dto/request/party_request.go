package request

// PartyRequest holds the shared payload of customer and supplier endpoints
type PartyRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255"`
	Document    *string `json:"document" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Notes       *string `json:"notes"`
}

// UpdatePartyRequest is the partial-update variant of PartyRequest
type UpdatePartyRequest struct {
	Name        string  `json:"name" binding:"omitempty,min=2,max=255"`
	Document    *string `json:"document" binding:"omitempty,max=20"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=20"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	City        *string `json:"city" binding:"omitempty,max=100"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=255"`
	Notes       *string `json:"notes"`
}
