package httpgin

import "github.com/shopspring/decimal"

// CreateRegistrationRequest mirrors the form-submission payload: quantities
// arrive as strings and the beneficiary field is named "dancer" on the wire.
type CreateRegistrationRequest struct {
	FullName            string               `json:"fullName" binding:"required"`
	Email               string               `json:"email" binding:"required"`
	Phone               string               `json:"phone" binding:"required"`
	SpecialRequirements string               `json:"specialRequirements"`
	Tickets             []TicketGroupRequest `json:"tickets" binding:"required,min=1,dive"`
	TotalPrice          decimal.Decimal      `json:"totalPrice"`
	ReferenceNumber     string               `json:"referenceNumber" binding:"required"`
}

type TicketGroupRequest struct {
	Type     string `json:"type" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	Dancer   string `json:"dancer" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PaymentProofRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
	Confirm  bool   `json:"confirm"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
