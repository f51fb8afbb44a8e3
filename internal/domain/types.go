package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "PENDING"
	StatusConfirmed RegistrationStatus = "CONFIRMED"
	StatusCancelled RegistrationStatus = "CANCELLED"
)

// ParseStatus maps a raw string onto one of the three registration statuses.
func ParseStatus(s string) (RegistrationStatus, bool) {
	switch RegistrationStatus(s) {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return RegistrationStatus(s), true
	}
	return "", false
}

type TicketType struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type Registration struct {
	ID                  uuid.UUID          `json:"id"`
	FullName            string             `json:"full_name"`
	Email               string             `json:"email"`
	Phone               string             `json:"phone"`
	SpecialRequirements string             `json:"special_requirements,omitempty"`
	ReferenceNumber     string             `json:"reference_number"`
	TotalPrice          decimal.Decimal    `json:"total_price"`
	Status              RegistrationStatus `json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// Ticket is one physical ticket. Quantity on an order expands into row
// cardinality here, because every ticket carries its own unique code and
// its own scan state.
type Ticket struct {
	ID             uuid.UUID  `json:"id"`
	RegistrationID uuid.UUID  `json:"registration_id"`
	TicketTypeID   uuid.UUID  `json:"ticket_type_id"`
	Holder         string     `json:"holder"`
	Code           string     `json:"code"`
	Scanned        bool       `json:"scanned"`
	ScannedAt      *time.Time `json:"scanned_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type TicketWithType struct {
	Ticket
	TicketType TicketType `json:"ticket_type"`
}

type PaymentProof struct {
	ID             uuid.UUID `json:"id"`
	RegistrationID uuid.UUID `json:"registration_id"`
	ImageURL       string    `json:"image_url"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

// RegistrationGraph is the full registration as returned to callers:
// the registration row, its tickets with type detail, and the payment
// proof when one has been uploaded.
type RegistrationGraph struct {
	Registration
	Tickets      []TicketWithType `json:"tickets"`
	PaymentProof *PaymentProof    `json:"payment_proof,omitempty"`
}

// TicketDetail is the scan/validation view of a single ticket.
type TicketDetail struct {
	Ticket       Ticket       `json:"ticket"`
	TicketType   TicketType   `json:"ticket_type"`
	Registration Registration `json:"registration"`
}

type RegistrationFilter struct {
	CustomerName string
	Statuses     []RegistrationStatus
	TicketTypes  []string
	Page         int
	Limit        int
}

type RegistrationPage struct {
	Items      []RegistrationGraph `json:"items"`
	Page       int                 `json:"page"`
	TotalPages int64               `json:"total_pages"`
	Limit      int                 `json:"limit"`
}
