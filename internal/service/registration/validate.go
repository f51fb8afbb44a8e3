package registration

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Order is the inbound create request as the form-submission glue sends it.
// Quantities arrive as strings (form fields); the reference number is
// caller-generated and must be fresh per attempt.
type Order struct {
	FullName            string          `validate:"required,min=2"`
	Email               string          `validate:"required,email"`
	Phone               string          `validate:"required,min=10"`
	SpecialRequirements string          `validate:"-"`
	Tickets             []TicketGroup   `validate:"required,min=1,dive"`
	TotalPrice          decimal.Decimal `validate:"-"`
	ReferenceNumber     string          `validate:"required"`
}

// TicketGroup is a (type, quantity, holder) triple before consolidation.
type TicketGroup struct {
	Type     string `validate:"required"`
	Quantity string `validate:"required"`
	Holder   string `validate:"required"`
}

type group struct {
	TypeName string
	Holder   string
	Quantity int
}

// validateOrder applies the structural rules, resolves quantities, and checks
// the caller total against the canonical prices. On success it returns the
// parsed groups (pre-consolidation) and the computed total.
func (s *Service) validateOrder(order Order) ([]group, decimal.Decimal, *ValidationError) {
	fields := map[string]string{}

	if err := s.validate.Struct(order); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fieldName(fe)] = fieldMessage(fe)
			}
		} else {
			fields["order"] = err.Error()
		}
	}

	if order.TotalPrice.IsNegative() {
		fields["total_price"] = "must not be negative"
	}

	groups := make([]group, 0, len(order.Tickets))
	total := decimal.Zero

	for i, tg := range order.Tickets {
		price, known := s.cfg.Prices[tg.Type]
		if tg.Type != "" && !known {
			fields["tickets["+strconv.Itoa(i)+"].type"] = "unknown ticket type"
			continue
		}

		qty, err := strconv.Atoi(tg.Quantity)
		if tg.Quantity != "" && (err != nil || qty < 1) {
			fields["tickets["+strconv.Itoa(i)+"].quantity"] = "must be a positive integer"
			continue
		}

		if tg.Type == "" || tg.Quantity == "" || tg.Holder == "" {
			// already reported by the struct rules
			continue
		}

		groups = append(groups, group{TypeName: tg.Type, Holder: tg.Holder, Quantity: qty})
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	if len(fields) == 0 && !total.Equal(order.TotalPrice) {
		fields["total_price"] = "does not match the ticket selection"
	}

	if len(fields) > 0 {
		return nil, decimal.Zero, &ValidationError{Fields: fields}
	}

	return groups, total, nil
}

// consolidate merges groups sharing the same (type, holder) pair, summing
// quantities and preserving first-seen order.
func consolidate(in []group) []group {
	idx := make(map[[2]string]int, len(in))
	out := make([]group, 0, len(in))

	for _, g := range in {
		k := [2]string{g.TypeName, g.Holder}
		if i, ok := idx[k]; ok {
			out[i].Quantity += g.Quantity
			continue
		}

		idx[k] = len(out)
		out = append(out, g)
	}

	return out
}

func fieldName(fe validator.FieldError) string {
	switch fe.Field() {
	case "FullName":
		return "full_name"
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	case "Tickets":
		return "tickets"
	case "ReferenceNumber":
		return "reference_number"
	case "Type":
		return "tickets.type"
	case "Quantity":
		return "tickets.quantity"
	case "Holder":
		return "tickets.dancer"
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Field() == "Tickets" {
			return "at least one ticket is required"
		}
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	}
	return "is invalid"
}
