package registration

import (
	"context"

	"github.com/google/uuid"

	"github.com/kirinyoku/reg-go/internal/domain"
)

// issueGroup builds the individual tickets for one consolidated group. The
// sequence index feeds the code generator so every ticket in the group hashes
// a distinct input. Tickets are returned as a batch for the coordinator to
// persist in one bulk insert; any generation failure fails the whole group.
func issueGroup(
	ctx context.Context,
	checker CodeChecker,
	registrationID uuid.UUID,
	ticketTypeID uuid.UUID,
	holder string,
	quantity int,
) ([]domain.Ticket, error) {
	tickets := make([]domain.Ticket, 0, quantity)

	for i := 0; i < quantity; i++ {
		code, err := generateTicketCode(ctx, checker, codeContext{
			registrationID: registrationID,
			ticketTypeID:   ticketTypeID,
			holder:         holder,
			sequence:       i,
		})
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, domain.Ticket{
			ID:             uuid.New(),
			RegistrationID: registrationID,
			TicketTypeID:   ticketTypeID,
			Holder:         holder,
			Code:           code,
		})
	}

	return tickets, nil
}
