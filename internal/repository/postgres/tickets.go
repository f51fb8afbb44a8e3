package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/reg-go/internal/domain"
)

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// BulkInsert persists a batch of tickets in one round trip. The unique index
// on code is the final backstop behind the generator's pre-check.
//
// Returns:
//   - error: repository.ErrConflict on a code collision that slipped past the
//     generator.
func (r *TicketRepo) BulkInsert(ctx context.Context, tickets []domain.Ticket) error {
	const op = "postgres.TicketRepo.BulkInsert"

	if len(tickets) == 0 {
		return nil
	}

	db := r.handle()

	batch := &pgx.Batch{}
	for _, t := range tickets {
		batch.Queue(
			`INSERT INTO tickets(id, registration_id, ticket_type_id, holder, code)
         	 VALUES ($1, $2, $3, $4, $5)`,
			t.ID, t.RegistrationID, t.TicketTypeID, t.Holder, t.Code,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// CodeExists reports whether any ticket ever created carries the code.
// Read-only: reserving the code is the issuer's bulk insert, not this check.
func (r *TicketRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	const op = "postgres.TicketRepo.CodeExists"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE code = $1)`, code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return exists, nil
}

// DetailByCode resolves a scanned code to the ticket, its type, and the
// owning registration.
//
// Returns:
//   - error: repository.ErrNotFound if no ticket carries the code.
func (r *TicketRepo) DetailByCode(ctx context.Context, code string) (*domain.TicketDetail, error) {
	const op = "postgres.TicketRepo.DetailByCode"

	db := r.handle()

	var d domain.TicketDetail
	var status string

	err := db.QueryRow(ctx,
		`SELECT t.id, t.registration_id, t.ticket_type_id, t.holder, t.code,
            t.scanned, t.scanned_at, t.created_at,
            tt.id, tt.name, tt.price, tt.created_at, tt.updated_at,
            r.id, r.full_name, r.email, r.phone,
            COALESCE(r.special_requirements, ''), r.reference_number,
            r.total_price, r.status, r.created_at, r.updated_at
       	 FROM tickets t
       	 JOIN ticket_types tt ON tt.id = t.ticket_type_id
       	 JOIN registrations r ON r.id = t.registration_id
      	 WHERE t.code = $1`,
		code,
	).Scan(
		&d.Ticket.ID,
		&d.Ticket.RegistrationID,
		&d.Ticket.TicketTypeID,
		&d.Ticket.Holder,
		&d.Ticket.Code,
		&d.Ticket.Scanned,
		&d.Ticket.ScannedAt,
		&d.Ticket.CreatedAt,
		&d.TicketType.ID,
		&d.TicketType.Name,
		&d.TicketType.Price,
		&d.TicketType.CreatedAt,
		&d.TicketType.UpdatedAt,
		&d.Registration.ID,
		&d.Registration.FullName,
		&d.Registration.Email,
		&d.Registration.Phone,
		&d.Registration.SpecialRequirements,
		&d.Registration.ReferenceNumber,
		&d.Registration.TotalPrice,
		&status,
		&d.Registration.CreatedAt,
		&d.Registration.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	d.Registration.Status = domain.RegistrationStatus(status)

	return &d, nil
}
