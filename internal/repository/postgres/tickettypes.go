package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/shopspring/decimal"
)

type TicketTypeRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketTypeRepo) With(db DB) *TicketTypeRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketTypeRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Upsert creates the ticket type or refreshes its price, keyed by name.
// Running it twice with the same arguments yields the same row, so concurrent
// registrations converge on current pricing.
//
// Returns:
//   - *domain.TicketType: the current row after the upsert.
func (r *TicketTypeRepo) Upsert(
	ctx context.Context,
	name string,
	price decimal.Decimal,
) (*domain.TicketType, error) {
	const op = "postgres.TicketTypeRepo.Upsert"

	db := r.handle()

	var tt domain.TicketType
	err := db.QueryRow(ctx,
		`INSERT INTO ticket_types(id, name, price)
       	 VALUES ($1, $2, $3)
     	 ON CONFLICT (name) DO UPDATE
        	SET price = EXCLUDED.price, updated_at = now()
     	 RETURNING id, name, price, created_at, updated_at`,
		uuid.New(), name, price,
	).Scan(&tt.ID, &tt.Name, &tt.Price, &tt.CreatedAt, &tt.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &tt, nil
}

// List returns all ticket types ordered by name.
func (r *TicketTypeRepo) List(ctx context.Context) ([]domain.TicketType, error) {
	const op = "postgres.TicketTypeRepo.List"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, price, created_at, updated_at
       	 FROM ticket_types
     	 ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(&tt.ID, &tt.Name, &tt.Price, &tt.CreatedAt, &tt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
