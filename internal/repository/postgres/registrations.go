package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/reg-go/internal/domain"
)

type RegistrationRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *RegistrationRepo) With(db DB) *RegistrationRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *RegistrationRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const registrationColumns = `id, full_name, email, phone,
	COALESCE(special_requirements, ''), reference_number, total_price,
	status, created_at, updated_at`

func scanRegistration(row interface{ Scan(...any) error }, reg *domain.Registration) error {
	var status string

	err := row.Scan(
		&reg.ID,
		&reg.FullName,
		&reg.Email,
		&reg.Phone,
		&reg.SpecialRequirements,
		&reg.ReferenceNumber,
		&reg.TotalPrice,
		&status,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		return err
	}

	reg.Status = domain.RegistrationStatus(status)

	return nil
}

// Insert persists a new registration row. Status and timestamps are assigned
// by the database; the passed struct is updated in place.
//
// Returns:
//   - error: repository.ErrConflict if the reference number is already taken.
func (r *RegistrationRepo) Insert(ctx context.Context, reg *domain.Registration) error {
	const op = "postgres.RegistrationRepo.Insert"

	db := r.handle()

	var status string
	err := db.QueryRow(ctx,
		`INSERT INTO registrations(
        	id, full_name, email, phone, special_requirements,
        	reference_number, total_price)
       	 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)
     	 RETURNING status, created_at, updated_at`,
		reg.ID, reg.FullName, reg.Email, reg.Phone, reg.SpecialRequirements,
		reg.ReferenceNumber, reg.TotalPrice,
	).Scan(&status, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	reg.Status = domain.RegistrationStatus(status)

	return nil
}

// Get retrieves a registration by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the registration does not exist.
func (r *RegistrationRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Registration, error) {
	const op = "postgres.RegistrationRepo.Get"

	db := r.handle()

	var reg domain.Registration
	row := db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	if err := scanRegistration(row, &reg); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &reg, nil
}

// UpdateStatus writes the new status and bumps updated_at. Last write wins;
// the row-level lock of the UPDATE is the only serialization.
//
// Returns:
//   - *domain.Registration: the updated row.
//   - error: repository.ErrNotFound if the registration does not exist.
func (r *RegistrationRepo) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.RegistrationStatus,
) (*domain.Registration, error) {
	const op = "postgres.RegistrationRepo.UpdateStatus"

	db := r.handle()

	var reg domain.Registration
	row := db.QueryRow(ctx,
		`UPDATE registrations
        	SET status = $2, updated_at = now()
      	 WHERE id = $1
     	 RETURNING `+registrationColumns,
		id, string(status))
	if err := scanRegistration(row, &reg); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &reg, nil
}

// Graph loads the full registration graph by ID: the registration, its
// tickets with ticket-type detail, and the payment proof when present.
//
// Returns:
//   - error: repository.ErrNotFound if the registration does not exist.
func (r *RegistrationRepo) Graph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error) {
	const op = "postgres.RegistrationRepo.Graph"

	db := r.handle()

	var reg domain.Registration
	row := db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
	if err := scanRegistration(row, &reg); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return r.assembleGraph(ctx, db, reg, op)
}

// GraphByReference loads the full registration graph by its human-shareable
// reference number.
//
// Returns:
//   - error: repository.ErrNotFound if no registration carries the reference.
func (r *RegistrationRepo) GraphByReference(ctx context.Context, reference string) (*domain.RegistrationGraph, error) {
	const op = "postgres.RegistrationRepo.GraphByReference"

	db := r.handle()

	var reg domain.Registration
	row := db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE reference_number = $1`, reference)
	if err := scanRegistration(row, &reg); err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return r.assembleGraph(ctx, db, reg, op)
}

func (r *RegistrationRepo) assembleGraph(
	ctx context.Context,
	db DB,
	reg domain.Registration,
	op string,
) (*domain.RegistrationGraph, error) {
	out := &domain.RegistrationGraph{Registration: reg}

	tickets, err := r.ticketsFor(ctx, db, []uuid.UUID{reg.ID})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	out.Tickets = tickets[reg.ID]

	proofs, err := r.proofsFor(ctx, db, []uuid.UUID{reg.ID})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if p, ok := proofs[reg.ID]; ok {
		out.PaymentProof = &p
	}

	return out, nil
}

// List returns one page of registration graphs matching the filter, newest
// first, along with the total number of matching rows.
func (r *RegistrationRepo) List(
	ctx context.Context,
	filter domain.RegistrationFilter,
) ([]domain.RegistrationGraph, int64, error) {
	const op = "postgres.RegistrationRepo.List"

	db := r.handle()

	where, args := buildRegistrationFilter(filter)

	var total int64
	err := db.QueryRow(ctx,
		`SELECT count(*) FROM registrations r`+where, args...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	pageArgs := append(args, limit, (page-1)*limit)
	rows, err := db.Query(ctx,
		fmt.Sprintf(
			`SELECT r.id, r.full_name, r.email, r.phone,
            	COALESCE(r.special_requirements, ''), r.reference_number,
            	r.total_price, r.status, r.created_at, r.updated_at
           FROM registrations r%s
          ORDER BY r.created_at DESC
          LIMIT $%d OFFSET $%d`,
			where, len(args)+1, len(args)+2,
		),
		pageArgs...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := scanRegistration(rows, &reg); err != nil {
			return nil, 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, err)
	}

	if len(regs) == 0 {
		return nil, total, nil
	}

	ids := make([]uuid.UUID, len(regs))
	for i, reg := range regs {
		ids[i] = reg.ID
	}

	tickets, err := r.ticketsFor(ctx, db, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, err)
	}

	proofs, err := r.proofsFor(ctx, db, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("%s:%w", op, err)
	}

	out := make([]domain.RegistrationGraph, len(regs))
	for i, reg := range regs {
		out[i] = domain.RegistrationGraph{
			Registration: reg,
			Tickets:      tickets[reg.ID],
		}
		if p, ok := proofs[reg.ID]; ok {
			out[i].PaymentProof = &p
		}
	}

	return out, total, nil
}

// buildRegistrationFilter translates the admin dashboard filter into a WHERE
// clause. Ticket-type terms keep the original semantics: a single selected
// type matches registrations whose tickets are all of that type, while
// selecting several requires at least one ticket of each.
func buildRegistrationFilter(filter domain.RegistrationFilter) (string, []any) {
	var conds []string
	var args []any

	if filter.CustomerName != "" {
		args = append(args, "%"+filter.CustomerName+"%")
		conds = append(conds, fmt.Sprintf("r.full_name ILIKE $%d", len(args)))
	}

	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, statuses)
		conds = append(conds, fmt.Sprintf("r.status = ANY($%d)", len(args)))
	}

	if len(filter.TicketTypes) == 1 {
		args = append(args, filter.TicketTypes[0])
		conds = append(conds, fmt.Sprintf(
			`NOT EXISTS (
            	SELECT 1 FROM tickets t
            	JOIN ticket_types tt ON tt.id = t.ticket_type_id
           	 WHERE t.registration_id = r.id AND tt.name <> $%d)`, len(args)))
	} else {
		for _, name := range filter.TicketTypes {
			args = append(args, name)
			conds = append(conds, fmt.Sprintf(
				`EXISTS (
            		SELECT 1 FROM tickets t
            		JOIN ticket_types tt ON tt.id = t.ticket_type_id
           		 WHERE t.registration_id = r.id AND tt.name = $%d)`, len(args)))
		}
	}

	if len(conds) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *RegistrationRepo) ticketsFor(
	ctx context.Context,
	db DB,
	ids []uuid.UUID,
) (map[uuid.UUID][]domain.TicketWithType, error) {
	rows, err := db.Query(ctx,
		`SELECT t.id, t.registration_id, t.ticket_type_id, t.holder, t.code,
            t.scanned, t.scanned_at, t.created_at,
            tt.id, tt.name, tt.price, tt.created_at, tt.updated_at
       	 FROM tickets t
       	 JOIN ticket_types tt ON tt.id = t.ticket_type_id
      	 WHERE t.registration_id = ANY($1)
      	 ORDER BY t.created_at, t.code`,
		ids,
	)
	if err != nil {
		return nil, translateDBErr(err)
	}

	defer rows.Close()

	out := make(map[uuid.UUID][]domain.TicketWithType)
	for rows.Next() {
		var twt domain.TicketWithType
		if err := rows.Scan(
			&twt.ID,
			&twt.RegistrationID,
			&twt.TicketTypeID,
			&twt.Holder,
			&twt.Code,
			&twt.Scanned,
			&twt.ScannedAt,
			&twt.CreatedAt,
			&twt.TicketType.ID,
			&twt.TicketType.Name,
			&twt.TicketType.Price,
			&twt.TicketType.CreatedAt,
			&twt.TicketType.UpdatedAt,
		); err != nil {
			return nil, translateDBErr(err)
		}

		out[twt.RegistrationID] = append(out[twt.RegistrationID], twt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (r *RegistrationRepo) proofsFor(
	ctx context.Context,
	db DB,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.PaymentProof, error) {
	rows, err := db.Query(ctx,
		`SELECT id, registration_id, image_url, uploaded_at
       	 FROM payment_proofs
      	 WHERE registration_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, translateDBErr(err)
	}

	defer rows.Close()

	out := make(map[uuid.UUID]domain.PaymentProof)
	for rows.Next() {
		var p domain.PaymentProof
		if err := rows.Scan(&p.ID, &p.RegistrationID, &p.ImageURL, &p.UploadedAt); err != nil {
			return nil, translateDBErr(err)
		}

		out[p.RegistrationID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
