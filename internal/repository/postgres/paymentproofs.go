package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/reg-go/internal/domain"
)

type PaymentProofRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PaymentProofRepo) With(db DB) *PaymentProofRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PaymentProofRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Upsert stores or replaces the proof image for a registration. At most one
// proof per registration.
//
// Returns:
//   - error: repository.ErrNotFound if the registration does not exist.
func (r *PaymentProofRepo) Upsert(
	ctx context.Context,
	registrationID uuid.UUID,
	imageURL string,
) (*domain.PaymentProof, error) {
	const op = "postgres.PaymentProofRepo.Upsert"

	db := r.handle()

	var p domain.PaymentProof
	err := db.QueryRow(ctx,
		`INSERT INTO payment_proofs(id, registration_id, image_url)
       	 VALUES ($1, $2, $3)
     	 ON CONFLICT (registration_id) DO UPDATE
        	SET image_url = EXCLUDED.image_url, uploaded_at = now()
     	 RETURNING id, registration_id, image_url, uploaded_at`,
		uuid.New(), registrationID, imageURL,
	).Scan(&p.ID, &p.RegistrationID, &p.ImageURL, &p.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &p, nil
}
