package uow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/repository"
	postgres "github.com/kirinyoku/reg-go/internal/repository/postgres"
)

// Tx is the set of storage operations available inside one transaction.
// Services receive it through Runner.Do; tests substitute an in-memory
// implementation honoring the same atomicity contract.
type Tx interface {
	UpsertTicketType(ctx context.Context, name string, price decimal.Decimal) (*domain.TicketType, error)
	InsertRegistration(ctx context.Context, reg *domain.Registration) error
	BulkInsertTickets(ctx context.Context, tickets []domain.Ticket) error
	TicketCodeExists(ctx context.Context, code string) (bool, error)
	RegistrationGraph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error)
	UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) (*domain.Registration, error)
	UpsertPaymentProof(ctx context.Context, registrationID uuid.UUID, imageURL string) (*domain.PaymentProof, error)
}

// AfterCommit is a function that runs after a successful transaction commit.
type AfterCommit func(ctx context.Context)

// Runner runs fn inside a transaction. If fn returns an error, nothing
// persists. After a successful commit, registered after-commit hooks run.
type Runner interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx, after func(AfterCommit)) error) error
}

// UoW is the pgx-backed Runner. Every transaction is bounded by Timeout;
// exceeding it aborts with repository.ErrTxTimeout and the usual rollback.
type UoW struct {
	store   *postgres.Store
	timeout time.Duration
}

func NewUoW(store *postgres.Store, timeout time.Duration) *UoW {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &UoW{store: store, timeout: timeout}
}

func (u *UoW) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx Tx, after func(AfterCommit)) error,
) error {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	var hooks []AfterCommit

	err := u.store.RunTx(ctx, nil, func(ctx context.Context, db postgres.DB) error {
		return fn(ctx, &pgTx{store: u.store, db: db}, func(h AfterCommit) {
			hooks = append(hooks, h)
		})
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("uow: %w", repository.ErrTxTimeout)
		}

		return err
	}

	// Hooks run outside the transaction, on the parent deadline.
	for _, h := range hooks {
		h(context.WithoutCancel(ctx))
	}

	return nil
}

// pgTx adapts the repo layer to the Tx port, pinning every call to the
// transaction handle.
type pgTx struct {
	store *postgres.Store
	db    postgres.DB
}

func (t *pgTx) UpsertTicketType(ctx context.Context, name string, price decimal.Decimal) (*domain.TicketType, error) {
	return t.store.TicketTypes().With(t.db).Upsert(ctx, name, price)
}

func (t *pgTx) InsertRegistration(ctx context.Context, reg *domain.Registration) error {
	return t.store.Registrations().With(t.db).Insert(ctx, reg)
}

func (t *pgTx) BulkInsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	return t.store.Tickets().With(t.db).BulkInsert(ctx, tickets)
}

func (t *pgTx) TicketCodeExists(ctx context.Context, code string) (bool, error) {
	return t.store.Tickets().With(t.db).CodeExists(ctx, code)
}

func (t *pgTx) RegistrationGraph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error) {
	return t.store.Registrations().With(t.db).Graph(ctx, id)
}

func (t *pgTx) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) (*domain.Registration, error) {
	return t.store.Registrations().With(t.db).UpdateStatus(ctx, id, status)
}

func (t *pgTx) UpsertPaymentProof(ctx context.Context, registrationID uuid.UUID, imageURL string) (*domain.PaymentProof, error) {
	return t.store.PaymentProofs().With(t.db).Upsert(ctx, registrationID, imageURL)
}
