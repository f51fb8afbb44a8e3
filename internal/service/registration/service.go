package registration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/monitoring"
	redisx "github.com/kirinyoku/reg-go/internal/redis"
	"github.com/kirinyoku/reg-go/internal/repository"
	redisrepo "github.com/kirinyoku/reg-go/internal/repository/redis"
	"github.com/kirinyoku/reg-go/internal/uow"
)

type Config struct {
	// Prices are the canonical per-type unit prices captured into each
	// registration at order time.
	Prices map[string]decimal.Decimal
}

type Service struct {
	runner   uow.Runner
	cache    *redisrepo.Cache
	pubsub   *redisx.RegistrationsPubSub
	limiter  *redisrepo.SlidingWindowLimiter
	validate *validator.Validate
	cfg      Config
}

func New(
	runner uow.Runner,
	cache *redisrepo.Cache,
	pubsub *redisx.RegistrationsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Service {
	if len(cfg.Prices) == 0 {
		cfg.Prices = map[string]decimal.Decimal{
			"VIP":     decimal.NewFromInt(800),
			"Regular": decimal.NewFromInt(500),
		}
	}

	return &Service{
		runner:   runner,
		cache:    cache,
		pubsub:   pubsub,
		limiter:  limiter,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Create validates the order and commits the whole registration graph in one
// transaction: ticket-type upsert, registration row, and one bulk insert of
// every issued ticket. On any failure nothing persists.
//
// Parameters:
//   - ctx: request-scoped context.
//   - order: the inbound order.
//   - rlKey: rate-limit key (empty disables the limiter for this call).
//
// Returns:
//   - *domain.RegistrationGraph: the committed registration with its tickets.
//   - error: *ValidationError for a malformed order (no transaction opened).
//   - error: ErrReferenceConflict if the reference number is taken.
//   - error: ErrCodeGenerationExhausted, ErrTransactionTimeout (both retryable
//     with a fresh reference number).
func (s *Service) Create(ctx context.Context, order Order, rlKey string) (*domain.RegistrationGraph, error) {
	const op = "service.registration.Create"

	if s.limiter != nil && rlKey != "" {
		ok, _, retry, err := s.limiter.Allow(ctx, rlKey)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s:%w, retry in %s", op, ErrRateLimited, retry)
		}
	}

	groups, total, verr := s.validateOrder(order)
	if verr != nil {
		monitoring.RegistrationCreated("invalid")
		return nil, verr
	}

	groups = consolidate(groups)

	reg := &domain.Registration{
		ID:                  uuid.New(),
		FullName:            order.FullName,
		Email:               order.Email,
		Phone:               order.Phone,
		SpecialRequirements: order.SpecialRequirements,
		ReferenceNumber:     order.ReferenceNumber,
		TotalPrice:          total,
		Status:              domain.StatusPending,
	}

	start := time.Now()

	var graph *domain.RegistrationGraph

	err := s.runner.Do(ctx, func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		types := make(map[string]*domain.TicketType, len(groups))
		for _, g := range groups {
			if _, ok := types[g.TypeName]; ok {
				continue
			}

			tt, err := tx.UpsertTicketType(ctx, g.TypeName, s.cfg.Prices[g.TypeName])
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}

			types[g.TypeName] = tt
		}

		if err := tx.InsertRegistration(ctx, reg); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s:%w", op, ErrReferenceConflict)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		var tickets []domain.Ticket
		for _, g := range groups {
			batch, err := issueGroup(ctx, tx, reg.ID, types[g.TypeName].ID, g.Holder, g.Quantity)
			if err != nil {
				return err
			}

			tickets = append(tickets, batch...)
		}

		if err := tx.BulkInsertTickets(ctx, tickets); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		g, err := tx.RegistrationGraph(ctx, reg.ID)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		graph = g

		after(func(ctx context.Context) {
			if s.cache != nil {
				_ = s.cache.InvalidateRegistration(ctx, reg.ID.String(), reg.ReferenceNumber)
				_ = s.cache.InvalidateTicketTypes(ctx)
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishRegistrationChanged(ctx, reg.ID.String())
			}
		})

		return nil
	})

	monitoring.ObserveCreateDuration(time.Since(start))

	if err != nil {
		if errors.Is(err, repository.ErrTxTimeout) {
			monitoring.RegistrationCreated("timeout")
			return nil, fmt.Errorf("%s:%w", op, ErrTransactionTimeout)
		}

		monitoring.RegistrationCreated("error")
		return nil, err
	}

	monitoring.RegistrationCreated("ok")
	monitoring.TicketsIssued(len(graph.Tickets))

	return graph, nil
}
