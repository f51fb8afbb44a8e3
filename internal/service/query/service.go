package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/reg-go/internal/domain"
	redisx "github.com/kirinyoku/reg-go/internal/redis"
	"github.com/kirinyoku/reg-go/internal/repository"
	redisrepo "github.com/kirinyoku/reg-go/internal/repository/redis"
)

const (
	registrationTTL = 30 * time.Second
	ticketTTL       = 30 * time.Second
	ticketTypesTTL  = 5 * time.Minute
)

// Storage is the read surface the lookup endpoints need.
type Storage interface {
	RegistrationGraph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error)
	RegistrationGraphByReference(ctx context.Context, reference string) (*domain.RegistrationGraph, error)
	TicketDetailByCode(ctx context.Context, code string) (*domain.TicketDetail, error)
	ListTicketTypes(ctx context.Context) ([]domain.TicketType, error)
}

type Service struct {
	store Storage
	cache *redisrepo.Cache
}

func New(store Storage, cache *redisrepo.Cache) *Service {
	return &Service{store: store, cache: cache}
}

// GetRegistration returns the full registration graph by id.
func (s *Service) GetRegistration(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error) {
	const op = "service.query.GetRegistration"

	graph, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyRegistrationGraph(id.String()), registrationTTL,
		func(ctx context.Context) (*domain.RegistrationGraph, error) {
			return s.store.RegistrationGraph(ctx, id)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrRegistrationNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return graph, nil
}

// GetRegistrationByReference returns the full registration graph by its
// caller-generated reference number.
func (s *Service) GetRegistrationByReference(ctx context.Context, reference string) (*domain.RegistrationGraph, error) {
	const op = "service.query.GetRegistrationByReference"

	graph, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyRegistrationByRef(reference), registrationTTL,
		func(ctx context.Context) (*domain.RegistrationGraph, error) {
			return s.store.RegistrationGraphByReference(ctx, reference)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrRegistrationNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return graph, nil
}

// TicketByCode resolves a scanned code to the ticket and its registration
// context. Lookup only; the scanned flag is not mutated here.
func (s *Service) TicketByCode(ctx context.Context, code string) (*domain.TicketDetail, error) {
	const op = "service.query.TicketByCode"

	detail, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyTicketDetail(code), ticketTTL,
		func(ctx context.Context) (*domain.TicketDetail, error) {
			return s.store.TicketDetailByCode(ctx, code)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrTicketNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return detail, nil
}

// ListTicketTypes returns every known ticket type ordered by name.
func (s *Service) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	const op = "service.query.ListTicketTypes"

	types, err := redisrepo.GetOrSetJSON(ctx, s.cache, redisx.KeyTicketTypes(), ticketTypesTTL,
		func(ctx context.Context) ([]domain.TicketType, error) {
			return s.store.ListTicketTypes(ctx)
		})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return types, nil
}
