package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/monitoring"
	redisx "github.com/kirinyoku/reg-go/internal/redis"
	"github.com/kirinyoku/reg-go/internal/repository"
	redisrepo "github.com/kirinyoku/reg-go/internal/repository/redis"
	"github.com/kirinyoku/reg-go/internal/uow"
)

// Storage is the read side the admin dashboard needs.
type Storage interface {
	ListRegistrations(ctx context.Context, filter domain.RegistrationFilter) ([]domain.RegistrationGraph, int64, error)
}

type Service struct {
	store  Storage
	runner uow.Runner
	cache  *redisrepo.Cache
	pubsub *redisx.RegistrationsPubSub
}

func New(
	store Storage,
	runner uow.Runner,
	cache *redisrepo.Cache,
	pubsub *redisx.RegistrationsPubSub,
) *Service {
	return &Service{
		store:  store,
		runner: runner,
		cache:  cache,
		pubsub: pubsub,
	}
}

// SetStatus moves a registration to the given status. All directed
// transitions among PENDING, CONFIRMED and CANCELLED are allowed, including
// re-opening, so administrators can correct mistakes. Setting the current
// status again is a no-op apart from the updated_at bump. No ticket side
// effects; scan state lives outside the status lifecycle.
//
// Returns:
//   - *domain.Registration: the updated row.
//   - error: admin.ErrInvalidStatus for an unknown status value.
//   - error: admin.ErrRegistrationNotFound if the registration is absent.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Registration, error) {
	const op = "service.admin.SetStatus"

	parsed, ok := domain.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%s:%w: %q", op, ErrInvalidStatus, status)
	}

	var updated *domain.Registration

	err := s.runner.Do(ctx, func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		reg, err := tx.UpdateRegistrationStatus(ctx, id, parsed)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrRegistrationNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		updated = reg

		after(func(ctx context.Context) {
			s.invalidate(ctx, reg)
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.StatusUpdated(string(parsed))

	return updated, nil
}

// SavePaymentProof stores or replaces the uploaded proof image for a
// registration and, when confirm is set, flips the status to CONFIRMED in
// the same transaction. Whether a proof upload confirms the registration is
// the calling layer's policy, not enforced here.
//
// Returns:
//   - *domain.PaymentProof: the stored proof.
//   - error: admin.ErrRegistrationNotFound if the registration is absent.
func (s *Service) SavePaymentProof(
	ctx context.Context,
	registrationID uuid.UUID,
	imageURL string,
	confirm bool,
) (*domain.PaymentProof, error) {
	const op = "service.admin.SavePaymentProof"

	var proof *domain.PaymentProof

	err := s.runner.Do(ctx, func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		p, err := tx.UpsertPaymentProof(ctx, registrationID, imageURL)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s:%w", op, ErrRegistrationNotFound)
			}

			return fmt.Errorf("%s:%w", op, err)
		}

		proof = p

		var reg *domain.Registration
		if confirm {
			reg, err = tx.UpdateRegistrationStatus(ctx, registrationID, domain.StatusConfirmed)
			if err != nil {
				return fmt.Errorf("%s:%w", op, err)
			}
		}

		after(func(ctx context.Context) {
			if reg != nil {
				s.invalidate(ctx, reg)
				return
			}
			if s.cache != nil {
				_ = s.cache.InvalidateRegistration(ctx, registrationID.String(), "")
			}
			if s.pubsub != nil {
				_ = s.pubsub.PublishRegistrationChanged(ctx, registrationID.String())
			}
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	return proof, nil
}

// ListRegistrations returns one dashboard page matching the filter.
func (s *Service) ListRegistrations(
	ctx context.Context,
	filter domain.RegistrationFilter,
) (*domain.RegistrationPage, error) {
	const op = "service.admin.ListRegistrations"

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 10
	}

	items, total, err := s.store.ListRegistrations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	totalPages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		totalPages++
	}

	return &domain.RegistrationPage{
		Items:      items,
		Page:       filter.Page,
		TotalPages: totalPages,
		Limit:      filter.Limit,
	}, nil
}

func (s *Service) invalidate(ctx context.Context, reg *domain.Registration) {
	if reg == nil {
		return
	}
	if s.cache != nil {
		_ = s.cache.InvalidateRegistration(ctx, reg.ID.String(), reg.ReferenceNumber)
	}
	if s.pubsub != nil {
		_ = s.pubsub.PublishRegistrationChanged(ctx, reg.ID.String())
	}
}
