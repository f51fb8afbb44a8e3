package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kirinyoku/reg-go/internal/domain"
)

// Read-side convenience methods. The service packages declare their storage
// needs as small interfaces; *Store satisfies them through these.

func (s *Store) RegistrationGraph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error) {
	return s.Registrations().Graph(ctx, id)
}

func (s *Store) RegistrationGraphByReference(ctx context.Context, reference string) (*domain.RegistrationGraph, error) {
	return s.Registrations().GraphByReference(ctx, reference)
}

func (s *Store) TicketDetailByCode(ctx context.Context, code string) (*domain.TicketDetail, error) {
	return s.Tickets().DetailByCode(ctx, code)
}

func (s *Store) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	return s.TicketTypes().List(ctx)
}

func (s *Store) ListRegistrations(
	ctx context.Context,
	filter domain.RegistrationFilter,
) ([]domain.RegistrationGraph, int64, error) {
	return s.Registrations().List(ctx, filter)
}
