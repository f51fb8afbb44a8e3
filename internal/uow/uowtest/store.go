// Package uowtest provides an in-memory Store for service tests. It honors
// the same atomicity contract as the pgx-backed unit of work: nothing the
// transaction wrote is visible until Do returns nil, and a failed transaction
// leaves the committed state untouched.
package uowtest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/repository"
	"github.com/kirinyoku/reg-go/internal/uow"
)

type Store struct {
	// fault injection, set before use
	DoErr               error
	InsertErr           error
	BulkInsertErr       error
	UpsertTicketTypeErr error
	UpdateStatusErr     error
	CodeExistsFn        func(code string) (bool, error)

	mu    sync.Mutex
	state *state
}

type state struct {
	types    map[string]domain.TicketType
	regs     map[uuid.UUID]domain.Registration
	regOrder []uuid.UUID
	byRef    map[string]uuid.UUID
	tickets  []domain.Ticket
	codes    map[string]struct{}
	proofs   map[uuid.UUID]domain.PaymentProof
}

func NewStore() *Store {
	return &Store{state: newState()}
}

func newState() *state {
	return &state{
		types:  map[string]domain.TicketType{},
		regs:   map[uuid.UUID]domain.Registration{},
		byRef:  map[string]uuid.UUID{},
		codes:  map[string]struct{}{},
		proofs: map[uuid.UUID]domain.PaymentProof{},
	}
}

func (s *state) clone() *state {
	cp := newState()
	for k, v := range s.types {
		cp.types[k] = v
	}
	for k, v := range s.regs {
		cp.regs[k] = v
	}
	cp.regOrder = append(cp.regOrder, s.regOrder...)
	for k, v := range s.byRef {
		cp.byRef[k] = v
	}
	cp.tickets = append(cp.tickets, s.tickets...)
	for k := range s.codes {
		cp.codes[k] = struct{}{}
	}
	for k, v := range s.proofs {
		cp.proofs[k] = v
	}
	return cp
}

// Do runs fn against a staged copy of the committed state. fn returning nil
// commits the copy and runs the after-commit hooks; any error discards it.
// Transactions are serialized by a mutex, like a single-connection database.
func (s *Store) Do(
	ctx context.Context,
	fn func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error,
) error {
	if s.DoErr != nil {
		return s.DoErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()

	var hooks []uow.AfterCommit

	err := fn(ctx, &memTx{store: s, st: staged}, func(h uow.AfterCommit) {
		hooks = append(hooks, h)
	})
	if err != nil {
		return err
	}

	s.state = staged

	for _, h := range hooks {
		h(context.WithoutCancel(ctx))
	}

	return nil
}

type memTx struct {
	store *Store
	st    *state
}

func (t *memTx) UpsertTicketType(ctx context.Context, name string, price decimal.Decimal) (*domain.TicketType, error) {
	if err := t.store.UpsertTicketTypeErr; err != nil {
		return nil, err
	}

	now := time.Now()

	tt, ok := t.st.types[name]
	if ok {
		tt.Price = price
		tt.UpdatedAt = now
	} else {
		tt = domain.TicketType{
			ID:        uuid.New(),
			Name:      name,
			Price:     price,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	t.st.types[name] = tt

	return &tt, nil
}

func (t *memTx) InsertRegistration(ctx context.Context, reg *domain.Registration) error {
	if err := t.store.InsertErr; err != nil {
		return err
	}

	if _, taken := t.st.byRef[reg.ReferenceNumber]; taken {
		return fmt.Errorf("uowtest: insert registration: %w", repository.ErrConflict)
	}

	now := time.Now()
	reg.Status = domain.StatusPending
	reg.CreatedAt = now
	reg.UpdatedAt = now

	t.st.regs[reg.ID] = *reg
	t.st.regOrder = append(t.st.regOrder, reg.ID)
	t.st.byRef[reg.ReferenceNumber] = reg.ID

	return nil
}

func (t *memTx) BulkInsertTickets(ctx context.Context, tickets []domain.Ticket) error {
	if err := t.store.BulkInsertErr; err != nil {
		return err
	}

	now := time.Now()
	batch := make(map[string]struct{}, len(tickets))
	for _, tk := range tickets {
		if _, dup := t.st.codes[tk.Code]; dup {
			return fmt.Errorf("uowtest: insert ticket: %w", repository.ErrConflict)
		}
		// the unique index also rejects duplicates within one batch
		if _, dup := batch[tk.Code]; dup {
			return fmt.Errorf("uowtest: insert ticket: %w", repository.ErrConflict)
		}
		batch[tk.Code] = struct{}{}
	}
	for _, tk := range tickets {
		tk.CreatedAt = now
		t.st.tickets = append(t.st.tickets, tk)
		t.st.codes[tk.Code] = struct{}{}
	}

	return nil
}

func (t *memTx) TicketCodeExists(ctx context.Context, code string) (bool, error) {
	if fn := t.store.CodeExistsFn; fn != nil {
		return fn(code)
	}

	_, ok := t.st.codes[code]
	return ok, nil
}

func (t *memTx) RegistrationGraph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error) {
	return t.st.graph(id)
}

func (t *memTx) UpdateRegistrationStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.RegistrationStatus,
) (*domain.Registration, error) {
	if err := t.store.UpdateStatusErr; err != nil {
		return nil, err
	}

	reg, ok := t.st.regs[id]
	if !ok {
		return nil, fmt.Errorf("uowtest: update status: %w", repository.ErrNotFound)
	}

	reg.Status = status
	reg.UpdatedAt = time.Now()
	t.st.regs[id] = reg

	return &reg, nil
}

func (t *memTx) UpsertPaymentProof(
	ctx context.Context,
	registrationID uuid.UUID,
	imageURL string,
) (*domain.PaymentProof, error) {
	if _, ok := t.st.regs[registrationID]; !ok {
		return nil, fmt.Errorf("uowtest: upsert payment proof: %w", repository.ErrNotFound)
	}

	now := time.Now()

	p, ok := t.st.proofs[registrationID]
	if ok {
		p.ImageURL = imageURL
		p.UploadedAt = now
	} else {
		p = domain.PaymentProof{
			ID:             uuid.New(),
			RegistrationID: registrationID,
			ImageURL:       imageURL,
			UploadedAt:     now,
		}
	}

	t.st.proofs[registrationID] = p

	return &p, nil
}

// --- read side, mirrors the postgres facade ---

func (s *Store) RegistrationGraph(ctx context.Context, id uuid.UUID) (*domain.RegistrationGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.graph(id)
}

func (s *Store) RegistrationGraphByReference(ctx context.Context, reference string) (*domain.RegistrationGraph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.state.byRef[reference]
	if !ok {
		return nil, fmt.Errorf("uowtest: graph by reference: %w", repository.ErrNotFound)
	}
	return s.state.graph(id)
}

func (s *Store) TicketDetailByCode(ctx context.Context, code string) (*domain.TicketDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tk := range s.state.tickets {
		if tk.Code != code {
			continue
		}

		return &domain.TicketDetail{
			Ticket:       tk,
			TicketType:   s.state.typeByID(tk.TicketTypeID),
			Registration: s.state.regs[tk.RegistrationID],
		}, nil
	}

	return nil, fmt.Errorf("uowtest: ticket by code: %w", repository.ErrNotFound)
}

func (s *Store) ListTicketTypes(ctx context.Context) ([]domain.TicketType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.TicketType, 0, len(s.state.types))
	for _, tt := range s.state.types {
		out = append(out, tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListRegistrations filters the committed registrations with the dashboard
// semantics: substring name match, any-of statuses, and the single/multi
// ticket-type rules. Newest first.
func (s *Store) ListRegistrations(
	ctx context.Context,
	filter domain.RegistrationFilter,
) ([]domain.RegistrationGraph, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []uuid.UUID
	for i := len(s.state.regOrder) - 1; i >= 0; i-- {
		id := s.state.regOrder[i]
		if s.state.matches(s.state.regs[id], filter) {
			matched = append(matched, id)
		}
	}

	total := int64(len(matched))

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]domain.RegistrationGraph, 0, end-start)
	for _, id := range matched[start:end] {
		g, err := s.state.graph(id)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *g)
	}

	return out, total, nil
}

func (s *state) matches(reg domain.Registration, filter domain.RegistrationFilter) bool {
	if filter.CustomerName != "" &&
		!strings.Contains(strings.ToLower(reg.FullName), strings.ToLower(filter.CustomerName)) {
		return false
	}

	if len(filter.Statuses) > 0 {
		ok := false
		for _, st := range filter.Statuses {
			if reg.Status == st {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}

	if len(filter.TicketTypes) == 1 {
		for _, tk := range s.tickets {
			if tk.RegistrationID == reg.ID && s.typeByID(tk.TicketTypeID).Name != filter.TicketTypes[0] {
				return false
			}
		}
	} else {
		for _, name := range filter.TicketTypes {
			found := false
			for _, tk := range s.tickets {
				if tk.RegistrationID == reg.ID && s.typeByID(tk.TicketTypeID).Name == name {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	return true
}

func (s *state) graph(id uuid.UUID) (*domain.RegistrationGraph, error) {
	reg, ok := s.regs[id]
	if !ok {
		return nil, fmt.Errorf("uowtest: graph: %w", repository.ErrNotFound)
	}

	out := &domain.RegistrationGraph{Registration: reg}

	for _, tk := range s.tickets {
		if tk.RegistrationID != id {
			continue
		}

		out.Tickets = append(out.Tickets, domain.TicketWithType{
			Ticket:     tk,
			TicketType: s.typeByID(tk.TicketTypeID),
		})
	}

	if p, ok := s.proofs[id]; ok {
		out.PaymentProof = &p
	}

	return out, nil
}

func (s *state) typeByID(id uuid.UUID) domain.TicketType {
	for _, tt := range s.types {
		if tt.ID == id {
			return tt
		}
	}
	return domain.TicketType{}
}
