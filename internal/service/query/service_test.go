package query_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/service/query"
	"github.com/kirinyoku/reg-go/internal/service/registration"
	"github.com/kirinyoku/reg-go/internal/uow/uowtest"
)

func seed(t *testing.T, store *uowtest.Store) *domain.RegistrationGraph {
	t.Helper()

	svc := registration.New(store, nil, nil, nil, registration.Config{})
	graph, err := svc.Create(context.Background(), registration.Order{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(1300),
		ReferenceNumber: "4DK-000301",
		Tickets: []registration.TicketGroup{
			{Type: "VIP", Quantity: "1", Holder: "Bea"},
			{Type: "Regular", Quantity: "1", Holder: "Mia"},
		},
	}, "")
	require.NoError(t, err)

	return graph
}

func TestGetRegistration(t *testing.T) {
	store := uowtest.NewStore()
	svc := query.New(store, nil)
	seeded := seed(t, store)

	g, err := svc.GetRegistration(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, g.ID)
	assert.Len(t, g.Tickets, 2)
}

func TestGetRegistration_NotFound(t *testing.T) {
	store := uowtest.NewStore()
	svc := query.New(store, nil)

	_, err := svc.GetRegistration(context.Background(), uuid.New())
	require.ErrorIs(t, err, query.ErrRegistrationNotFound)
}

func TestGetRegistrationByReference(t *testing.T) {
	store := uowtest.NewStore()
	svc := query.New(store, nil)
	seeded := seed(t, store)

	g, err := svc.GetRegistrationByReference(context.Background(), "4DK-000301")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, g.ID)

	_, err = svc.GetRegistrationByReference(context.Background(), "4DK-999999")
	require.ErrorIs(t, err, query.ErrRegistrationNotFound)
}

func TestTicketByCode(t *testing.T) {
	store := uowtest.NewStore()
	svc := query.New(store, nil)
	seeded := seed(t, store)

	code := seeded.Tickets[0].Code

	detail, err := svc.TicketByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, code, detail.Ticket.Code)
	assert.Equal(t, seeded.ID, detail.Registration.ID)
	assert.False(t, detail.Ticket.Scanned)

	_, err = svc.TicketByCode(context.Background(), "ffffffffffffffffffffffff")
	require.ErrorIs(t, err, query.ErrTicketNotFound)
}

func TestListTicketTypes(t *testing.T) {
	store := uowtest.NewStore()
	svc := query.New(store, nil)
	seed(t, store)

	types, err := svc.ListTicketTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)

	// ordered by name
	assert.Equal(t, "Regular", types[0].Name)
	assert.Equal(t, "VIP", types[1].Name)
	assert.True(t, types[0].Price.Equal(decimal.NewFromInt(500)))
	assert.True(t, types[1].Price.Equal(decimal.NewFromInt(800)))
}
