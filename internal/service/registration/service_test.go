package registration_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/repository"
	"github.com/kirinyoku/reg-go/internal/service/registration"
	"github.com/kirinyoku/reg-go/internal/uow/uowtest"
)

func newService(store *uowtest.Store) *registration.Service {
	return registration.New(store, nil, nil, nil, registration.Config{})
}

func validOrder(reference string) registration.Order {
	return registration.Order{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(2400),
		ReferenceNumber: reference,
		Tickets: []registration.TicketGroup{
			{Type: "VIP", Quantity: "2", Holder: "Bea"},
			{Type: "VIP", Quantity: "1", Holder: "Bea"},
		},
	}
}

func TestCreate_IssuesConsolidatedTickets(t *testing.T) {
	store := uowtest.NewStore()
	svc := newService(store)

	graph, err := svc.Create(context.Background(), validOrder("4DK-000111"), "")
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", graph.FullName)
	assert.Equal(t, domain.StatusPending, graph.Status)
	assert.True(t, graph.TotalPrice.Equal(decimal.NewFromInt(2400)),
		"total = %s", graph.TotalPrice)

	require.Len(t, graph.Tickets, 3)

	codes := map[string]struct{}{}
	for _, tk := range graph.Tickets {
		assert.Equal(t, "Bea", tk.Holder)
		assert.Equal(t, "VIP", tk.TicketType.Name)
		assert.Len(t, tk.Code, 24)
		codes[tk.Code] = struct{}{}
	}
	assert.Len(t, codes, 3, "every ticket carries a distinct code")
}

func TestCreate_ConsolidationSumsQuantities(t *testing.T) {
	store := uowtest.NewStore()
	svc := newService(store)

	order := registration.Order{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(2500),
		ReferenceNumber: "4DK-000112",
		Tickets: []registration.TicketGroup{
			{Type: "Regular", Quantity: "2", Holder: "Mia"},
			{Type: "Regular", Quantity: "3", Holder: "Mia"},
		},
	}

	graph, err := svc.Create(context.Background(), order, "")
	require.NoError(t, err)
	assert.Len(t, graph.Tickets, 5)
}

func TestCreate_PersistsComputedTotal(t *testing.T) {
	store := uowtest.NewStore()
	svc := newService(store)

	// 1 VIP (800) + 2 Regular (500 each)
	order := registration.Order{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(1800),
		ReferenceNumber: "4DK-000113",
		Tickets: []registration.TicketGroup{
			{Type: "VIP", Quantity: "1", Holder: "Bea"},
			{Type: "Regular", Quantity: "2", Holder: "Mia"},
		},
	}

	graph, err := svc.Create(context.Background(), order, "")
	require.NoError(t, err)
	assert.True(t, graph.TotalPrice.Equal(decimal.NewFromInt(1800)))

	stored, err := store.RegistrationGraphByReference(context.Background(), "4DK-000113")
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(1800)))
}

func TestCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *registration.Order)
		field  string
	}{
		{
			name:   "missing full name",
			mutate: func(o *registration.Order) { o.FullName = "" },
			field:  "full_name",
		},
		{
			name:   "invalid email",
			mutate: func(o *registration.Order) { o.Email = "not-an-email" },
			field:  "email",
		},
		{
			name:   "short phone",
			mutate: func(o *registration.Order) { o.Phone = "12345" },
			field:  "phone",
		},
		{
			name:   "no tickets",
			mutate: func(o *registration.Order) { o.Tickets = nil },
			field:  "tickets",
		},
		{
			name:   "missing reference number",
			mutate: func(o *registration.Order) { o.ReferenceNumber = "" },
			field:  "reference_number",
		},
		{
			name:   "negative total",
			mutate: func(o *registration.Order) { o.TotalPrice = decimal.NewFromInt(-1) },
			field:  "total_price",
		},
		{
			name: "zero quantity",
			mutate: func(o *registration.Order) {
				o.Tickets[0].Quantity = "0"
			},
			field: "tickets[0].quantity",
		},
		{
			name: "unparseable quantity",
			mutate: func(o *registration.Order) {
				o.Tickets[0].Quantity = "two"
			},
			field: "tickets[0].quantity",
		},
		{
			name: "unknown ticket type",
			mutate: func(o *registration.Order) {
				o.Tickets[0].Type = "Platinum"
			},
			field: "tickets[0].type",
		},
		{
			name: "total mismatch",
			mutate: func(o *registration.Order) {
				o.TotalPrice = decimal.NewFromInt(100)
			},
			field: "total_price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := uowtest.NewStore()
			svc := newService(store)

			order := validOrder("4DK-000114")
			tt.mutate(&order)

			_, err := svc.Create(context.Background(), order, "")

			var verr *registration.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)

			// validation failures never open a transaction
			_, err = store.RegistrationGraphByReference(context.Background(), "4DK-000114")
			assert.ErrorIs(t, err, repository.ErrNotFound)
		})
	}
}

func TestCreate_ReferenceConflict(t *testing.T) {
	store := uowtest.NewStore()
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder("4DK-000115"), "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validOrder("4DK-000115"), "")
	require.ErrorIs(t, err, registration.ErrReferenceConflict)
}

func TestCreate_AtomicOnTicketInsertFailure(t *testing.T) {
	store := uowtest.NewStore()
	store.BulkInsertErr = errors.New("disk full")
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder("4DK-000116"), "")
	require.Error(t, err)

	// the registration row must not survive the failed transaction
	_, err = store.RegistrationGraphByReference(context.Background(), "4DK-000116")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_CodeGenerationExhaustedRollsBack(t *testing.T) {
	store := uowtest.NewStore()
	store.CodeExistsFn = func(string) (bool, error) { return true, nil }
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder("4DK-000117"), "")
	require.ErrorIs(t, err, registration.ErrCodeGenerationExhausted)

	_, err = store.RegistrationGraphByReference(context.Background(), "4DK-000117")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCreate_TimeoutMapped(t *testing.T) {
	store := uowtest.NewStore()
	store.DoErr = fmt.Errorf("uow: %w", repository.ErrTxTimeout)
	svc := newService(store)

	_, err := svc.Create(context.Background(), validOrder("4DK-000118"), "")
	require.ErrorIs(t, err, registration.ErrTransactionTimeout)
}

func TestCreate_ConcurrentRegistrationsGetDistinctCodes(t *testing.T) {
	store := uowtest.NewStore()
	svc := newService(store)

	const n = 10

	graphs := make([]*domain.RegistrationGraph, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			order := validOrder(fmt.Sprintf("4DK-%06d", i))
			graph, err := svc.Create(context.Background(), order, "")
			assert.NoError(t, err)
			graphs[i] = graph
		}(i)
	}
	wg.Wait()

	codes := map[string]struct{}{}
	for _, graph := range graphs {
		require.NotNil(t, graph)
		for _, tk := range graph.Tickets {
			_, dup := codes[tk.Code]
			require.False(t, dup, "code %q reused", tk.Code)
			codes[tk.Code] = struct{}{}
		}
	}

	assert.Len(t, codes, 3*n)
}

func TestCreate_TotalSurvivesLaterPriceChange(t *testing.T) {
	store := uowtest.NewStore()

	oldPrices := registration.New(store, nil, nil, nil, registration.Config{
		Prices: map[string]decimal.Decimal{"VIP": decimal.NewFromInt(800)},
	})
	newPrices := registration.New(store, nil, nil, nil, registration.Config{
		Prices: map[string]decimal.Decimal{"VIP": decimal.NewFromInt(900)},
	})

	order := registration.Order{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(800),
		ReferenceNumber: "4DK-000119",
		Tickets: []registration.TicketGroup{
			{Type: "VIP", Quantity: "1", Holder: "Bea"},
		},
	}

	first, err := oldPrices.Create(context.Background(), order, "")
	require.NoError(t, err)

	order.TotalPrice = decimal.NewFromInt(900)
	order.ReferenceNumber = "4DK-000120"
	_, err = newPrices.Create(context.Background(), order, "")
	require.NoError(t, err)

	// the second create re-priced the ticket type, but the first
	// registration keeps the total captured at its own creation
	stored, err := store.RegistrationGraph(context.Background(), first.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalPrice.Equal(decimal.NewFromInt(800)))
	assert.True(t, stored.Tickets[0].TicketType.Price.Equal(decimal.NewFromInt(900)))
}
