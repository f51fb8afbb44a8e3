package admin_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/service/admin"
	"github.com/kirinyoku/reg-go/internal/service/registration"
	"github.com/kirinyoku/reg-go/internal/uow/uowtest"
)

func seedRegistration(t *testing.T, store *uowtest.Store, reference string) *domain.RegistrationGraph {
	t.Helper()

	svc := registration.New(store, nil, nil, nil, registration.Config{})
	graph, err := svc.Create(context.Background(), registration.Order{
		FullName:        "Jane Doe",
		Email:           "jane@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(800),
		ReferenceNumber: reference,
		Tickets: []registration.TicketGroup{
			{Type: "VIP", Quantity: "1", Holder: "Bea"},
		},
	}, "")
	require.NoError(t, err)

	return graph
}

func TestSetStatus_AllTransitions(t *testing.T) {
	statuses := []domain.RegistrationStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusCancelled,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				store := uowtest.NewStore()
				svc := admin.New(store, store, nil, nil)
				reg := seedRegistration(t, store, "4DK-"+string(from)+string(to))

				_, err := svc.SetStatus(context.Background(), reg.ID, string(from))
				require.NoError(t, err)

				updated, err := svc.SetStatus(context.Background(), reg.ID, string(to))
				require.NoError(t, err)
				assert.Equal(t, to, updated.Status)
			})
		}
	}
}

func TestSetStatus_Idempotent(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)
	reg := seedRegistration(t, store, "4DK-000201")

	first, err := svc.SetStatus(context.Background(), reg.ID, "CONFIRMED")
	require.NoError(t, err)

	second, err := svc.SetStatus(context.Background(), reg.ID, "CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
}

func TestSetStatus_UnknownStatus(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)
	reg := seedRegistration(t, store, "4DK-000202")

	_, err := svc.SetStatus(context.Background(), reg.ID, "SHIPPED")
	require.ErrorIs(t, err, admin.ErrInvalidStatus)

	// the row is untouched
	g, gerr := store.RegistrationGraph(context.Background(), reg.ID)
	require.NoError(t, gerr)
	assert.Equal(t, domain.StatusPending, g.Status)
}

func TestSetStatus_NotFound(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)

	_, err := svc.SetStatus(context.Background(), uuid.New(), "CONFIRMED")
	require.ErrorIs(t, err, admin.ErrRegistrationNotFound)
}

func TestSavePaymentProof_StoresAndConfirms(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)
	reg := seedRegistration(t, store, "4DK-000203")

	proof, err := svc.SavePaymentProof(context.Background(), reg.ID, "https://cdn/proof.jpg", true)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/proof.jpg", proof.ImageURL)

	g, err := store.RegistrationGraph(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, g.Status)
	require.NotNil(t, g.PaymentProof)
	assert.Equal(t, "https://cdn/proof.jpg", g.PaymentProof.ImageURL)
}

func TestSavePaymentProof_ReplacesExisting(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)
	reg := seedRegistration(t, store, "4DK-000204")

	_, err := svc.SavePaymentProof(context.Background(), reg.ID, "https://cdn/v1.jpg", false)
	require.NoError(t, err)

	_, err = svc.SavePaymentProof(context.Background(), reg.ID, "https://cdn/v2.jpg", false)
	require.NoError(t, err)

	g, err := store.RegistrationGraph(context.Background(), reg.ID)
	require.NoError(t, err)
	require.NotNil(t, g.PaymentProof)
	assert.Equal(t, "https://cdn/v2.jpg", g.PaymentProof.ImageURL)
	// without the confirm flag the status stays where it was
	assert.Equal(t, domain.StatusPending, g.Status)
}

func TestSavePaymentProof_NotFound(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)

	_, err := svc.SavePaymentProof(context.Background(), uuid.New(), "https://cdn/proof.jpg", false)
	require.ErrorIs(t, err, admin.ErrRegistrationNotFound)
}

func price(ticketType string) decimal.Decimal {
	if ticketType == "VIP" {
		return decimal.NewFromInt(800)
	}
	return decimal.NewFromInt(500)
}

func TestListRegistrations_FiltersAndPages(t *testing.T) {
	store := uowtest.NewStore()
	svc := admin.New(store, store, nil, nil)

	regSvc := registration.New(store, nil, nil, nil, registration.Config{})

	mk := func(name, reference, ticketType string) *domain.RegistrationGraph {
		g, err := regSvc.Create(context.Background(), registration.Order{
			FullName:        name,
			Email:           "x@x.com",
			Phone:           "09171234567",
			TotalPrice:      price(ticketType),
			ReferenceNumber: reference,
			Tickets: []registration.TicketGroup{
				{Type: ticketType, Quantity: "1", Holder: name},
			},
		}, "")
		require.NoError(t, err)
		return g
	}

	alice := mk("Alice Cruz", "R-1", "VIP")
	mk("Bob Reyes", "R-2", "Regular")
	carol := mk("Carol Cruz", "R-3", "VIP")

	// one VIP plus one Regular ticket
	dana, err := regSvc.Create(context.Background(), registration.Order{
		FullName:        "Dana Lim",
		Email:           "x@x.com",
		Phone:           "09171234567",
		TotalPrice:      decimal.NewFromInt(1300),
		ReferenceNumber: "R-4",
		Tickets: []registration.TicketGroup{
			{Type: "VIP", Quantity: "1", Holder: "Dana Lim"},
			{Type: "Regular", Quantity: "1", Holder: "Dana Lim"},
		},
	}, "")
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), carol.ID, "CONFIRMED")
	require.NoError(t, err)

	t.Run("name substring", func(t *testing.T) {
		page, err := svc.ListRegistrations(context.Background(), domain.RegistrationFilter{
			CustomerName: "cruz",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.TotalPages)
		require.Len(t, page.Items, 2)
	})

	t.Run("status filter", func(t *testing.T) {
		page, err := svc.ListRegistrations(context.Background(), domain.RegistrationFilter{
			Statuses: []domain.RegistrationStatus{domain.StatusConfirmed},
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, carol.ID, page.Items[0].ID)
	})

	t.Run("single ticket type matches all-of-type", func(t *testing.T) {
		page, err := svc.ListRegistrations(context.Background(), domain.RegistrationFilter{
			TicketTypes: []string{"VIP"},
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
	})

	t.Run("multiple ticket types require one of each", func(t *testing.T) {
		page, err := svc.ListRegistrations(context.Background(), domain.RegistrationFilter{
			TicketTypes: []string{"VIP", "Regular"},
		})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, dana.ID, page.Items[0].ID)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.ListRegistrations(context.Background(), domain.RegistrationFilter{
			Limit: 2,
			Page:  2,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.TotalPages)
		require.Len(t, page.Items, 2)
		// newest first, so the last page ends with the oldest registration
		assert.Equal(t, alice.ID, page.Items[1].ID)
	})
}
