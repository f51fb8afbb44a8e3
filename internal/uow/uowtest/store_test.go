package uowtest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirinyoku/reg-go/internal/domain"
	"github.com/kirinyoku/reg-go/internal/repository"
	"github.com/kirinyoku/reg-go/internal/uow"
)

func TestDo_CommitsOnSuccess(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	err := store.Do(context.Background(), func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		tt, err := tx.UpsertTicketType(ctx, "VIP", decimal.NewFromInt(800))
		require.NoError(t, err)

		reg := &domain.Registration{
			ID:              id,
			FullName:        "Jane Doe",
			Email:           "jane@x.com",
			Phone:           "09171234567",
			ReferenceNumber: "REF-1",
			TotalPrice:      decimal.NewFromInt(800),
		}
		if err := tx.InsertRegistration(ctx, reg); err != nil {
			return err
		}

		return tx.BulkInsertTickets(ctx, []domain.Ticket{{
			ID:             uuid.New(),
			RegistrationID: id,
			TicketTypeID:   tt.ID,
			Holder:         "Bea",
			Code:           "aaaaaaaaaaaaaaaaaaaaaaaa",
		}})
	})
	require.NoError(t, err)

	g, err := store.RegistrationGraph(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, g.Status)
	require.Len(t, g.Tickets, 1)
	assert.Equal(t, "VIP", g.Tickets[0].TicketType.Name)
}

func TestDo_DiscardsOnError(t *testing.T) {
	store := NewStore()
	id := uuid.New()
	boom := errors.New("boom")

	err := store.Do(context.Background(), func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		reg := &domain.Registration{
			ID:              id,
			FullName:        "Jane Doe",
			Email:           "jane@x.com",
			Phone:           "09171234567",
			ReferenceNumber: "REF-2",
			TotalPrice:      decimal.Zero,
		}
		if err := tx.InsertRegistration(ctx, reg); err != nil {
			return err
		}

		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.RegistrationGraph(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDo_HooksRunOnlyAfterCommit(t *testing.T) {
	store := NewStore()

	ran := false
	err := store.Do(context.Background(), func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		after(func(ctx context.Context) { ran = true })
		return errors.New("rollback")
	})
	require.Error(t, err)
	assert.False(t, ran, "hook must not run on rollback")

	err = store.Do(context.Background(), func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		after(func(ctx context.Context) { ran = true })
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
}

func TestBulkInsertTickets_RejectsDuplicateWithinBatch(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	err := store.Do(context.Background(), func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		tt, err := tx.UpsertTicketType(ctx, "VIP", decimal.NewFromInt(800))
		require.NoError(t, err)

		reg := &domain.Registration{
			ID:              id,
			FullName:        "Jane Doe",
			Email:           "jane@x.com",
			Phone:           "09171234567",
			ReferenceNumber: "REF-4",
			TotalPrice:      decimal.NewFromInt(1600),
		}
		if err := tx.InsertRegistration(ctx, reg); err != nil {
			return err
		}

		return tx.BulkInsertTickets(ctx, []domain.Ticket{
			{
				ID:             uuid.New(),
				RegistrationID: id,
				TicketTypeID:   tt.ID,
				Holder:         "Bea",
				Code:           "cccccccccccccccccccccccc",
			},
			{
				ID:             uuid.New(),
				RegistrationID: id,
				TicketTypeID:   tt.ID,
				Holder:         "Bea",
				Code:           "cccccccccccccccccccccccc",
			},
		})
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = store.RegistrationGraph(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTicketCodeExists_SeesStagedWrites(t *testing.T) {
	store := NewStore()
	id := uuid.New()

	err := store.Do(context.Background(), func(ctx context.Context, tx uow.Tx, after func(uow.AfterCommit)) error {
		tt, err := tx.UpsertTicketType(ctx, "VIP", decimal.NewFromInt(800))
		require.NoError(t, err)

		reg := &domain.Registration{
			ID:              id,
			FullName:        "Jane Doe",
			Email:           "jane@x.com",
			Phone:           "09171234567",
			ReferenceNumber: "REF-3",
			TotalPrice:      decimal.NewFromInt(800),
		}
		if err := tx.InsertRegistration(ctx, reg); err != nil {
			return err
		}

		if err := tx.BulkInsertTickets(ctx, []domain.Ticket{{
			ID:             uuid.New(),
			RegistrationID: id,
			TicketTypeID:   tt.ID,
			Holder:         "Bea",
			Code:           "bbbbbbbbbbbbbbbbbbbbbbbb",
		}}); err != nil {
			return err
		}

		exists, err := tx.TicketCodeExists(ctx, "bbbbbbbbbbbbbbbbbbbbbbbb")
		require.NoError(t, err)
		assert.True(t, exists, "staged ticket code must be visible inside the transaction")

		return nil
	})
	require.NoError(t, err)
}
