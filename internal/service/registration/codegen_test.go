package registration

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(code string) (bool, error)

func (f checkerFunc) TicketCodeExists(_ context.Context, code string) (bool, error) {
	return f(code)
}

func TestGenerateTicketCode_Shape(t *testing.T) {
	never := checkerFunc(func(string) (bool, error) { return false, nil })

	code, err := generateTicketCode(context.Background(), never, codeContext{
		registrationID: uuid.New(),
		ticketTypeID:   uuid.New(),
		holder:         "Bea",
	})
	require.NoError(t, err)

	assert.Len(t, code, codeLength)
	assert.Regexp(t, "^[0-9a-f]+$", code)
}

func TestGenerateTicketCode_DistinctPerCall(t *testing.T) {
	never := checkerFunc(func(string) (bool, error) { return false, nil })

	cc := codeContext{
		registrationID: uuid.New(),
		ticketTypeID:   uuid.New(),
		holder:         "Bea",
	}

	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		code, err := generateTicketCode(context.Background(), never, cc)
		require.NoError(t, err)

		_, dup := seen[code]
		require.False(t, dup, "code %q generated twice", code)
		seen[code] = struct{}{}
	}
}

func TestGenerateTicketCode_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	flaky := checkerFunc(func(string) (bool, error) {
		calls++
		return calls < 3, nil
	})

	code, err := generateTicketCode(context.Background(), flaky, codeContext{
		registrationID: uuid.New(),
		ticketTypeID:   uuid.New(),
		holder:         "Bea",
	})
	require.NoError(t, err)
	assert.Len(t, code, codeLength)
	assert.Equal(t, 3, calls)
}

func TestGenerateTicketCode_Exhausted(t *testing.T) {
	calls := 0
	always := checkerFunc(func(string) (bool, error) {
		calls++
		return true, nil
	})

	_, err := generateTicketCode(context.Background(), always, codeContext{
		registrationID: uuid.New(),
		ticketTypeID:   uuid.New(),
		holder:         "Bea",
	})
	require.ErrorIs(t, err, ErrCodeGenerationExhausted)
	assert.Equal(t, maxCodeAttempts, calls)
}

func TestGenerateTicketCode_CheckerError(t *testing.T) {
	boom := errors.New("storage down")
	failing := checkerFunc(func(string) (bool, error) { return false, boom })

	_, err := generateTicketCode(context.Background(), failing, codeContext{
		registrationID: uuid.New(),
		ticketTypeID:   uuid.New(),
		holder:         "Bea",
	})
	require.ErrorIs(t, err, boom)
}
