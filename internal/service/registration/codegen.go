package registration

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirinyoku/reg-go/internal/monitoring"
)

const (
	// codeLength hex characters = 96 bits of entropy. Collisions are
	// astronomically rare; the retry loop is defense in depth, not the
	// primary uniqueness mechanism (that is the unique index on code).
	codeLength      = 24
	maxCodeAttempts = 5
)

// CodeChecker answers whether a candidate code is already taken. Read-only:
// nothing is reserved here, the issuer's bulk insert writes the codes.
// Satisfied by uow.Tx so the check runs inside the creating transaction.
type CodeChecker interface {
	TicketCodeExists(ctx context.Context, code string) (bool, error)
}

type codeContext struct {
	registrationID uuid.UUID
	ticketTypeID   uuid.UUID
	holder         string
	sequence       int
}

// generateTicketCode produces a globally unique, unguessable ticket code:
// SHA-256 over the issuance context plus fresh entropy, truncated to
// codeLength hex characters, re-rolled on collision up to maxCodeAttempts.
func generateTicketCode(ctx context.Context, checker CodeChecker, cc codeContext) (string, error) {
	const op = "registration.generateTicketCode"

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := candidateCode(cc)
		if err != nil {
			return "", fmt.Errorf("%s:%w", op, err)
		}

		exists, err := checker.TicketCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("%s:%w", op, err)
		}

		if !exists {
			return code, nil
		}

		monitoring.CodeCollision()
	}

	return "", fmt.Errorf("%s:%w", op, ErrCodeGenerationExhausted)
}

// candidateCode hashes the issuance context together with three independent
// entropy sources, so two tickets issued in the same nanosecond still get
// distinct inputs.
func candidateCode(cc codeContext) (string, error) {
	token := make([]byte, 8)
	if _, err := rand.Read(token); err != nil {
		return "", err
	}

	input := strings.Join([]string{
		cc.registrationID.String(),
		cc.ticketTypeID.String(),
		cc.holder,
		strconv.Itoa(cc.sequence),
		strconv.FormatInt(time.Now().UnixNano(), 10),
		uuid.NewString(),
		hex.EncodeToString(token),
	}, "-")

	sum := sha256.Sum256([]byte(input))

	return hex.EncodeToString(sum[:])[:codeLength], nil
}
