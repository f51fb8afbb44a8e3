package registration

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrCodeGenerationExhausted means the generator could not find a free
	// ticket code within its retry ceiling. The whole creation attempt is
	// aborted; the caller may retry with a fresh reference number.
	ErrCodeGenerationExhausted = errors.New("ticket code generation exhausted")

	// ErrTransactionTimeout means the create transaction exceeded its bound
	// and was rolled back. Nothing partial persisted; safe to retry.
	ErrTransactionTimeout = errors.New("registration transaction timed out")

	// ErrReferenceConflict means the caller-supplied reference number is
	// already taken. The caller must generate a fresh one before retrying.
	ErrReferenceConflict = errors.New("reference number already used")

	// ErrRateLimited means the caller exceeded the creation rate limit.
	// Retry after the window the boundary reports.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError reports a malformed order, field by field. No transaction
// is opened when validation fails.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid order"
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "invalid order: " + strings.Join(parts, "; ")
}
