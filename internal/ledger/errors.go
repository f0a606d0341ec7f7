package ledger

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/tally/internal/money"
)

// ErrValidation is matched by every input rejection.
var ErrValidation = errors.New("invalid transaction")

var (
	ErrEmptyDescription = fmt.Errorf("%w: empty description", ErrValidation)
	ErrInvalidAmount    = fmt.Errorf("%w: %w (want a positive number)", ErrValidation, money.ErrInvalidAmount)
	ErrEmptyCategory    = fmt.Errorf("%w: empty category", ErrValidation)
	ErrUnknownCategory  = fmt.Errorf("%w: unknown category", ErrValidation)
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrNotFound        = errors.New("transaction not found")
	ErrAmbiguousRef    = errors.New("ambiguous transaction reference")
)
