package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks. Nothing
// is written before a validation error surfaces.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that
// already exists (idempotency key or ledger-leg key collision). For monetary
// operations this is not a caller-visible failure: the original result is
// replayed instead.
var ErrDuplicate = errors.New("resource already exists")

// ErrInsufficientFunds indicates a withdrawal would take the wallet balance
// negative. Terminal business rejection; retrying without a balance change
// will fail again.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrBelowMinimum indicates a withdrawal net amount under the configured
// minimum.
var ErrBelowMinimum = errors.New("amount below minimum withdrawal")

// ErrExceedsChannelMax indicates a withdrawal net amount over the payout
// channel's cap.
var ErrExceedsChannelMax = errors.New("amount exceeds channel maximum")

// ErrStoreUnavailable indicates an infrastructure failure in the backing
// store. Retryable: the failed transaction was rolled back in full, so no
// partial state is visible.
var ErrStoreUnavailable = errors.New("store unavailable")

// IsRetryable reports whether the caller may retry the operation unchanged
// (with the same idempotency key).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// AppError carries an HTTP-ish status code alongside the wrapped cause, for
// the handler layer to map onto responses.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
