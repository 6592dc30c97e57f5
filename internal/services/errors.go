package services

import "errors"

// Redemption and access errors. Handlers map these onto status codes
// and stable error codes, so user-facing code switches on the value,
// not the message.
var (
	ErrInvalidPhone       = errors.New("invalid phone number format")
	ErrMissingReference   = errors.New("transaction reference is required")
	ErrUnknownTransaction = errors.New("invalid transaction reference")
	ErrTransactionClaimed = errors.New("transaction reference already used by another phone number")
	ErrInsufficientAmount = errors.New("payment amount below the minimum plan")
	ErrAccessExpired      = errors.New("access expired, a new plan is required")
	ErrAccountInactive    = errors.New("account is inactive")
)

// Upload and generation errors.
var (
	ErrNoSource         = errors.New("either a topic or a source file is required")
	ErrFileTooLong      = errors.New("uploaded file is too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
)
