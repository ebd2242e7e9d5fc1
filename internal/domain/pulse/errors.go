package pulse

import "errors"

// Pipeline error taxonomy. Components wrap these with fmt.Errorf("...: %w")
// so the message reaching the caller stays readable.
var (
	ErrValidation       = errors.New("validation error")
	ErrEmptyResult      = errors.New("empty result")
	ErrInsufficientData = errors.New("insufficient data")
	ErrModelFit         = errors.New("model fit error")
	ErrTimeout          = errors.New("timeout")
	ErrInternal         = errors.New("internal error")

	ErrNotFound      = errors.New("not found")
	ErrUnknownSource = errors.New("unknown source")
)
