package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingToken  = fmt.Errorf("missing API token")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrDeckEmpty          = fmt.Errorf("card catalogue is empty")
	ErrReadingNotFound    = fmt.Errorf("reading not found")
	ErrUnknownSpread      = fmt.Errorf("unknown spread")

	// Streaming errors
	ErrConnectionFailed = fmt.Errorf("stream connection failed")
	ErrSessionUsed      = fmt.Errorf("session already started")

	// Selection errors
	ErrSelectionLocked     = fmt.Errorf("selection is locked")
	ErrSelectionIncomplete = fmt.Errorf("selection is incomplete")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
