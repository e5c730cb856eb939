package protocol

import "fmt"

// ErrorType represents the category of an encoding failure
type ErrorType int

const (
	// ErrTypeIndexOutOfRange indicates a DataCode index above MaxIndex
	ErrTypeIndexOutOfRange ErrorType = iota
	// ErrTypeMalformedAddress indicates a BSSID or IPv4 string that cannot be parsed
	ErrTypeMalformedAddress
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeIndexOutOfRange:
		return "Index Out Of Range"
	case ErrTypeMalformedAddress:
		return "Malformed Address"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// EncodingError is returned when credentials cannot be turned into packet lengths.
// Encoding errors are always raised before any network activity.
type EncodingError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable detail
	Input   string    // Offending input (address string or index), if any
	Err     error     // Underlying error (if any)
}

// Sentinel values for errors.Is checks. They match any EncodingError of the
// same Type.
var (
	ErrIndexOutOfRange  = &EncodingError{Type: ErrTypeIndexOutOfRange}
	ErrMalformedAddress = &EncodingError{Type: ErrTypeMalformedAddress}
)

// Error implements the error interface
func (e *EncodingError) Error() string {
	msg := e.Type.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Input != "" {
		msg += fmt.Sprintf(" (%q)", e.Input)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *EncodingError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an EncodingError of the same Type.
func (e *EncodingError) Is(target error) bool {
	t, ok := target.(*EncodingError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

func newIndexError(index int) *EncodingError {
	return &EncodingError{
		Type:    ErrTypeIndexOutOfRange,
		Message: fmt.Sprintf("data code index must be 0-%d, got %d", MaxIndex, index),
	}
}

func newAddressError(message, input string, err error) *EncodingError {
	return &EncodingError{
		Type:    ErrTypeMalformedAddress,
		Message: message,
		Input:   input,
		Err:     err,
	}
}
