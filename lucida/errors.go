package lucida

import (
	"fmt"
)

// ErrorType represents the categories of failure a rip can end in
type ErrorType int

const (
	ErrorInvalidURL ErrorType = iota
	ErrorMetadataUnavailable
	ErrorServiceRequest
	ErrorTimeout
	ErrorFilesystem
	ErrorUnknown
)

// String returns the string representation of the error type
func (et ErrorType) String() string {
	switch et {
	case ErrorInvalidURL:
		return "invalid_url"
	case ErrorMetadataUnavailable:
		return "metadata_unavailable"
	case ErrorServiceRequest:
		return "service_request"
	case ErrorTimeout:
		return "timeout"
	case ErrorFilesystem:
		return "filesystem"
	case ErrorUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// RipError represents a structured error raised while ripping a track
type RipError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (re *RipError) Error() string {
	if re.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", re.Type.String(), re.Message, re.Cause)
	}
	return fmt.Sprintf("%s: %s", re.Type.String(), re.Message)
}

// Unwrap returns the underlying cause error
func (re *RipError) Unwrap() error {
	return re.Cause
}

// NewRipError creates a new RipError with the specified type and message
func NewRipError(errorType ErrorType, message string) *RipError {
	return &RipError{
		Type:    errorType,
		Message: message,
	}
}

// NewRipErrorWithCause creates a new RipError with a cause
func NewRipErrorWithCause(errorType ErrorType, message string, cause error) *RipError {
	return &RipError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// IsRipError checks if an error is a RipError and optionally of a specific type
func IsRipError(err error, errorType ...ErrorType) bool {
	if re, ok := err.(*RipError); ok {
		if len(errorType) == 0 {
			return true
		}
		for _, et := range errorType {
			if re.Type == et {
				return true
			}
		}
	}
	return false
}
