package types

import (
	"errors"
	"fmt"
)

// FeedError represents an error in the trade feed system.
type FeedError struct {
	Kind    FeedErrorKind
	Message string
	Wrapped error
}

// FeedErrorKind defines the specific type of feed error.
type FeedErrorKind int

const (
	SymbolNotFoundError FeedErrorKind = iota
	StreamError
	ConfigError
)

// Error implements the error interface for FeedError.
func (e *FeedError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.String(), e.Message, e.Wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
}

// Unwrap exposes the wrapped cause, if any.
func (e *FeedError) Unwrap() error {
	return e.Wrapped
}

// String returns a string representation of the FeedErrorKind.
func (k FeedErrorKind) String() string {
	switch k {
	case SymbolNotFoundError:
		return "Symbol not found"
	case StreamError:
		return "Stream error"
	case ConfigError:
		return "Config error"
	default:
		return "Unknown feed error"
	}
}

// NewSymbolNotFoundError creates a new SymbolNotFoundError for a symbol
// that was never subscribed.
func NewSymbolNotFoundError(symbol string) *FeedError {
	return &FeedError{Kind: SymbolNotFoundError, Message: fmt.Sprintf("no trades found for %s", symbol)}
}

// NewStreamError creates a new StreamError.
func NewStreamError(message string, wrapped error) *FeedError {
	return &FeedError{Kind: StreamError, Message: message, Wrapped: wrapped}
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, wrapped error) *FeedError {
	return &FeedError{Kind: ConfigError, Message: message, Wrapped: wrapped}
}

// IsNotFound reports whether err is a SymbolNotFoundError.
func IsNotFound(err error) bool {
	var fe *FeedError
	return errors.As(err, &fe) && fe.Kind == SymbolNotFoundError
}
