package generator

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyTopic is returned when the topic is empty or whitespace only.
	ErrEmptyTopic = errors.New("generator: topic is required")

	// ErrEmptyResponse is wrapped in a BackendError when the backend answers
	// without a body.
	ErrEmptyResponse = errors.New("generator: empty response from backend")
)

// ConfigurationError means the generation feature is not usable: no
// credential, or the backend client could not be created.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "generator: configuration: " + e.Reason
}

// BackendError wraps a failed round trip to the generation service.
type BackendError struct {
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generator: backend: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// SchemaError means the backend answered with something other than the
// required object shape.
type SchemaError struct {
	Field string // empty when the body is not an object at all
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("generator: schema: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("generator: schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Outcome labels returned by Kind.
const (
	KindOK            = "ok"
	KindInput         = "input"
	KindConfiguration = "configuration"
	KindBackend       = "backend"
	KindSchema        = "schema"
	KindCanceled      = "canceled"
	KindUnknown       = "unknown"
)

// Kind classifies err into one of the Kind* labels.
func Kind(err error) string {
	var (
		cfgErr     *ConfigurationError
		backendErr *BackendError
		schemaErr  *SchemaError
	)
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrEmptyTopic):
		return KindInput
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &backendErr):
		return KindBackend
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
