package megalodon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotImplemented is returned when the target platform has no equivalent of the requested operation.
	ErrNotImplemented = errors.New("not implemented on this platform")

	// ErrNoNativeEquivalent is returned when a unified value cannot be expressed in a platform's vocabulary.
	ErrNoNativeEquivalent = errors.New("no native equivalent")

	ErrUnsupportedProxyProtocol = errors.New("unsupported proxy protocol")
)

type UnknownNotificationTypeError struct {
	Platform SNS
	Type     string
}

func (e *UnknownNotificationTypeError) Error() string {
	return fmt.Sprintf("%s: unknown notification type %q", e.Platform, e.Type)
}

// IsUnknownNotificationType reports whether err carries a notification type outside the known mapping.
func IsUnknownNotificationType(err error) bool {
	var target *UnknownNotificationTypeError
	return errors.As(err, &target)
}

// RequestCanceledError is returned by requests aborted through a client's Cancel.
type RequestCanceledError struct {
	Method string
	Path   string
	Err    error
}

func (e *RequestCanceledError) Error() string {
	return fmt.Sprintf("request canceled: %s %s", e.Method, e.Path)
}

func (e *RequestCanceledError) Unwrap() error {
	return e.Err
}

func IsCanceled(err error) bool {
	var target *RequestCanceledError
	return errors.As(err, &target)
}

type ArgumentError struct {
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

func IsArgumentError(err error) bool {
	var target *ArgumentError
	return errors.As(err, &target)
}

// RequireArgument returns an *ArgumentError when value is empty.
func RequireArgument(name, value string) error {
	if value == "" {
		return &ArgumentError{Argument: name, Reason: "is required"}
	}
	return nil
}

// ResponseError describes a non-2xx response from the server.
type ResponseError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server responded with %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server responded with %d", e.StatusCode)
}

// StatusCode extracts the HTTP status from a *ResponseError, or 0.
func StatusCode(err error) int {
	var target *ResponseError
	if errors.As(err, &target) {
		return target.StatusCode
	}
	return 0
}
