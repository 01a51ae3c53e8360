package testrail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

const serviceName = "TestRail"

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid testrail configuration")
	// ErrTimeout matches every KindTimeout error via errors.Is
	ErrTimeout = errors.New("request timed out")
	// ErrNetwork matches every KindNetwork error via errors.Is
	ErrNetwork = errors.New("network error")
	// ErrAPI matches every KindAPI error via errors.Is
	ErrAPI = errors.New("testrail API error")
	// ErrGeneric matches every KindGeneric error via errors.Is
	ErrGeneric = errors.New("unexpected error")
)

// Kind discriminates the classified error variants.
type Kind int

const (
	// KindGeneric is anything that is not a transport or HTTP failure
	KindGeneric Kind = iota
	// KindTimeout means the request was aborted because its deadline elapsed
	KindTimeout
	// KindNetwork means no response was received at all
	KindNetwork
	// KindAPI means the service answered with an error status
	KindAPI
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindAPI:
		return "api"
	default:
		return "generic"
	}
}

// Error is a classified error. Exactly one is produced per failing call.
type Error struct {
	Kind    Kind
	Status  int    // HTTP status, KindAPI only
	Message string // human readable reason
	Data    any    // decoded response body, KindAPI only
	Context string // caller supplied prefix, see handleAPIError
	Err     error  // underlying failure
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the underlying failure
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel matching this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAPI:
		return e.Kind == KindAPI
	case ErrGeneric:
		return e.Kind == KindGeneric
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindAPI && e.Status == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication or permission failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindAPI && (e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// IsRateLimited checks if the service rejected the call with 429
func (e *Error) IsRateLimited() bool {
	return e.Kind == KindAPI && e.Status == http.StatusTooManyRequests
}

// FailureKind discriminates the ways a single transport call can fail.
type FailureKind int

const (
	// FailureAborted means the call was cut off by its timeout
	FailureAborted FailureKind = iota + 1
	// FailureNoResponse means the call never got a response
	FailureNoResponse
	// FailureHTTP means a response with a non-2xx status came back
	FailureHTTP
)

// TransportFailure is the raw failure produced by Transport before classification.
type TransportFailure struct {
	Kind   FailureKind
	Status int
	Body   []byte
	Data   any
	Err    error
}

// Error implements the error interface
func (f *TransportFailure) Error() string {
	switch f.Kind {
	case FailureHTTP:
		return fmt.Sprintf("Request failed with status code %d", f.Status)
	default:
		if f.Err != nil {
			return f.Err.Error()
		}
		return "transport failure"
	}
}

// Unwrap returns the underlying transport error, if any
func (f *TransportFailure) Unwrap() error {
	return f.Err
}

// failureFromDoError turns an error returned by http.Client.Do into a TransportFailure.
func failureFromDoError(err error) *TransportFailure {
	if isTimeout(err) {
		return &TransportFailure{Kind: FailureAborted, Err: err}
	}
	return &TransportFailure{Kind: FailureNoResponse, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Classify maps any failure onto exactly one Kind. Already classified errors
// are returned unchanged, so Classify is safe to call more than once.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var failure *TransportFailure
	if !errors.As(err, &failure) {
		return &Error{
			Kind:    KindGeneric,
			Message: "Unexpected error: " + err.Error(),
			Err:     err,
		}
	}

	switch failure.Kind {
	case FailureAborted:
		return &Error{Kind: KindTimeout, Message: "Request timed out", Err: failure}
	case FailureNoResponse:
		return &Error{Kind: KindNetwork, Message: "Network error occurred", Err: failure}
	case FailureHTTP:
		return &Error{
			Kind:    KindAPI,
			Status:  failure.Status,
			Message: statusReason(failure.Status, failureMessage(failure)),
			Data:    failure.Data,
			Err:     failure,
		}
	default:
		return &Error{
			Kind:    KindGeneric,
			Message: "Unexpected error: " + failure.Error(),
			Err:     failure,
		}
	}
}

// failureMessage prefers the service's own "error" field over the generic text.
func failureMessage(f *TransportFailure) string {
	if data, ok := f.Data.(map[string]any); ok {
		if msg, ok := data["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return f.Error()
}

func statusReason(status int, message string) string {
	switch {
	case status == http.StatusBadRequest:
		return "Bad Request: " + message
	case status == http.StatusUnauthorized:
		return "Authentication failed"
	case status == http.StatusForbidden:
		return "Permission denied"
	case status == http.StatusNotFound:
		return "Resource not found"
	case status == http.StatusTooManyRequests:
		return "Rate limit exceeded"
	case status >= http.StatusInternalServerError:
		return serviceName + " server error"
	default:
		return "Unknown error: " + message
	}
}

// handleAPIError classifies err and attaches a contextual prefix. It never
// swallows: a nil err stays nil, everything else comes back as *Error.
func handleAPIError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	classified := Classify(err)
	wrapped := *classified
	wrapped.Context = fmt.Sprintf(format, args...)
	return &wrapped
}
