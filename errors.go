package ordersync

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by caller-side gates.
var (
	// ErrNoClient indicates the store was constructed without a network
	// collaborator.
	ErrNoClient = errors.New("ordersync: client is required")
	// ErrNoBase indicates a submission was attempted with no base in the
	// build.
	ErrNoBase = errors.New("ordersync: build has no base")
	// ErrSubmissionInFlight indicates a submission is already pending.
	ErrSubmissionInFlight = errors.New("ordersync: submission already in flight")
)

// RequestError is the distinguished collaborator failure. Message carries the
// human-readable text; Semantic marks a well-formed response that reported
// failure, as opposed to a transport fault.
type RequestError struct {
	Message  string
	Status   int
	Semantic bool
}

func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return "request failed"
}

// OperationError attaches slice and operation metadata to the originating
// error.
type OperationError struct {
	Slice string
	Op    string
	Err   error
}

func (e *OperationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("ordersync: %s/%s: %v", e.Slice, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func opError(slice, op string, err error) error {
	if err == nil {
		return nil
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return err
	}
	return &OperationError{Slice: slice, Op: op, Err: err}
}

// errorMessage picks the user-visible message for a settled failure: the
// collaborator's message when it provides one, the fixed per-operation
// fallback otherwise.
func errorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Message != "" {
			return reqErr.Message
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// Fixed fallback messages for semantic failures that carry no message.
const (
	fallbackCatalogFetch   = "failed to load catalog"
	fallbackOrderSubmit    = "failed to submit order"
	fallbackOrderByNumber  = "failed to load order"
	fallbackOrderHistory   = "failed to load order history"
	fallbackFeedFetch      = "failed to load order feed"
	fallbackLogin          = "failed to sign in"
	fallbackRegister       = "failed to register"
	fallbackUserUpdate     = "failed to update account"
	fallbackLogout         = "failed to sign out"
	fallbackSessionRestore = "failed to restore session"
)
