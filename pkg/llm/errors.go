package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
)

// Error kinds returned by the generation client. Use errors.Is to test them.
var (
	// ErrGenerationUnavailable means the service could not produce a reply:
	// unreachable, timing out, or answering with an error status.
	ErrGenerationUnavailable = errors.New("generation service unavailable")
	// ErrGenerationMalformed means a reply arrived but failed structural
	// validation (empty body, or content a caller could not parse).
	ErrGenerationMalformed = errors.New("generation response malformed")
)

// Error is a classified generation failure.
type Error struct {
	Kind     error // ErrGenerationUnavailable or ErrGenerationMalformed
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v after %d attempt(s): %v", e.Kind, e.Attempts, e.Err)
}

func (e *Error) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// transientError marks a failure that may succeed on retry.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

func isTransient(err error) bool {
	var transient *transientError
	return errors.As(err, &transient)
}

// malformedError marks a reply that arrived but could not be decoded.
type malformedError struct {
	err error
}

func (e *malformedError) Error() string {
	return e.err.Error()
}

func (e *malformedError) Unwrap() error {
	return e.err
}

func isMalformed(err error) bool {
	var malformed *malformedError
	return errors.As(err, &malformed)
}

// classify wraps err as transient when it looks like a connection problem,
// an attempt timeout, or a 5xx/429 status, and as malformed when a
// successful reply could not be decoded.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var status *statusError
	if errors.As(err, &status) {
		if status.StatusCode >= http.StatusInternalServerError || status.StatusCode == http.StatusTooManyRequests {
			return &transientError{err: err}
		}
		return err
	}
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		netErr    net.Error
	)
	switch {
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return &malformedError{err: err}
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return &transientError{err: err}
	case errors.As(err, &netErr):
		return &transientError{err: err}
	}
	return err
}
