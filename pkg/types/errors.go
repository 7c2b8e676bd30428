package types

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies failures of a mixing run.
type Kind string

const (
	KindConfiguration Kind = "ConfigurationError"
	KindInput         Kind = "InputError"
	KindFeasibility   Kind = "FeasibilityFailure"
	KindStorage       Kind = "StorageError"
	KindEncoding      Kind = "EncodingError"
)

// Error is the typed error returned by every mixing component.
type Error struct {
	Kind    Kind
	Op      string
	Subject string
	Detail  string
	Err     error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(string(e.Kind))
	if e.Op != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Op)
	}
	if e.Subject != "" {
		fmt.Fprintf(&sb, " (%s)", e.Subject)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func newError(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func ConfigurationError(op, format string, args ...interface{}) error {
	return errors.WithStack(newError(KindConfiguration, op, format, args...))
}

func InputError(op, format string, args ...interface{}) error {
	return errors.WithStack(newError(KindInput, op, format, args...))
}

func StorageError(op string, err error) error {
	return errors.WithStack(&Error{Kind: KindStorage, Op: op, Err: err})
}

func EncodingError(op, subject string, err error) error {
	return errors.WithStack(&Error{Kind: KindEncoding, Op: op, Subject: subject, Err: err})
}

// Infeasible describes a subject whose window cannot satisfy its bounds.
// It is recorded on the clip, never returned from a run.
func Infeasible(subject string, start, end, duration, minDuration, maxDuration int) *Error {
	return &Error{
		Kind:    KindFeasibility,
		Op:      "plan",
		Subject: subject,
		Detail: fmt.Sprintf("start=%d end=%d duration=%d min=%d max=%d",
			start, end, duration, minDuration, maxDuration),
	}
}
