// Package errors provides structured warning and error reporting for notifykit.
//
// Nothing in the settings store or the build patcher is fatal: recoverable
// conditions are reported to an ErrorHandler and the operation continues.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }

// New returns an error that formats as the given text.
func New(text string) error { return stderrors.New(text) }

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindTypeMismatch indicates a stored value whose type disagrees with
	// the setting definition.
	KindTypeMismatch
	// KindPermission indicates the settings file could not be made writable.
	KindPermission
	// KindNotFound indicates a missing drawable resource or build artifact.
	KindNotFound
	// KindValidation indicates a drawable resource failed export validation.
	KindValidation
	// KindPatch indicates a build artifact could not be patched.
	KindPatch
	// KindIO indicates a read or write failure.
	KindIO
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type-mismatch"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not-found"
	case KindValidation:
		return "validation"
	case KindPatch:
		return "patch"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Severity tells a handler how loudly to surface a report.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// NotifyError represents a structured error in notifykit.
type NotifyError struct {
	// Op is the operation that failed (e.g., "settings.Save").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Key is the setting key, drawable id or file path involved, if any.
	Key string
	// Err is the underlying error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *NotifyError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s [%s] key=%s: %v", e.Op, e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *NotifyError) Unwrap() error {
	return e.Err
}

// TypeMismatchError describes a persisted value of the wrong kind.
type TypeMismatchError struct {
	// Key is the setting key.
	Key string
	// Expected is the kind declared by the setting definition.
	Expected string
	// Got is the kind found on disk.
	Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("failed loading %s: expected %s, got %s", e.Key, e.Expected, e.Got)
}

// ErrorHandler receives reports from notifykit components.
type ErrorHandler interface {
	// HandleWarning is called for recoverable conditions.
	HandleWarning(err *NotifyError)
	// HandleError is called for failures that skipped work.
	HandleError(err *NotifyError)
}
