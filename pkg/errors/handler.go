package errors

import (
	"sync"
	"time"
)

var (
	// DefaultHandler is the global error handler.
	// It defaults to LogHandler with verbose=false.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler configures the global error handler.
// Pass nil to restore the default LogHandler.
func SetHandler(h ErrorHandler) {
	handlerMu.Lock()
	defer handlerMu.Unlock()
	if h == nil {
		DefaultHandler = &LogHandler{}
	} else {
		DefaultHandler = h
	}
}

// getHandler returns the current error handler.
func getHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// Or returns h, or the global handler when h is nil. Components that accept
// an optional handler resolve it with Or at report time.
func Or(h ErrorHandler) ErrorHandler {
	if h != nil {
		return h
	}
	return getHandler()
}

// Warn sends a warning to h, or to the global handler when h is nil.
// If err.Timestamp is zero, it is set to the current time.
func Warn(h ErrorHandler, err *NotifyError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h = Or(h); h != nil {
		h.HandleWarning(err)
	}
}

// Report sends an error to h, or to the global handler when h is nil.
// If err.Timestamp is zero, it is set to the current time.
func Report(h ErrorHandler, err *NotifyError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	if h = Or(h); h != nil {
		h.HandleError(err)
	}
}

// Entry is one report captured by a Recorder.
type Entry struct {
	Severity Severity
	Err      *NotifyError
}

// Recorder is an ErrorHandler that keeps every report in memory.
// It is meant for tests and for callers that summarize reports after a run.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// HandleWarning records a warning.
func (r *Recorder) HandleWarning(err *NotifyError) {
	r.add(SeverityWarning, err)
}

// HandleError records an error.
func (r *Recorder) HandleError(err *NotifyError) {
	r.add(SeverityError, err)
}

func (r *Recorder) add(s Severity, err *NotifyError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Severity: s, Err: err})
}

// Entries returns a copy of all recorded reports.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many reports of the given severity and kind were recorded.
func (r *Recorder) Count(s Severity, kind ErrorKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Severity == s && e.Err.Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops all recorded reports.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
}
