package errors

import (
	"fmt"
	"io"
	"os"
	"time"
)

// LogHandler is an ErrorHandler that logs reports to stderr.
type LogHandler struct {
	// Verbose enables detailed output including the error kind and time.
	Verbose bool
	// Out overrides the destination. Nil means os.Stderr.
	Out io.Writer
}

func (h *LogHandler) out() io.Writer {
	if h.Out != nil {
		return h.Out
	}
	return os.Stderr
}

// HandleWarning logs a warning.
func (h *LogHandler) HandleWarning(err *NotifyError) {
	h.log(SeverityWarning, err)
}

// HandleError logs an error.
func (h *LogHandler) HandleError(err *NotifyError) {
	h.log(SeverityError, err)
}

func (h *LogHandler) log(s Severity, err *NotifyError) {
	if err == nil {
		return
	}
	w := h.out()
	if h.Verbose {
		fmt.Fprintf(w, "[notifykit %s] %s %s [%s]", s, err.Timestamp.Format(time.RFC3339), err.Op, err.Kind)
		if err.Key != "" {
			fmt.Fprintf(w, " key=%s", err.Key)
		}
		fmt.Fprintf(w, ": %v\n", err.Err)
		return
	}
	fmt.Fprintf(w, "[notifykit %s] %s: %v\n", s, err.Op, err.Err)
}
