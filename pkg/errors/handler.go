package errors

import (
	"fmt"
	"os"
)

// ErrorHandler receives errors reported by widget code that chooses to log
// rather than propagate.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *Error)
}

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including timestamps.
	Verbose bool
}

// HandleError logs an Error to stderr.
func (h *LogHandler) HandleError(err *Error) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[nebula error] %s [%s]", err.Op, err.Kind)
		if err.Detail != "" {
			fmt.Fprintf(os.Stderr, " %s", err.Detail)
		}
		if err.Err != nil {
			fmt.Fprintf(os.Stderr, ": %v", err.Err)
		}
		fmt.Fprintf(os.Stderr, " at %s\n", err.Timestamp.Format("15:04:05.000"))
		return
	}
	fmt.Fprintf(os.Stderr, "[nebula error] %s\n", err.Error())
}

var defaultHandler ErrorHandler = &LogHandler{}

// SetHandler replaces the process-wide error handler.
// Passing nil restores the default stderr logger.
func SetHandler(h ErrorHandler) {
	if h == nil {
		defaultHandler = &LogHandler{}
		return
	}
	defaultHandler = h
}

// Report sends an error to the process-wide handler.
// Non-structured errors are wrapped as KindUnknown.
func Report(op string, err error) {
	if err == nil {
		return
	}
	structured, ok := err.(*Error)
	if !ok {
		structured = Wrap(op, KindUnknown, err)
	}
	defaultHandler.HandleError(structured)
}
