package macaudio

import (
	"fmt"

	"github.com/shaban/audioengine/internal/enginelog"
)

// ErrorHandler defines the interface for handling engine errors that don't
// abort the transition in progress (detach-not-attached, config-change
// noise, device-monitor scan failures). Errors that DO abort a transition
// are returned from ModifyEngineState directly, never routed here.
type ErrorHandler interface {
	HandleError(error)
}

// DefaultErrorHandler logs through enginelog at warn level.
type DefaultErrorHandler struct {
	Logger enginelog.Logger
}

// HandleError implements ErrorHandler interface with basic logging
func (h *DefaultErrorHandler) HandleError(err error) {
	logger := h.Logger
	if logger == nil {
		logger = enginelog.New(false)
	}
	logger.Warnf("engine error: %v", err)
}

// LoggingErrorHandler wraps another handler and logs errors
type LoggingErrorHandler struct {
	underlying ErrorHandler
	logger     func(error)
}

// NewLoggingErrorHandler creates a new logging error handler
func NewLoggingErrorHandler(underlying ErrorHandler, logger func(error)) *LoggingErrorHandler {
	return &LoggingErrorHandler{
		underlying: underlying,
		logger:     logger,
	}
}

// HandleError implements ErrorHandler interface with logging
func (h *LoggingErrorHandler) HandleError(err error) {
	if h.logger != nil {
		h.logger(err)
	}
	if h.underlying != nil {
		h.underlying.HandleError(err)
	}
}

// PanicErrorHandler panics on any error (useful for development)
type PanicErrorHandler struct{}

// HandleError implements ErrorHandler interface by panicking
func (h *PanicErrorHandler) HandleError(err error) {
	panic(fmt.Sprintf("Engine error: %v", err))
}
