// Package engineerr defines the engine's error taxonomy. A transition that
// fails validation or an applier step returns one of these, built with New
// (a Kind, the failing step's name and the cause), grouped by subsystem the
// way the distilled specification's
// -1000..-8999 code ranges were grouped.
package engineerr

import "errors"

// Kind classifies an engine error by subsystem for callers that want to
// switch on it without string matching.
type Kind int

const (
	KindInit Kind = iota
	KindDeviceUnavailable
	KindVoiceProcessing
	KindManualRendering
	KindRenderModeMismatch
	KindStateTransitionRejected
	KindStartFailureAfterRetries
	KindObserverRejected
	KindResource
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindDeviceUnavailable:
		return "device_unavailable"
	case KindVoiceProcessing:
		return "voice_processing"
	case KindManualRendering:
		return "manual_rendering"
	case KindRenderModeMismatch:
		return "render_mode_mismatch"
	case KindStateTransitionRejected:
		return "state_transition_rejected"
	case KindStartFailureAfterRetries:
		return "start_failure_after_retries"
	case KindObserverRejected:
		return "observer_rejected"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Error is a kind-tagged, wrappable engine error.
type Error struct {
	Kind Kind
	Op   string // the applier step or setter that produced it
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with a kind and the applier step name that produced it.
func New(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Sentinel errors for conditions that don't wrap an underlying cause.
var (
	ErrPlayoutDeviceUnavailable   = errors.New("playout device not available")
	ErrRecordingDeviceUnavailable = errors.New("recording device not available")
	ErrInputRunningNotEnabled     = errors.New("input_running set without input_enabled")
	ErrOutputRunningNotEnabled    = errors.New("output_running set without output_enabled")
	ErrWrongRenderMode            = errors.New("operation not valid for current render mode")
	ErrObserverRejected           = errors.New("observer rejected transition")
)

// Is reports whether err (or anything it wraps) carries Kind k.
func Is(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}
