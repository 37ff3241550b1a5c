package macaudio

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/shaban/audioengine/devices"
	"github.com/shaban/audioengine/engineerr"
	"github.com/shaban/audioengine/internal/devicealias"
	"github.com/shaban/audioengine/internal/enginelog"
)

var errEngineNotInitialized = errors.New("engine not initialized: call Init first")

// Engine is the top-level state machine described by this package: callers
// express intent by mutating an EngineState through ModifyEngineState, and
// the engine translates that intent into AVAudioEngine node-graph
// operations on a dedicated control thread (§2, §5). It owns exactly one
// input side and one output side - there is no channel/mixer graph here,
// that concern lives one layer up from this module.
type Engine struct {
	id   uuid.UUID
	name string

	mu    sync.RWMutex
	state EngineState

	ctx    context.Context
	cancel context.CancelFunc

	log          enginelog.Logger
	errorHandler ErrorHandler
	observer     Observer
	buffer       PCMBuffer

	control *controlThread

	deviceGraph DeviceGraph
	manualGraph ManualGraph

	deviceApplier *deviceApplier
	manualApplier *manualApplier

	watcher *deviceWatcher

	aliases devicealias.Map
}

// NewEngine constructs an Engine bound to buffer (the caller's PCMBuffer
// collaborator) and observer (nil is valid - a NoopObserver is used). The
// engine does nothing platform-visible until Init is called.
func NewEngine(buffer PCMBuffer, observer Observer) *Engine {
	if observer == nil {
		observer = NoopObserver{}
	}
	log := enginelog.New(false)

	e := &Engine{
		id:           uuid.New(),
		state:        DefaultEngineState(),
		log:          log,
		errorHandler: &DefaultErrorHandler{Logger: log},
		observer:     observer,
		buffer:       buffer,
		aliases:      devicealias.Map{},
	}
	e.deviceGraph = newHostDeviceGraph()
	e.manualGraph = newHostManualGraph()
	e.deviceApplier = newDeviceApplier(e.deviceGraph, e.buffer, e.observer)
	e.manualApplier = newManualApplier(e.manualGraph, e.buffer, e.observer)
	e.deviceApplier.onSpontaneousStop = e.reconfigureAfterSpontaneousStop
	return e
}

// ID returns the engine's internal identity, useful for log correlation
// when a host runs more than one engine.
func (e *Engine) ID() uuid.UUID { return e.id }

// SetVerboseLogging toggles debug-level logging, mirroring the teacher's
// package-level verbosity booleans but scoped to this engine instance.
func (e *Engine) SetVerboseLogging(verbose bool) {
	e.log = enginelog.New(verbose)
	e.errorHandler = &DefaultErrorHandler{Logger: e.log}
}

// Init starts the control thread and the device-change watcher (§3.3: the
// watcher is registered for the process lifetime of the engine object).
// EngineState starts at its default (everything disabled).
func (e *Engine) Init() error {
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.control = newControlThread(e.log)
	e.control.Start()
	e.watcher = newDeviceWatcher(e)
	e.watcher.Start()
	return nil
}

// Terminate drives the state machine back to "everything disabled" (which
// tears down whichever graph is live), stops the watcher and control
// thread, and cancels the engine's context.
func (e *Engine) Terminate() error {
	var terminateErr error
	if e.control != nil {
		terminateErr = e.ModifyEngineState(func(EngineState) EngineState {
			return DefaultEngineState()
		})
	}
	if e.watcher != nil {
		e.watcher.Stop()
	}
	if e.control != nil {
		e.control.Close()
	}
	if e.cancel != nil {
		e.cancel()
	}
	return terminateErr
}

// ModifyEngineState is the state-transition driver (§4.1): it snapshots the
// committed state, applies transform, validates and diffs the result, and
// dispatches to the matching applier(s) on the control thread. On success
// the new state is committed; on failure the committed state is left
// untouched and the first error is returned unchanged.
func (e *Engine) ModifyEngineState(transform func(EngineState) EngineState) error {
	if e.control == nil {
		return engineerr.New(engineerr.KindInit, "modify_engine_state", errEngineNotInitialized)
	}
	return e.control.Do(func(ctx context.Context) error {
		e.mu.RLock()
		prev := e.state
		e.mu.RUnlock()

		next := transform(prev)
		update := newStateUpdate(prev, next)
		if update.HasNoChanges() {
			return nil
		}
		if err := next.Validate(); err != nil {
			return engineerr.New(engineerr.KindStateTransitionRejected, "validate", err)
		}

		var applyErr error
		switch {
		case update.DidEnableManualRenderingMode():
			if err := e.deviceApplier.Apply(newStateUpdate(prev, DefaultEngineState())); err != nil {
				return err
			}
			applyErr = e.manualApplier.Apply(newStateUpdate(DefaultEngineState(), next))
		case update.DidEnableDeviceRenderingMode():
			if err := e.manualApplier.Apply(newStateUpdate(prev, DefaultEngineState())); err != nil {
				return err
			}
			applyErr = e.deviceApplier.Apply(newStateUpdate(DefaultEngineState(), next))
		case next.RenderMode == RenderManual:
			applyErr = e.manualApplier.Apply(update)
		default:
			applyErr = e.deviceApplier.Apply(update)
		}

		if applyErr != nil {
			return applyErr
		}

		e.mu.Lock()
		e.state = next
		e.mu.Unlock()
		return nil
	})
}

// GetEngineState returns a snapshot of the committed state.
func (e *Engine) GetEngineState() EngineState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// reconfigureAfterSpontaneousStop reacts to the engine stopping itself for a
// reason ModifyEngineState never initiated - a route or format change the OS
// made unilaterally (§4.2 step 19). It posts a task that tears the graph
// down to all-off and re-applies the last committed state from scratch, so
// a spontaneous stop is recovered from instead of just observed.
func (e *Engine) reconfigureAfterSpontaneousStop() {
	e.control.Post(func(ctx context.Context) error {
		state := e.GetEngineState()
		if err := e.deviceApplier.Apply(newStateUpdate(state, DefaultEngineState())); err != nil {
			e.errorHandler.HandleError(err)
			return nil
		}
		if err := e.deviceApplier.Apply(newStateUpdate(DefaultEngineState(), state)); err != nil {
			e.errorHandler.HandleError(err)
		}
		return nil
	})
}

// SetEngineState replaces the whole committed state in one transition.
func (e *Engine) SetEngineState(s EngineState) error {
	return e.ModifyEngineState(func(EngineState) EngineState { return s })
}

// IsEngineRunning reports whether either side is currently running.
func (e *Engine) IsEngineRunning() bool {
	return e.GetEngineState().IsAnyRunning()
}

// --- Per-field setters/getters (§3.1, §6 "one setter and getter per state field") ---

func (e *Engine) SetOutputEnabled(enabled bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.OutputEnabled = enabled; return s })
}
func (e *Engine) GetOutputEnabled() bool { return e.GetEngineState().IsOutputEnabled() }

func (e *Engine) SetInputEnabled(enabled bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.InputEnabled = enabled; return s })
}
func (e *Engine) GetInputEnabled() bool { return e.GetEngineState().IsInputEnabled() }

func (e *Engine) SetOutputRunning(running bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.OutputRunning = running; return s })
}
func (e *Engine) GetOutputRunning() bool { return e.GetEngineState().IsOutputRunning() }

func (e *Engine) SetInputRunning(running bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.InputRunning = running; return s })
}
func (e *Engine) GetInputRunning() bool { return e.GetEngineState().IsInputRunning() }

func (e *Engine) SetInputFollowMode(follow bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.InputFollowMode = follow; return s })
}
func (e *Engine) GetInputFollowMode() bool { return e.GetEngineState().InputFollowMode }

func (e *Engine) SetInputEnabledPersistentMode(persistent bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState {
		s.InputEnabledPersistentMode = persistent
		return s
	})
}
func (e *Engine) GetInputEnabledPersistentMode() bool {
	return e.GetEngineState().InputEnabledPersistentMode
}

// SetMicrophoneMute applies mute/unmute via whichever mute_mode is
// currently selected (§4.2 runtime mute updates).
func (e *Engine) SetMicrophoneMute(muted bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.InputMuted = muted; return s })
}
func (e *Engine) GetMicrophoneMute() bool { return e.GetEngineState().InputMuted }

func (e *Engine) SetMuteMode(mode MuteMode) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.MuteMode = mode; return s })
}
func (e *Engine) GetMuteMode() MuteMode { return e.GetEngineState().MuteMode }

// SetManualRenderingMode(true) switches to manual rendering mode; false
// switches back to device rendering mode. §4.1 handles the cross-mode
// shutdown/startup sequencing.
func (e *Engine) SetManualRenderingMode(manual bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState {
		if manual {
			s.RenderMode = RenderManual
		} else {
			s.RenderMode = RenderDevice
		}
		return s
	})
}
func (e *Engine) GetRenderMode() RenderMode { return e.GetEngineState().RenderMode }

func (e *Engine) SetVoiceProcessingEnabled(enabled bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.VoiceProcessingEnabled = enabled; return s })
}
func (e *Engine) GetVoiceProcessingEnabled() bool { return e.GetEngineState().VoiceProcessingEnabled }

func (e *Engine) SetVoiceProcessingBypassed(bypassed bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState {
		s.VoiceProcessingBypassed = bypassed
		return s
	})
}
func (e *Engine) GetVoiceProcessingBypassed() bool { return e.GetEngineState().VoiceProcessingBypassed }

func (e *Engine) SetVoiceProcessingAGCEnabled(enabled bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState {
		s.VoiceProcessingAGCEnabled = enabled
		return s
	})
}
func (e *Engine) GetVoiceProcessingAGCEnabled() bool {
	return e.GetEngineState().VoiceProcessingAGCEnabled
}

func (e *Engine) SetAdvancedDucking(enabled bool, level int) error {
	return e.ModifyEngineState(func(s EngineState) EngineState {
		s.AdvancedDuckingEnabled = enabled
		s.DuckingLevel = level
		return s
	})
}
func (e *Engine) GetAdvancedDucking() (bool, int) {
	s := e.GetEngineState()
	return s.AdvancedDuckingEnabled, s.DuckingLevel
}

func (e *Engine) SetPlaybackDevice(uid string) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.OutputDeviceID = uid; return s })
}
func (e *Engine) GetPlaybackDevice() string { return e.GetEngineState().OutputDeviceID }

func (e *Engine) SetRecordingDevice(uid string) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.InputDeviceID = uid; return s })
}
func (e *Engine) GetRecordingDevice() string { return e.GetEngineState().InputDeviceID }

func (e *Engine) SetIsInterrupted(interrupted bool) error {
	return e.ModifyEngineState(func(s EngineState) EngineState { s.IsInterrupted = interrupted; return s })
}
func (e *Engine) GetIsInterrupted() bool { return e.GetEngineState().IsInterrupted }

// --- Playout/recording convenience wrappers (§6) ---

func (e *Engine) InitPlayout() error  { return e.SetOutputEnabled(true) }
func (e *Engine) StartPlayout() error { return e.SetOutputRunning(true) }
func (e *Engine) StopPlayout() error  { return e.SetOutputRunning(false) }

func (e *Engine) InitRecording() error  { return e.SetInputEnabled(true) }
func (e *Engine) StartRecording() error { return e.SetInputRunning(true) }
func (e *Engine) StopRecording() error  { return e.SetInputRunning(false) }

// InitAndStartRecording enables and runs the input side in a single
// transition, avoiding an intermediate committed state where input is
// enabled but not yet running.
func (e *Engine) InitAndStartRecording() error {
	return e.ModifyEngineState(func(s EngineState) EngineState {
		s.InputEnabled = true
		s.InputRunning = true
		return s
	})
}

// --- Device enumeration (§6: a leading "default" slot followed by concrete devices) ---

// DeviceDescriptor is the enumeration-facing view of a device: just enough
// to populate a picker and pass back into SetPlaybackDevice/SetRecordingDevice.
type DeviceDescriptor struct {
	UID       string
	Name      string
	IsDefault bool
}

func (e *Engine) ListOutputDevices() ([]DeviceDescriptor, error) {
	all, err := devices.GetAudio()
	if err != nil {
		return nil, engineerr.New(engineerr.KindDeviceUnavailable, "list_output_devices", err)
	}
	return descriptorsFrom(all.Outputs(), e.currentAliases()), nil
}

func (e *Engine) ListInputDevices() ([]DeviceDescriptor, error) {
	all, err := devices.GetAudio()
	if err != nil {
		return nil, engineerr.New(engineerr.KindDeviceUnavailable, "list_input_devices", err)
	}
	return descriptorsFrom(all.Inputs(), e.currentAliases()), nil
}

// LoadDeviceAliases reads an optional YAML file of UID-to-alias overrides
// and uses it for every subsequent ListOutputDevices/ListInputDevices call.
// A missing file is not an error; it just disables aliasing.
func (e *Engine) LoadDeviceAliases(path string) error {
	m, err := devicealias.Load(path)
	if err != nil {
		return engineerr.New(engineerr.KindDeviceUnavailable, "load_device_aliases", err)
	}
	e.mu.Lock()
	e.aliases = m
	e.mu.Unlock()
	return nil
}

func (e *Engine) currentAliases() devicealias.Map {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.aliases
}

func descriptorsFrom(devs devices.AudioDevices, aliases devicealias.Map) []DeviceDescriptor {
	out := make([]DeviceDescriptor, 0, len(devs)+1)
	out = append(out, DeviceDescriptor{UID: DeviceDefault, Name: aliases.Resolve(DeviceDefault, "Default"), IsDefault: true})
	for _, d := range devs {
		out = append(out, DeviceDescriptor{UID: d.UID, Name: aliases.Resolve(d.UID, d.Name)})
	}
	return out
}
