package macaudio

import "github.com/shaban/audioengine/engineerr"

// RenderMode selects whether the engine renders through a real audio device
// or through a caller-driven render loop (§4.3/§4.4).
type RenderMode int

const (
	RenderDevice RenderMode = iota
	RenderManual
)

func (m RenderMode) String() string {
	if m == RenderManual {
		return "manual"
	}
	return "device"
}

// MuteMode selects the mechanism by which input_muted takes effect.
type MuteMode int

const (
	// MuteVoiceProcessing sets a mute flag on the voice-processing input
	// node. The engine keeps running; the platform drops captured audio.
	MuteVoiceProcessing MuteMode = iota
	// MuteRestartEngine tears the input side down entirely while muted -
	// IsInputEnabled folds mute_mode=RestartEngine ∧ input_muted into false.
	MuteRestartEngine
	// MuteInputMixer sets the input mixer's output volume to 0 while muted.
	MuteInputMixer
)

func (m MuteMode) String() string {
	switch m {
	case MuteRestartEngine:
		return "restart_engine"
	case MuteInputMixer:
		return "input_mixer"
	default:
		return "voice_processing"
	}
}

// DeviceDefault is the sentinel device ID meaning "whatever the OS currently
// names the default", following devices.AudioDevice's UID convention rather
// than an integer sentinel.
const DeviceDefault = ""

// EngineState is a plain-data, copyable, equality-comparable record of every
// externally settable knob (§3.1). It carries no methods that mutate it -
// every transition goes through ModifyEngineState, which computes a new
// value and diffs it against the committed one.
type EngineState struct {
	InputEnabled  bool
	InputRunning  bool
	OutputEnabled bool
	OutputRunning bool

	// InputFollowMode: when true AND voice processing is on, enabling
	// input implicitly forces output on as well (the platform ties them).
	InputFollowMode bool

	// InputEnabledPersistentMode keeps the input graph initialised across
	// stop/start cycles.
	InputEnabledPersistentMode bool

	InputMuted    bool
	IsInterrupted bool

	RenderMode RenderMode
	MuteMode   MuteMode

	VoiceProcessingEnabled    bool
	VoiceProcessingBypassed   bool
	VoiceProcessingAGCEnabled bool
	AdvancedDuckingEnabled    bool
	DuckingLevel              int

	// OutputDeviceID/InputDeviceID are device UIDs; DeviceDefault ("") means
	// "system default".
	OutputDeviceID string
	InputDeviceID  string

	// DefaultOutputDeviceUpdateCount/DefaultInputDeviceUpdateCount are
	// monotonically-increasing counters bumped whenever the OS reports the
	// system-default output/input device has changed.
	DefaultOutputDeviceUpdateCount int
	DefaultInputDeviceUpdateCount  int
}

// DefaultEngineState returns the state of an engine with every side
// disabled - used both as the initial committed state and as the "next :=
// default State{}" half of the manual/device rendering-mode switch (§4.1
// step 4).
func DefaultEngineState() EngineState {
	return EngineState{
		InputFollowMode: true,
		RenderMode:      RenderDevice,
		MuteMode:        MuteVoiceProcessing,
	}
}

// IsOutputInputLinked ≡ input_follow_mode ∧ voice_processing_enabled.
func (s EngineState) IsOutputInputLinked() bool {
	return s.InputFollowMode && s.VoiceProcessingEnabled
}

// IsInputEnabled ≡ ¬(mute_mode = RestartEngine ∧ input_muted) ∧
// (input_enabled ∨ input_enabled_persistent_mode).
func (s EngineState) IsInputEnabled() bool {
	if s.MuteMode == MuteRestartEngine && s.InputMuted {
		return false
	}
	return s.InputEnabled || s.InputEnabledPersistentMode
}

// IsOutputEnabled ≡ IsOutputInputLinked ? (IsInputEnabled ∨ output_enabled) : output_enabled.
func (s EngineState) IsOutputEnabled() bool {
	if s.IsOutputInputLinked() {
		return s.IsInputEnabled() || s.OutputEnabled
	}
	return s.OutputEnabled
}

// IsInputRunning ≡ ¬(mute_mode = RestartEngine ∧ input_muted) ∧ input_running.
func (s EngineState) IsInputRunning() bool {
	if s.MuteMode == MuteRestartEngine && s.InputMuted {
		return false
	}
	return s.InputRunning
}

// IsOutputRunning mirrors IsOutputEnabled's linkage for the running flag.
func (s EngineState) IsOutputRunning() bool {
	if s.IsOutputInputLinked() {
		return s.IsInputRunning() || s.OutputRunning
	}
	return s.OutputRunning
}

func (s EngineState) IsAnyEnabled() bool  { return s.IsInputEnabled() || s.IsOutputEnabled() }
func (s EngineState) IsAnyRunning() bool  { return s.IsInputRunning() || s.IsOutputRunning() }
func (s EngineState) IsAllEnabled() bool  { return s.IsInputEnabled() && s.IsOutputEnabled() }
func (s EngineState) IsAllRunning() bool  { return s.IsInputRunning() && s.IsOutputRunning() }

// IsOutputDefaultDevice / IsInputDefaultDevice report whether the selected
// device is the sentinel "default" device.
func (s EngineState) IsOutputDefaultDevice() bool { return s.OutputDeviceID == DeviceDefault }
func (s EngineState) IsInputDefaultDevice() bool  { return s.InputDeviceID == DeviceDefault }

// Validate enforces the invariant that a side cannot be "running" without
// also being "enabled" (§3.1, §4.1 step 3). It is checked before any
// mutation; a violation rejects the whole ModifyEngineState call.
func (s EngineState) Validate() error {
	if s.InputRunning && !s.InputEnabled {
		return engineerr.ErrInputRunningNotEnabled
	}
	if s.OutputRunning && !s.OutputEnabled {
		return engineerr.ErrOutputRunningNotEnabled
	}
	return nil
}
