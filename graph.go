package macaudio

import "time"

// HardwareFormat describes a negotiated device format (§4.2 steps 4/5): the
// sample rate and channel count the engine picked up from the output/input
// AudioUnit after Create.
type HardwareFormat struct {
	SampleRate   float64
	ChannelCount int
}

// DeviceGraph is the device-rendering-mode collaborator (§4.2): it wraps
// the host AVAudioEngine node graph behind the handful of operations the
// device-mode applier needs, so the applier's sequencing logic can be
// tested without real hardware (internal/testutil carries a fake).
type DeviceGraph interface {
	// Create builds the underlying engine object (§4.2 step 3).
	Create() error
	// Release tears down the engine object (§4.2 step 20).
	Release() error

	OutputHardwareFormat() (HardwareFormat, error)
	InputHardwareFormat() (HardwareFormat, error)

	// SetPreferredOutputDevice/SetPreferredInputDevice bind to a specific
	// hardware device UID; empty restores the system default (§4.2 step 2).
	SetPreferredOutputDevice(uid string) error
	SetPreferredInputDevice(uid string) error

	SetInputVoiceProcessingEnabled(enabled bool) error
	SetVoiceProcessingBypassed(bypassed bool) error
	SetVoiceProcessingAGCEnabled(enabled bool) error
	SetVoiceProcessingInputMuted(muted bool) error
	SetAdvancedDucking(enabled bool, level int) error

	// ConnectOutput attaches a pull-driven source node and connects it to
	// the main mixer at the given hardware format (§4.2 steps 6/8).
	ConnectOutput(format HardwareFormat, pull func(frames int) ([]int16, error)) error
	DisconnectOutput() error

	// ConnectInput attaches a sink node fed from the input node's output
	// bus, delivering captured PCM through deliver (§4.2 steps 9/10).
	ConnectInput(format HardwareFormat, deliver func(samples []int16, capturedAt time.Duration) error) error
	DisconnectInput() error

	// SetInputMixerMuted implements MuteInputMixer by zeroing the input
	// mixer's volume rather than touching VP state (§4.2 step 7 alt).
	SetInputMixerMuted(muted bool) error

	Start() error
	Stop()
	IsRunning() bool

	// OnConfigurationChange registers the handler invoked when the engine
	// stops itself due to a route/format change (§4.2 step 19).
	OnConfigurationChange(handler func())
}
