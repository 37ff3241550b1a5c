// Package testutil provides hardware-free fakes for the collaborator
// interfaces the engine depends on (DeviceGraph, ManualGraph, PCMBuffer,
// Observer), so the appliers and the state-transition driver can be
// exercised without a real AVAudioEngine.
package testutil

import (
	"errors"
	"sync"
	"time"

	macaudio "github.com/shaban/audioengine"
)

// FakeDeviceGraph is a hardware-free macaudio.DeviceGraph: Create/Release
// just flip a flag, hardware formats are fixed values a test can override,
// and Connect/Disconnect calls are recorded for assertions.
type FakeDeviceGraph struct {
	mu sync.Mutex

	Created bool
	Running bool

	OutputFormat    macaudio.HardwareFormat
	InputFormat     macaudio.HardwareFormat
	OutputConnected bool
	InputConnected  bool

	OutputDeviceID string
	InputDeviceID  string

	VoiceProcessingEnabled    bool
	VoiceProcessingInputMuted bool
	VoiceProcessingBypassed   bool
	VoiceProcessingAGCEnabled bool
	AdvancedDuckingEnabled    bool
	AdvancedDuckingLevel      int
	InputMixerMuted           bool

	ConfigurationChangeHandler func()

	// Injected failures, checked at the start of the matching method.
	FailCreate        error
	FailOutputFormat  error
	FailInputFormat   error
	FailConnectOutput error
	FailConnectInput  error
	FailStart         error
	FailStartForTries int // Start fails this many times before succeeding
	startAttempts     int
}

func NewFakeDeviceGraph() *FakeDeviceGraph {
	return &FakeDeviceGraph{
		OutputFormat: macaudio.HardwareFormat{SampleRate: 48000, ChannelCount: 2},
		InputFormat:  macaudio.HardwareFormat{SampleRate: 48000, ChannelCount: 1},
	}
}

func (g *FakeDeviceGraph) Create() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.FailCreate != nil {
		return g.FailCreate
	}
	g.Created = true
	return nil
}

func (g *FakeDeviceGraph) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Created = false
	g.Running = false
	g.OutputConnected = false
	g.InputConnected = false
	return nil
}

func (g *FakeDeviceGraph) OutputHardwareFormat() (macaudio.HardwareFormat, error) {
	if g.FailOutputFormat != nil {
		return macaudio.HardwareFormat{}, g.FailOutputFormat
	}
	return g.OutputFormat, nil
}

func (g *FakeDeviceGraph) InputHardwareFormat() (macaudio.HardwareFormat, error) {
	if g.FailInputFormat != nil {
		return macaudio.HardwareFormat{}, g.FailInputFormat
	}
	return g.InputFormat, nil
}

func (g *FakeDeviceGraph) SetPreferredOutputDevice(uid string) error {
	g.OutputDeviceID = uid
	return nil
}

func (g *FakeDeviceGraph) SetPreferredInputDevice(uid string) error {
	g.InputDeviceID = uid
	return nil
}

func (g *FakeDeviceGraph) SetInputVoiceProcessingEnabled(enabled bool) error {
	g.VoiceProcessingEnabled = enabled
	return nil
}

func (g *FakeDeviceGraph) SetVoiceProcessingBypassed(bypassed bool) error {
	g.VoiceProcessingBypassed = bypassed
	return nil
}

func (g *FakeDeviceGraph) SetVoiceProcessingAGCEnabled(enabled bool) error {
	g.VoiceProcessingAGCEnabled = enabled
	return nil
}

func (g *FakeDeviceGraph) SetVoiceProcessingInputMuted(muted bool) error {
	g.VoiceProcessingInputMuted = muted
	return nil
}

func (g *FakeDeviceGraph) SetAdvancedDucking(enabled bool, level int) error {
	g.AdvancedDuckingEnabled = enabled
	g.AdvancedDuckingLevel = level
	return nil
}

func (g *FakeDeviceGraph) ConnectOutput(format macaudio.HardwareFormat, pull func(int) ([]int16, error)) error {
	if g.FailConnectOutput != nil {
		return g.FailConnectOutput
	}
	g.OutputConnected = true
	return nil
}

func (g *FakeDeviceGraph) DisconnectOutput() error {
	g.OutputConnected = false
	return nil
}

func (g *FakeDeviceGraph) ConnectInput(format macaudio.HardwareFormat, deliver func([]int16, time.Duration) error) error {
	if g.FailConnectInput != nil {
		return g.FailConnectInput
	}
	g.InputConnected = true
	return nil
}

func (g *FakeDeviceGraph) DisconnectInput() error {
	g.InputConnected = false
	return nil
}

func (g *FakeDeviceGraph) SetInputMixerMuted(muted bool) error {
	g.InputMixerMuted = muted
	return nil
}

func (g *FakeDeviceGraph) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.startAttempts < g.FailStartForTries {
		g.startAttempts++
		return errors.New("transient start failure")
	}
	if g.FailStart != nil {
		return g.FailStart
	}
	g.Running = true
	return nil
}

func (g *FakeDeviceGraph) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Running = false
}

func (g *FakeDeviceGraph) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Running
}

func (g *FakeDeviceGraph) OnConfigurationChange(handler func()) {
	g.ConfigurationChangeHandler = handler
}

// FakeManualGraph is a hardware-free macaudio.ManualGraph: Render just
// hands back silence for the requested frame count.
type FakeManualGraph struct {
	mu sync.Mutex

	Created bool
	Running bool

	SampleRate    float64
	ChannelCount  int
	MaxFrameCount int

	OutputConnected bool
	InputConnected  bool

	VoiceProcessingEnabled    bool
	VoiceProcessingInputMuted bool
	InputMixerMuted           bool

	RenderCalls int
}

func NewFakeManualGraph() *FakeManualGraph { return &FakeManualGraph{} }

func (g *FakeManualGraph) Create(sampleRate float64, channelCount, maxFrameCount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Created = true
	g.SampleRate, g.ChannelCount, g.MaxFrameCount = sampleRate, channelCount, maxFrameCount
	return nil
}

func (g *FakeManualGraph) Release() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Created = false
	g.Running = false
	g.OutputConnected = false
	g.InputConnected = false
	return nil
}

func (g *FakeManualGraph) ConnectOutput(pull func(int) ([]int16, error)) error {
	g.OutputConnected = true
	return nil
}

func (g *FakeManualGraph) DisconnectOutput() error {
	g.OutputConnected = false
	return nil
}

func (g *FakeManualGraph) ConnectInput(deliver func([]int16, int64) error) error {
	g.InputConnected = true
	return nil
}

func (g *FakeManualGraph) DisconnectInput() error {
	g.InputConnected = false
	return nil
}

func (g *FakeManualGraph) SetInputVoiceProcessingEnabled(enabled bool) error {
	g.VoiceProcessingEnabled = enabled
	return nil
}

func (g *FakeManualGraph) SetVoiceProcessingInputMuted(muted bool) error {
	g.VoiceProcessingInputMuted = muted
	return nil
}

func (g *FakeManualGraph) SetInputMixerMuted(muted bool) error {
	g.InputMixerMuted = muted
	return nil
}

func (g *FakeManualGraph) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Running = true
	return nil
}

func (g *FakeManualGraph) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Running = false
}

func (g *FakeManualGraph) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.Running
}

func (g *FakeManualGraph) Render(frameCount int) (int, error) {
	g.mu.Lock()
	g.RenderCalls++
	g.mu.Unlock()
	return frameCount, nil
}

// FakePCMBuffer records every lifecycle call so applier tests can assert
// ordering and invariants (playing/recording flags must track
// IsOutputEnabled/IsInputEnabled).
type FakePCMBuffer struct {
	mu sync.Mutex

	playing   bool
	recording bool

	PlayoutSampleRate   int
	PlayoutChannels     int
	RecordingSampleRate int
	RecordingChannels   int

	Calls []string
}

func NewFakePCMBuffer() *FakePCMBuffer { return &FakePCMBuffer{} }

func (b *FakePCMBuffer) record(call string) {
	b.Calls = append(b.Calls, call)
}

func (b *FakePCMBuffer) SetPlayoutFormat(sampleRate, channels int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetPlayoutFormat")
	b.PlayoutSampleRate, b.PlayoutChannels = sampleRate, channels
	return nil
}

func (b *FakePCMBuffer) SetRecordingFormat(sampleRate, channels int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("SetRecordingFormat")
	b.RecordingSampleRate, b.RecordingChannels = sampleRate, channels
	return nil
}

func (b *FakePCMBuffer) ResetPlayout() error {
	b.record("ResetPlayout")
	return nil
}

func (b *FakePCMBuffer) ResetRecording() error {
	b.record("ResetRecording")
	return nil
}

func (b *FakePCMBuffer) StartPlayout() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("StartPlayout")
	b.playing = true
	return nil
}

func (b *FakePCMBuffer) StopPlayout() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("StopPlayout")
	b.playing = false
	return nil
}

func (b *FakePCMBuffer) IsPlaying() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.playing
}

func (b *FakePCMBuffer) StartRecording() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("StartRecording")
	b.recording = true
	return nil
}

func (b *FakePCMBuffer) StopRecording() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("StopRecording")
	b.recording = false
	return nil
}

func (b *FakePCMBuffer) IsRecording() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recording
}

func (b *FakePCMBuffer) GetPlayoutData(frames int) ([]int16, error) {
	return make([]int16, frames), nil
}

func (b *FakePCMBuffer) DeliverRecordedData(samples []int16, capturedAt time.Duration) error {
	return nil
}

// FakeObserver records every callback invocation; set Reject* to force a
// specific hook to fail, exercising the appliers' rollback paths.
type FakeObserver struct {
	mu sync.Mutex

	Calls []string

	RejectOnEngineDidCreate         error
	RejectOnEngineWillEnable        error
	RejectOnEngineWillStart         error
	RejectOnEngineDidStop           error
	RejectOnEngineDidDisable        error
	RejectOnEngineWillRelease       error
	RejectOnEngineWillConnectInput  error
	RejectOnEngineWillConnectOutput error
}

func NewFakeObserver() *FakeObserver { return &FakeObserver{} }

func (o *FakeObserver) record(call string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Calls = append(o.Calls, call)
}

func (o *FakeObserver) OnDevicesUpdated()                  { o.record("OnDevicesUpdated") }
func (o *FakeObserver) OnSpeechActivityEvent(started bool) { o.record("OnSpeechActivityEvent") }

func (o *FakeObserver) OnEngineDidCreate() error {
	o.record("OnEngineDidCreate")
	return o.RejectOnEngineDidCreate
}

func (o *FakeObserver) OnEngineWillEnable(playoutEnabled, recordingEnabled bool) error {
	o.record("OnEngineWillEnable")
	return o.RejectOnEngineWillEnable
}

func (o *FakeObserver) OnEngineWillStart(playoutEnabled, recordingEnabled bool) error {
	o.record("OnEngineWillStart")
	return o.RejectOnEngineWillStart
}

func (o *FakeObserver) OnEngineDidStop(playoutEnabled, recordingEnabled bool) error {
	o.record("OnEngineDidStop")
	return o.RejectOnEngineDidStop
}

func (o *FakeObserver) OnEngineDidDisable(playoutEnabled, recordingEnabled bool) error {
	o.record("OnEngineDidDisable")
	return o.RejectOnEngineDidDisable
}

func (o *FakeObserver) OnEngineWillRelease() error {
	o.record("OnEngineWillRelease")
	return o.RejectOnEngineWillRelease
}

func (o *FakeObserver) OnEngineWillConnectInput(ctx macaudio.ConnectContext) error {
	o.record("OnEngineWillConnectInput")
	return o.RejectOnEngineWillConnectInput
}

func (o *FakeObserver) OnEngineWillConnectOutput(ctx macaudio.ConnectContext) error {
	o.record("OnEngineWillConnectOutput")
	return o.RejectOnEngineWillConnectOutput
}

var (
	_ macaudio.DeviceGraph = (*FakeDeviceGraph)(nil)
	_ macaudio.ManualGraph = (*FakeManualGraph)(nil)
	_ macaudio.PCMBuffer   = (*FakePCMBuffer)(nil)
	_ macaudio.Observer    = (*FakeObserver)(nil)
)
