package macaudio

// ManualGraph is the manual-rendering-mode collaborator (§4.3): no hardware
// devices, no device-change watcher, just a fixed-format engine the render
// loop (§4.4) drives by repeatedly calling Render.
type ManualGraph interface {
	// Create builds the engine in manual rendering mode at the fixed
	// manual-mode format (§4.3 step 2).
	Create(sampleRate float64, channelCount, maxFrameCount int) error
	Release() error

	ConnectOutput(pull func(frames int) ([]int16, error)) error
	DisconnectOutput() error

	ConnectInput(deliver func(samples []int16, capturedAtFrame int64) error) error
	DisconnectInput() error

	SetInputVoiceProcessingEnabled(enabled bool) error
	SetVoiceProcessingInputMuted(muted bool) error
	SetInputMixerMuted(muted bool) error

	Start() error
	Stop()
	IsRunning() bool

	// Render drives frameCount frames of the manual render block and
	// returns the number of frames actually produced (§4.4).
	Render(frameCount int) (int, error)
}
