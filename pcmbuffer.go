package macaudio

import "time"

// PCMBuffer is the out-of-scope AudioDeviceBuffer/FineAudioBuffer
// collaborator (§1): the WebRTC-side ring buffer and its 10ms chunker. The
// engine only drives its lifecycle - the buffer itself is internally
// thread-safe for the producer/consumer split (§5) and is never touched
// off the control thread except through this interface's documented calls.
type PCMBuffer interface {
	// SetPlayoutFormat/SetRecordingFormat configure the buffer's internal
	// format ahead of a ResetPlayout/ResetRecording call. sampleRate is the
	// negotiated hardware rate (device mode) or the fixed manual-mode rate.
	SetPlayoutFormat(sampleRate int, channels int) error
	SetRecordingFormat(sampleRate int, channels int) error

	// ResetPlayout/ResetRecording re-arm the FineAudioBuffer chunker after
	// a format change, before the corresponding Start call.
	ResetPlayout() error
	ResetRecording() error

	StartPlayout() error
	StopPlayout() error
	IsPlaying() bool

	StartRecording() error
	StopRecording() error
	IsRecording() bool

	// GetPlayoutData fills frames worth of playout PCM (Int16, mono) for
	// delivery to a render callback or the manual render loop.
	GetPlayoutData(frames int) ([]int16, error)

	// DeliverRecordedData hands frames of captured PCM (Int16, mono) to the
	// buffer, tagged with a capture timestamp derived from a monotonic
	// clock (§4.2 step 10, §4.4).
	DeliverRecordedData(samples []int16, captureTimestamp time.Duration) error
}
