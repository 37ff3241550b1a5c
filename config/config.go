// Package config resolves caller-facing audio preferences into the concrete
// specs the avaudio engine and manual render loop need.
package config

import (
	avengine "github.com/shaban/audioengine/avaudio/engine"
)

// LatencyClass is a coarse latency preference that maps to buffer sizes.
type LatencyClass string

const (
	LatencyLow    LatencyClass = "low"    // prioritize minimal latency (smaller buffers)
	LatencyMedium LatencyClass = "medium" // balanced default
	LatencyHigh   LatencyClass = "high"   // prioritize stability (larger buffers)
)

// AudioSpec captures caller-facing audio preferences for device rendering mode.
// Note:
//   - PreferredSampleRate is a target; the actual hardware sample rate may differ.
//   - BufferSize is a hint and overrides LatencyHint when set.
//   - ChannelCount and BitDepth are legacy knobs; the engine always negotiates
//     mono Float32 internally and converts at the graph boundary (§4.2).
type AudioSpec struct {
	PreferredSampleRate float64
	LatencyHint         LatencyClass
	ChannelCount        int
	BitDepth            int
	BufferSize          int
}

// ManualRenderFormat is the fixed format manual rendering mode always uses
// (§4.3): Int16, 48 kHz, mono. It is not resolved from AudioSpec - the manual
// render loop never negotiates with hardware.
const (
	ManualSampleRate     = 48000
	ManualBitDepth       = 16
	ManualChannelCount   = 1
	ManualMaxFrameCount  = 3072
	ManualChunkDivisorHz = 100 // 10ms chunks
)

// mapLatencyToBuffer maps a LatencyClass to a suggested buffer size in frames.
func mapLatencyToBuffer(rate float64, c LatencyClass) int {
	switch c {
	case LatencyLow:
		if rate <= 48000 {
			return 64
		}
		return 128
	case LatencyHigh:
		return 1024
	case LatencyMedium:
		fallthrough
	default:
		return 256
	}
}

// Resolve converts caller-level AudioSpec preferences into a concrete avaudio
// Engine AudioSpec for device rendering mode. It honors an explicit
// BufferSize over LatencyHint and applies sensible defaults when fields are
// unset.
func Resolve(s AudioSpec) avengine.AudioSpec {
	targetRate := s.PreferredSampleRate
	if targetRate <= 0 {
		targetRate = 48000
	}

	buf := s.BufferSize
	if buf <= 0 {
		buf = mapLatencyToBuffer(targetRate, s.LatencyHint)
	}

	ch := s.ChannelCount
	if ch <= 0 {
		ch = 2
	}
	bd := s.BitDepth
	if bd <= 0 {
		bd = 32
	}

	return avengine.AudioSpec{
		SampleRate:   targetRate,
		BufferSize:   buf,
		BitDepth:     bd,
		ChannelCount: ch,
	}
}
