package config

import "testing"

func TestResolveAppliesDefaults(t *testing.T) {
	got := Resolve(AudioSpec{})

	if got.SampleRate != 48000 {
		t.Fatalf("SampleRate = %v, want 48000 default", got.SampleRate)
	}
	if got.ChannelCount != 2 {
		t.Fatalf("ChannelCount = %d, want 2 default", got.ChannelCount)
	}
	if got.BitDepth != 32 {
		t.Fatalf("BitDepth = %d, want 32 default", got.BitDepth)
	}
	if got.BufferSize != 256 {
		t.Fatalf("BufferSize = %d, want 256 for medium latency default", got.BufferSize)
	}
}

func TestResolveExplicitBufferSizeOverridesLatencyHint(t *testing.T) {
	got := Resolve(AudioSpec{LatencyHint: LatencyLow, BufferSize: 2048})
	if got.BufferSize != 2048 {
		t.Fatalf("BufferSize = %d, want explicit 2048 to win over LatencyLow", got.BufferSize)
	}
}

func TestResolveLatencyClassMapping(t *testing.T) {
	cases := []struct {
		rate float64
		hint LatencyClass
		want int
	}{
		{44100, LatencyLow, 64},
		{96000, LatencyLow, 128},
		{48000, LatencyMedium, 256},
		{48000, LatencyHigh, 1024},
	}
	for _, c := range cases {
		got := Resolve(AudioSpec{PreferredSampleRate: c.rate, LatencyHint: c.hint})
		if got.BufferSize != c.want {
			t.Errorf("Resolve(rate=%v, hint=%v).BufferSize = %d, want %d", c.rate, c.hint, got.BufferSize, c.want)
		}
	}
}

func TestResolvePreservesNonDefaultPreferredSampleRate(t *testing.T) {
	got := Resolve(AudioSpec{PreferredSampleRate: 44100})
	if got.SampleRate != 44100 {
		t.Fatalf("SampleRate = %v, want preserved 44100", got.SampleRate)
	}
}

func TestManualRenderFormatConstants(t *testing.T) {
	if ManualSampleRate != 48000 || ManualBitDepth != 16 || ManualChannelCount != 1 {
		t.Fatal("manual rendering mode format constants must stay fixed at Int16/48kHz/mono")
	}
}
