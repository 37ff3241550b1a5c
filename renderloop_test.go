package macaudio

import (
	"testing"
	"time"

	"github.com/shaban/audioengine/internal/testutil"
)

func TestRenderLoopChunkSizing(t *testing.T) {
	loop := newRenderLoop(testutil.NewFakeManualGraph(), 48000, 3072)
	if loop.framesPerChunk != 480 {
		t.Fatalf("frames_per_chunk = %d, want 480 (48000/100)", loop.framesPerChunk)
	}
	if loop.chunkInterval != 10*time.Millisecond {
		t.Fatalf("chunk_interval = %v, want 10ms", loop.chunkInterval)
	}
}

func TestRenderLoopChunkSizingCapsAtMaxFrameCount(t *testing.T) {
	loop := newRenderLoop(testutil.NewFakeManualGraph(), 480000, 256)
	if loop.framesPerChunk != 256 {
		t.Fatalf("frames_per_chunk = %d, want capped at 256", loop.framesPerChunk)
	}
}

func TestRenderLoopRendersRepeatedlyUntilStopped(t *testing.T) {
	graph := testutil.NewFakeManualGraph()
	loop := newRenderLoop(graph, 48000, 3072)

	loop.Start()
	time.Sleep(55 * time.Millisecond)
	loop.Stop()

	if graph.RenderCalls < 3 {
		t.Fatalf("expected at least a few render calls in 55ms at a 10ms chunk interval, got %d", graph.RenderCalls)
	}

	callsAtStop := graph.RenderCalls
	time.Sleep(30 * time.Millisecond)
	if graph.RenderCalls != callsAtStop {
		t.Fatal("expected no further render calls after Stop returns")
	}
}

func TestFramesToDuration(t *testing.T) {
	d := framesToDuration(48000, 48000)
	if d != time.Second {
		t.Fatalf("48000 frames at 48kHz should be exactly one second, got %v", d)
	}
	if framesToDuration(100, 0) != 0 {
		t.Fatal("a zero sample rate should not divide by zero")
	}
}
