package macaudio

import (
	"testing"
	"time"

	"github.com/shaban/audioengine/config"
	"github.com/shaban/audioengine/internal/testutil"
)

func TestManualApplierCreatesAtFixedFormat(t *testing.T) {
	graph := testutil.NewFakeManualGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	applier := newManualApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	next := prev
	next.OutputEnabled = true
	next.InputEnabled = true

	if err := applier.Apply(newStateUpdate(prev, next)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if graph.SampleRate != config.ManualSampleRate || graph.ChannelCount != config.ManualChannelCount {
		t.Fatalf("manual graph created at %v/%d, want the fixed manual format", graph.SampleRate, graph.ChannelCount)
	}
	if !graph.OutputConnected || !graph.InputConnected {
		t.Fatal("expected both sides connected")
	}
	if !buffer.IsPlaying() || !buffer.IsRecording() {
		t.Fatal("expected both buffer sides started")
	}
	if !graph.Running {
		t.Fatal("expected the manual graph to be running")
	}

	applier.loop.Stop()
}

func TestManualApplierTearsDownOnFullDisable(t *testing.T) {
	graph := testutil.NewFakeManualGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	applier := newManualApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	next := prev
	next.OutputEnabled = true
	if err := applier.Apply(newStateUpdate(prev, next)); err != nil {
		t.Fatalf("enable Apply: %v", err)
	}

	prev2 := next
	next2 := DefaultEngineState()
	if err := applier.Apply(newStateUpdate(prev2, next2)); err != nil {
		t.Fatalf("disable Apply: %v", err)
	}

	if graph.Running {
		t.Fatal("expected the manual graph to have stopped")
	}
	if applier.loop != nil {
		t.Fatal("expected the render loop to be torn down")
	}
	if buffer.IsPlaying() {
		t.Fatal("expected playout buffer stopped")
	}
}

func TestManualApplierRenderLoopStartsAndStops(t *testing.T) {
	graph := testutil.NewFakeManualGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	applier := newManualApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	next := prev
	next.OutputEnabled = true
	if err := applier.Apply(newStateUpdate(prev, next)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	time.Sleep(35 * time.Millisecond)
	if graph.RenderCalls == 0 {
		t.Fatal("expected the render loop to have rendered at least once")
	}

	applier.loop.Stop()
}
