package macaudio

import (
	"errors"
	"testing"

	"github.com/shaban/audioengine/engineerr"
	"github.com/shaban/audioengine/internal/testutil"
)

var errCanned = errors.New("rejected by test observer")

// newTestEngine wires an Engine to hardware-free fakes and starts only the
// control thread, not the real OS device watcher - these tests exercise the
// state-transition driver and appliers, not device enumeration.
func newTestEngine(t *testing.T) (*Engine, *testutil.FakeDeviceGraph, *testutil.FakeManualGraph, *testutil.FakePCMBuffer, *testutil.FakeObserver) {
	t.Helper()

	deviceGraph := testutil.NewFakeDeviceGraph()
	manualGraph := testutil.NewFakeManualGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()

	e := NewEngine(buffer, observer)
	e.deviceGraph = deviceGraph
	e.manualGraph = manualGraph
	e.deviceApplier = newDeviceApplier(deviceGraph, buffer, observer)
	e.manualApplier = newManualApplier(manualGraph, buffer, observer)
	e.deviceApplier.onSpontaneousStop = e.reconfigureAfterSpontaneousStop

	e.control = newControlThread(e.log)
	e.control.Start()

	t.Cleanup(func() { e.control.Close() })

	return e, deviceGraph, manualGraph, buffer, observer
}

func TestModifyEngineStateNoopReturnsNilWithoutApplying(t *testing.T) {
	e, graph, _, _, _ := newTestEngine(t)

	if err := e.ModifyEngineState(func(s EngineState) EngineState { return s }); err != nil {
		t.Fatalf("no-op transform should not error, got %v", err)
	}
	if graph.Created {
		t.Fatal("a no-op diff must not touch the graph at all")
	}
}

func TestModifyEngineStateRejectsInvalidState(t *testing.T) {
	e, _, _, _, _ := newTestEngine(t)

	err := e.ModifyEngineState(func(s EngineState) EngineState {
		s.OutputRunning = true // OutputEnabled stays false: invariant violation
		return s
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !engineerr.Is(err, engineerr.KindStateTransitionRejected) {
		t.Fatalf("expected KindStateTransitionRejected, got %v", err)
	}

	if e.GetEngineState().OutputRunning {
		t.Fatal("a rejected transition must not be committed")
	}
}

func TestEnableOutputCreatesAndStartsDeviceGraph(t *testing.T) {
	e, graph, _, buffer, observer := newTestEngine(t)

	if err := e.InitPlayout(); err != nil {
		t.Fatalf("InitPlayout: %v", err)
	}
	if err := e.StartPlayout(); err != nil {
		t.Fatalf("StartPlayout: %v", err)
	}

	if !graph.Created {
		t.Fatal("expected the device graph to be created")
	}
	if !graph.OutputConnected {
		t.Fatal("expected the output side to be connected")
	}
	if !graph.IsRunning() {
		t.Fatal("expected the device graph to be running")
	}
	if !buffer.IsPlaying() {
		t.Fatal("expected the playout buffer to have been started")
	}
	if observer.Calls[0] != "OnEngineDidCreate" {
		t.Fatalf("expected OnEngineDidCreate first, got %v", observer.Calls)
	}
}

func TestDisablingBothSidesTearsDownGraphWithoutRestart(t *testing.T) {
	e, graph, _, buffer, _ := newTestEngine(t)

	if err := e.InitAndStartRecording(); err != nil {
		t.Fatalf("InitAndStartRecording: %v", err)
	}
	if !graph.Running {
		t.Fatal("expected graph running after enabling input")
	}

	if err := e.SetInputEnabled(false); err != nil {
		t.Fatalf("SetInputEnabled(false): %v", err)
	}

	if graph.InputConnected {
		t.Fatal("expected input to be disconnected once disabled")
	}
	if buffer.IsRecording() {
		t.Fatal("expected recording buffer to be stopped")
	}
}

func TestObserverRejectionRollsBackGraphCreation(t *testing.T) {
	e, graph, _, _, observer := newTestEngine(t)
	observer.RejectOnEngineDidCreate = errCanned

	err := e.InitPlayout()
	if err == nil {
		t.Fatal("expected error when observer rejects engine creation")
	}
	if !engineerr.Is(err, engineerr.KindObserverRejected) {
		t.Fatalf("expected KindObserverRejected, got %v", err)
	}
	if graph.Created {
		t.Fatal("a rejected OnEngineDidCreate must roll back the Create() call")
	}
	if e.GetEngineState().OutputEnabled {
		t.Fatal("a failed transition must not be committed")
	}
}

func TestChangingOutputDeviceRecreatesRatherThanRestarts(t *testing.T) {
	e, graph, _, _, _ := newTestEngine(t)

	if err := e.InitPlayout(); err != nil {
		t.Fatalf("InitPlayout: %v", err)
	}
	if err := e.StartPlayout(); err != nil {
		t.Fatalf("StartPlayout: %v", err)
	}

	if err := e.SetPlaybackDevice("external-dac"); err != nil {
		t.Fatalf("SetPlaybackDevice: %v", err)
	}

	if graph.OutputDeviceID != "external-dac" {
		t.Fatalf("expected preferred output device to be set, got %q", graph.OutputDeviceID)
	}
	if !graph.IsRunning() {
		t.Fatal("expected the graph to be running again after the device change settles")
	}
}

func TestVoiceProcessingBypassAloneDoesNotReconnectNodes(t *testing.T) {
	e, graph, _, _, _ := newTestEngine(t)

	if err := e.InitPlayout(); err != nil {
		t.Fatalf("InitPlayout: %v", err)
	}
	if err := e.StartPlayout(); err != nil {
		t.Fatalf("StartPlayout: %v", err)
	}

	graph.OutputConnected = false // simulate "already attached, fake doesn't re-verify"
	if err := e.SetVoiceProcessingBypassed(true); err != nil {
		t.Fatalf("SetVoiceProcessingBypassed: %v", err)
	}

	if graph.OutputConnected {
		t.Fatal("a VP-bypass-only diff must not call ConnectOutput again")
	}
	if !graph.VoiceProcessingBypassed {
		t.Fatal("expected the bypass flag to have been applied")
	}
}

func TestInterruptionBeginEndRestartsWithoutRewiring(t *testing.T) {
	e, graph, _, _, _ := newTestEngine(t)

	if err := e.InitPlayout(); err != nil {
		t.Fatalf("InitPlayout: %v", err)
	}
	if err := e.StartPlayout(); err != nil {
		t.Fatalf("StartPlayout: %v", err)
	}

	adapter := NewInterruptionAdapter(e)
	if err := adapter.BeginInterruption(); err != nil {
		t.Fatalf("BeginInterruption: %v", err)
	}
	if graph.IsRunning() {
		t.Fatal("expected the graph to stop during an interruption")
	}

	if err := adapter.EndInterruption(); err != nil {
		t.Fatalf("EndInterruption: %v", err)
	}
	if !graph.IsRunning() {
		t.Fatal("expected the graph to restart once the interruption ends")
	}
}

func TestSwitchingToManualRenderingModeTearsDownDeviceGraph(t *testing.T) {
	e, deviceGraph, manualGraph, _, _ := newTestEngine(t)

	if err := e.InitPlayout(); err != nil {
		t.Fatalf("InitPlayout: %v", err)
	}
	if err := e.StartPlayout(); err != nil {
		t.Fatalf("StartPlayout: %v", err)
	}
	if !deviceGraph.IsRunning() {
		t.Fatal("expected device graph running before the mode switch")
	}

	if err := e.SetManualRenderingMode(true); err != nil {
		t.Fatalf("SetManualRenderingMode(true): %v", err)
	}

	if deviceGraph.IsRunning() {
		t.Fatal("expected the device graph to be stopped after switching to manual mode")
	}
	if !manualGraph.Created {
		t.Fatal("expected the manual graph to have been created")
	}
	if !manualGraph.Running {
		t.Fatal("expected the manual graph to be running")
	}
}

func TestListOutputDevicesPrependsDefaultSlot(t *testing.T) {
	out := descriptorsFrom(nil, nil)
	if len(out) != 1 {
		t.Fatalf("expected exactly the default slot for an empty device list, got %d", len(out))
	}
	if !out[0].IsDefault || out[0].UID != DeviceDefault {
		t.Fatalf("expected a default descriptor first, got %+v", out[0])
	}
}

