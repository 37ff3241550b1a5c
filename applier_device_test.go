package macaudio

import (
	"testing"
	"time"

	"github.com/shaban/audioengine/internal/testutil"
)

func TestDeviceApplierRollsBackOnConnectOutputFailure(t *testing.T) {
	graph := testutil.NewFakeDeviceGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	graph.FailConnectOutput = errCanned

	applier := newDeviceApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	prev.OutputDeviceID = "previous-device"
	next := prev
	next.OutputDeviceID = "new-device"
	next.OutputEnabled = true

	if !newStateUpdate(prev, next).IsEngineRecreateRequired() {
		t.Fatal("test setup bug: this transition should require a recreate")
	}

	err := applier.Apply(newStateUpdate(prev, next))
	if err == nil {
		t.Fatal("expected ConnectOutput failure to propagate")
	}

	if graph.Created {
		t.Fatal("a failure after Create should unwind the Create() step via Release()")
	}
}

func TestDeviceApplierRollsBackOnConnectInputFailure(t *testing.T) {
	graph := testutil.NewFakeDeviceGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	graph.FailConnectInput = errCanned

	applier := newDeviceApplier(graph, buffer, observer)

	// Pin the output device so the transition forces a recreate (not just a
	// restart), exercising the Create()-then-ConnectOutput-then-ConnectInput
	// rollback chain in full.
	prev := DefaultEngineState()
	prev.OutputDeviceID = "previous-device"
	next := prev
	next.OutputDeviceID = "new-device"
	next.OutputEnabled = true
	next.InputEnabled = true

	if !newStateUpdate(prev, next).IsEngineRecreateRequired() {
		t.Fatal("test setup bug: this transition should require a recreate")
	}

	err := applier.Apply(newStateUpdate(prev, next))
	if err == nil {
		t.Fatal("expected ConnectInput failure to propagate")
	}

	// ConnectOutput ran and succeeded before ConnectInput failed; unwind
	// must reverse both that connection and the engine creation.
	if graph.OutputConnected {
		t.Fatal("a later step's failure should unwind the earlier ConnectOutput")
	}
	if graph.Created {
		t.Fatal("a later step's failure should unwind the Create() step too")
	}
}

func TestDeviceApplierRetriesStartOnTransientFailure(t *testing.T) {
	graph := testutil.NewFakeDeviceGraph()
	graph.FailStartForTries = 3
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()

	applier := newDeviceApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	next := prev
	next.OutputEnabled = true

	if err := applier.Apply(newStateUpdate(prev, next)); err != nil {
		t.Fatalf("expected the retry loop to eventually succeed, got %v", err)
	}
	if !graph.IsRunning() {
		t.Fatal("expected the graph to end up running after retries succeed")
	}
}

func TestDeviceApplierMuteModeSwitch(t *testing.T) {
	graph := testutil.NewFakeDeviceGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	applier := newDeviceApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	prev.InputEnabled = true
	prev.InputRunning = true
	prev.MuteMode = MuteInputMixer

	next := prev
	next.InputMuted = true // muted, via the currently selected mixer-mute strategy

	if err := applier.Apply(newStateUpdate(prev, next)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !graph.InputMixerMuted {
		t.Fatal("expected MuteInputMixer to mute via the input mixer, not voice processing")
	}
	if graph.VoiceProcessingInputMuted {
		t.Fatal("MuteInputMixer must not also set the voice-processing mute flag")
	}
}

// TestMicrophoneMuteWhileVoiceProcessingKeepsInputRunning reproduces the
// concrete failure scenario: input enabled/running with voice processing as
// the mute strategy, then SetMicrophoneMute(true) - input_running stays true
// (voice processing mutes without stopping the node), so the VP-muted flag
// must come from input_muted directly, not from !IsInputRunning().
func TestMicrophoneMuteWhileVoiceProcessingKeepsInputRunning(t *testing.T) {
	graph := testutil.NewFakeDeviceGraph()
	buffer := testutil.NewFakePCMBuffer()
	observer := testutil.NewFakeObserver()
	applier := newDeviceApplier(graph, buffer, observer)

	prev := DefaultEngineState()
	prev.InputEnabled = true
	prev.InputRunning = true
	prev.MuteMode = MuteVoiceProcessing

	next := prev
	next.InputMuted = true

	if !next.IsInputRunning() {
		t.Fatal("test setup bug: voice-processing mute must leave input_running true")
	}

	if err := applier.Apply(newStateUpdate(prev, next)); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !graph.VoiceProcessingInputMuted {
		t.Fatal("expected the VP-muted flag to be set even though input is still running")
	}
}

// TestSpontaneousEngineStopReappliesCommittedState exercises §4.2 step 19:
// an OS-driven stop (route/format change) must be recovered from, not just
// observed - the registered OnConfigurationChange handler should tear the
// graph down and rebuild it from the last committed state.
func TestSpontaneousEngineStopReappliesCommittedState(t *testing.T) {
	e, deviceGraph, _, _, observer := newTestEngine(t)

	if err := e.SetOutputEnabled(true); err != nil {
		t.Fatalf("SetOutputEnabled: %v", err)
	}
	if err := e.SetOutputRunning(true); err != nil {
		t.Fatalf("SetOutputRunning: %v", err)
	}
	if !deviceGraph.IsRunning() {
		t.Fatal("expected the graph to be running before the spontaneous stop")
	}
	if deviceGraph.ConfigurationChangeHandler == nil {
		t.Fatal("expected a configuration-change handler to have been registered")
	}

	deviceGraph.Stop()
	deviceGraph.ConfigurationChangeHandler()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if deviceGraph.IsRunning() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if !deviceGraph.IsRunning() {
		t.Fatal("expected the engine to have been rebuilt and restarted after the spontaneous stop")
	}

	found := false
	for _, call := range observer.Calls {
		if call == "OnEngineDidStop" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected OnEngineDidStop to have been observed for the spontaneous stop")
	}
}
