package macaudio

import "testing"

func TestHasNoChanges(t *testing.T) {
	s := DefaultEngineState()
	u := newStateUpdate(s, s)
	if !u.HasNoChanges() {
		t.Fatal("identical states should report no changes")
	}

	next := s
	next.OutputEnabled = true
	u = newStateUpdate(s, next)
	if u.HasNoChanges() {
		t.Fatal("a changed field should report changes")
	}
}

func TestRestartVsRecreateClassification(t *testing.T) {
	prev := DefaultEngineState()
	next := prev
	next.OutputEnabled = true

	u := newStateUpdate(prev, next)
	if !u.IsEngineRestartRequired() {
		t.Fatal("enabling output should require a restart")
	}
	if u.IsEngineRecreateRequired() {
		t.Fatal("enabling output alone should not require a recreate")
	}
}

func TestDeviceChangeRequiresRecreate(t *testing.T) {
	prev := DefaultEngineState()
	prev.OutputEnabled = true
	next := prev
	next.OutputDeviceID = "builtin-speakers"

	u := newStateUpdate(prev, next)
	if !u.IsEngineRecreateRequired() {
		t.Fatal("changing the selected output device must require a recreate")
	}
}

func TestDefaultDeviceMoveRequiresRecreateOnlyWhenFollowingDefault(t *testing.T) {
	prev := DefaultEngineState()
	prev.OutputEnabled = true
	next := prev
	next.DefaultOutputDeviceUpdateCount++

	u := newStateUpdate(prev, next)
	if !u.IsEngineRecreateRequired() {
		t.Fatal("a default-device move while following default should require a recreate")
	}

	prev.OutputDeviceID = "pinned-device"
	next = prev
	next.DefaultOutputDeviceUpdateCount++
	u = newStateUpdate(prev, next)
	if u.IsEngineRecreateRequired() {
		t.Fatal("a default-device move while pinned to a specific device should not require a recreate")
	}
}

func TestBothToOutputOnlyRequiresRecreate(t *testing.T) {
	prev := DefaultEngineState()
	prev.OutputEnabled = true
	prev.InputEnabled = true

	next := prev
	next.InputEnabled = false

	u := newStateUpdate(prev, next)
	if !u.IsEngineRecreateRequired() {
		t.Fatal("dropping from both-enabled to output-only should require a recreate")
	}
}

func TestVoiceProcessingToggleRequiresRestartNotRecreate(t *testing.T) {
	prev := DefaultEngineState()
	prev.OutputEnabled = true
	next := prev
	next.VoiceProcessingEnabled = true

	u := newStateUpdate(prev, next)
	if !u.IsEngineRestartRequired() {
		t.Fatal("toggling voice processing should require a restart")
	}
	if u.IsEngineRecreateRequired() {
		t.Fatal("toggling voice processing alone should not require a recreate")
	}
}

func TestInterruptionTransitionPredicates(t *testing.T) {
	prev := DefaultEngineState()
	next := prev
	next.IsInterrupted = true

	u := newStateUpdate(prev, next)
	if !u.DidBeginInterruption() {
		t.Fatal("expected DidBeginInterruption")
	}
	if u.DidEndInterruption() {
		t.Fatal("did not expect DidEndInterruption")
	}
	// An interruption toggle alone touches no audio-graph-shaping field.
	if u.IsEngineRestartRequired() {
		t.Fatal("beginning an interruption alone should not require a restart")
	}
	if u.IsEngineRecreateRequired() {
		t.Fatal("beginning an interruption alone should not require a recreate")
	}

	u2 := newStateUpdate(next, prev)
	if !u2.DidEndInterruption() {
		t.Fatal("expected DidEndInterruption on the reverse transition")
	}
}

func TestRenderModeTransitionPredicates(t *testing.T) {
	prev := DefaultEngineState()
	next := prev
	next.RenderMode = RenderManual

	u := newStateUpdate(prev, next)
	if !u.DidEnableManualRenderingMode() {
		t.Fatal("expected DidEnableManualRenderingMode")
	}
	if u.DidEnableDeviceRenderingMode() {
		t.Fatal("did not expect DidEnableDeviceRenderingMode")
	}

	back := newStateUpdate(next, prev)
	if !back.DidEnableDeviceRenderingMode() {
		t.Fatal("expected DidEnableDeviceRenderingMode on the reverse transition")
	}
}

func TestMuteModeChangeCountsAsGraphUpdate(t *testing.T) {
	prev := DefaultEngineState()
	next := prev
	next.MuteMode = MuteInputMixer

	u := newStateUpdate(prev, next)
	if !u.DidUpdateMuteMode() {
		t.Fatal("expected DidUpdateMuteMode")
	}
	if !u.DidUpdateAudioGraph() {
		t.Fatal("a mute-mode change should count as an audio graph update")
	}
}
