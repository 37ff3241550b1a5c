package macaudio

import (
	"testing"
	"time"
)

// TestDefaultDeviceDebounceCollapsesBurst exercises the debounce mechanism in
// isolation (no OS device enumeration involved): a burst of rapid "default
// device changed" notifications must commit exactly one state bump, 500ms
// after the last one in the burst.
func TestDefaultDeviceDebounceCollapsesBurst(t *testing.T) {
	e, _, _, _, _ := newTestEngine(t)
	w := newDeviceWatcher(e)

	for i := 0; i < 5; i++ {
		w.debounceDefaultOutputChange()
		time.Sleep(20 * time.Millisecond)
	}

	if got := e.GetEngineState().DefaultOutputDeviceUpdateCount; got != 0 {
		t.Fatalf("expected no commit yet mid-burst, got count=%d", got)
	}

	time.Sleep(600 * time.Millisecond)

	if got := e.GetEngineState().DefaultOutputDeviceUpdateCount; got != 1 {
		t.Fatalf("expected exactly one committed bump after the debounce settles, got %d", got)
	}
}

func TestDefaultInputDeviceDebounceIsIndependentOfOutput(t *testing.T) {
	e, _, _, _, _ := newTestEngine(t)
	w := newDeviceWatcher(e)

	w.debounceDefaultInputChange()
	time.Sleep(600 * time.Millisecond)

	state := e.GetEngineState()
	if state.DefaultInputDeviceUpdateCount != 1 {
		t.Fatalf("expected input counter to bump once, got %d", state.DefaultInputDeviceUpdateCount)
	}
	if state.DefaultOutputDeviceUpdateCount != 0 {
		t.Fatalf("expected output counter untouched, got %d", state.DefaultOutputDeviceUpdateCount)
	}
}
