package macaudio

import (
	"fmt"
	"sync"
	"time"

	"github.com/shaban/audioengine/devices"
	"github.com/shaban/audioengine/internal/midiwatch"
)

// deviceWatcher adapts the teacher's adaptive-polling DeviceMonitor design
// to the three listeners the engine needs (§4.5): device list changes,
// default-output changes, and default-input changes. It polls device
// counts and only re-checks selections, notifies the observer and looks
// for default-device moves when a count changes, like the original
// DeviceMonitor's fast-path/slow-path split - but reacts by posting
// ModifyEngineState transforms instead of firing channel-graph callbacks.
type deviceWatcher struct {
	engine *Engine

	mu        sync.Mutex
	isRunning bool
	quit      chan struct{}
	done      chan struct{}

	baseInterval    time.Duration
	maxInterval     time.Duration
	currentInterval time.Duration
	noChangeCount   int

	lastAudioCount int
	lastMidiCount  int

	// portMidi is a second, independent MIDI device count sourced from
	// portmidi rather than the CoreMIDI binding devices.GetDeviceCounts
	// uses - a hot-plugged virtual port sometimes shows up here a poll
	// cycle before the native count updates, or vice versa.
	portMidi        *midiwatch.Counter
	lastPortMidiCnt int

	lastOutputUID string
	lastInputUID  string

	// debounce generation counters: a new default-device event bumps the
	// counter and schedules a fresh timer; a stale timer checks its
	// captured generation against the current one before firing, the same
	// cancel-and-replace technique the teacher's adaptive polling uses for
	// its recurring cadence, applied here to a one-shot debounce.
	outputGeneration int
	inputGeneration  int
}

func newDeviceWatcher(engine *Engine) *deviceWatcher {
	return &deviceWatcher{
		engine:          engine,
		baseInterval:    50 * time.Millisecond,
		maxInterval:     200 * time.Millisecond,
		currentInterval: 50 * time.Millisecond,
		quit:            make(chan struct{}),
		done:            make(chan struct{}),
		portMidi:        midiwatch.NewCounter(),
	}
}

func (w *deviceWatcher) Start() {
	w.mu.Lock()
	if w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = true
	audioCount, midiCount, err := devices.GetDeviceCounts()
	if err == nil {
		w.lastAudioCount = audioCount
		w.lastMidiCount = midiCount
	}
	w.mu.Unlock()

	go w.run()
}

func (w *deviceWatcher) Stop() {
	w.mu.Lock()
	if !w.isRunning {
		w.mu.Unlock()
		return
	}
	w.isRunning = false
	w.mu.Unlock()

	close(w.quit)
	<-w.done
	w.portMidi.Close()
}

func (w *deviceWatcher) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.currentInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.quit:
			return
		case <-ticker.C:
			w.checkDevices()

			w.mu.Lock()
			interval := w.currentInterval
			w.mu.Unlock()
			ticker.Reset(interval)
		}
	}
}

// checkDevices performs the count-based change detection the teacher uses
// before handling a device-list change.
func (w *deviceWatcher) checkDevices() {
	audioCount, midiCount, err := devices.GetDeviceCounts()
	if err != nil {
		w.engine.errorHandler.HandleError(fmt.Errorf("device count check failed: %w", err))
		return
	}

	// portmidi is a supplementary signal: a failure to poll it (e.g. no MIDI
	// backend available on this host) never blocks the primary CoreMIDI-
	// based check above, it just leaves that half of the detection idle.
	portCount, portChanged := w.lastPortMidiCnt, false
	if n, err := w.portMidi.Count(); err == nil {
		portChanged = n != w.lastPortMidiCnt
		portCount = n
	}

	w.mu.Lock()
	changed := audioCount != w.lastAudioCount || midiCount != w.lastMidiCount || portChanged
	w.lastAudioCount = audioCount
	w.lastMidiCount = midiCount
	w.lastPortMidiCnt = portCount
	if changed {
		w.noChangeCount = 0
		w.currentInterval = w.baseInterval
	} else {
		w.noChangeCount++
		if w.noChangeCount > 10 {
			next := time.Duration(float64(w.currentInterval) * 1.1)
			if next > w.maxInterval {
				next = w.maxInterval
			}
			w.currentInterval = next
		}
	}
	w.mu.Unlock()

	if !changed {
		return
	}

	w.handleDeviceListChanged()
}

// handleDeviceListChanged re-enumerates devices, resets any selection that
// no longer exists back to "default", and fires OnDevicesUpdated, then
// checks whether the current default output/input has moved (§4.5).
func (w *deviceWatcher) handleDeviceListChanged() {
	all, err := devices.GetAudio()
	if err != nil {
		w.engine.errorHandler.HandleError(fmt.Errorf("audio device enumeration failed: %w", err))
		return
	}

	state := w.engine.GetEngineState()

	if state.OutputDeviceID != DeviceDefault && all.ByUID(state.OutputDeviceID) == nil {
		_ = w.engine.SetPlaybackDevice(DeviceDefault)
	}
	if state.InputDeviceID != DeviceDefault && all.ByUID(state.InputDeviceID) == nil {
		_ = w.engine.SetRecordingDevice(DeviceDefault)
	}

	w.engine.observer.OnDevicesUpdated()

	var currentOutputUID, currentInputUID string
	for _, d := range all {
		if d.IsDefaultOutput {
			currentOutputUID = d.UID
		}
		if d.IsDefaultInput {
			currentInputUID = d.UID
		}
	}

	w.mu.Lock()
	outputMoved := currentOutputUID != "" && currentOutputUID != w.lastOutputUID
	inputMoved := currentInputUID != "" && currentInputUID != w.lastInputUID
	w.lastOutputUID = currentOutputUID
	w.lastInputUID = currentInputUID
	w.mu.Unlock()

	if outputMoved {
		w.debounceDefaultOutputChange()
	}
	if inputMoved {
		w.debounceDefaultInputChange()
	}
}

const defaultDeviceDebounce = 500 * time.Millisecond

// debounceDefaultOutputChange/debounceDefaultInputChange cancel any
// pending debounced commit and schedule a new one 500ms out; only the
// generation matching the one captured at schedule time is allowed to
// commit, so a burst of rapid OS notifications collapses to one counter
// bump (§4.5, §5).
func (w *deviceWatcher) debounceDefaultOutputChange() {
	w.mu.Lock()
	w.outputGeneration++
	gen := w.outputGeneration
	w.mu.Unlock()

	time.AfterFunc(defaultDeviceDebounce, func() {
		w.mu.Lock()
		current := w.outputGeneration
		w.mu.Unlock()
		if gen != current {
			return
		}
		_ = w.engine.ModifyEngineState(func(s EngineState) EngineState {
			s.DefaultOutputDeviceUpdateCount++
			return s
		})
	})
}

func (w *deviceWatcher) debounceDefaultInputChange() {
	w.mu.Lock()
	w.inputGeneration++
	gen := w.inputGeneration
	w.mu.Unlock()

	time.AfterFunc(defaultDeviceDebounce, func() {
		w.mu.Lock()
		current := w.inputGeneration
		w.mu.Unlock()
		if gen != current {
			return
		}
		_ = w.engine.ModifyEngineState(func(s EngineState) EngineState {
			s.DefaultInputDeviceUpdateCount++
			return s
		})
	})
}
