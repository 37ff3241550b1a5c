// Package midiwatch polls MIDI device presence through portmidi, as a
// cross-check alongside the native CoreMIDI binding devices.GetDeviceCounts
// uses: a hot-plugged virtual MIDI port sometimes surfaces through one API
// a poll cycle before the other.
package midiwatch

import "github.com/rakyll/portmidi"

// Counter lazily initializes portmidi on first use and tears it down on
// Close - cheap to construct, safe to hold for the life of a device watcher.
type Counter struct {
	initialized bool
}

func NewCounter() *Counter { return &Counter{} }

// Count returns the number of MIDI devices portmidi currently reports.
func (c *Counter) Count() (int, error) {
	if !c.initialized {
		if err := portmidi.Initialize(); err != nil {
			return 0, err
		}
		c.initialized = true
	}
	return portmidi.CountDevices(), nil
}

func (c *Counter) Close() {
	if !c.initialized {
		return
	}
	portmidi.Terminate()
	c.initialized = false
}
