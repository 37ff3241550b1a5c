package macaudio

// EngineStateUpdate is a {prev, next} pair of EngineState exposing the
// predicates the appliers dispatch on (§3.2). It never mutates either side;
// every predicate is computed on access.
type EngineStateUpdate struct {
	Prev EngineState
	Next EngineState
}

func newStateUpdate(prev, next EngineState) EngineStateUpdate {
	return EngineStateUpdate{Prev: prev, Next: next}
}

// HasNoChanges reports whether prev and next are identical.
func (u EngineStateUpdate) HasNoChanges() bool {
	return u.Prev == u.Next
}

func (u EngineStateUpdate) DidEnableOutput() bool {
	return !u.Prev.IsOutputEnabled() && u.Next.IsOutputEnabled()
}

func (u EngineStateUpdate) DidDisableOutput() bool {
	return u.Prev.IsOutputEnabled() && !u.Next.IsOutputEnabled()
}

func (u EngineStateUpdate) DidEnableInput() bool {
	return !u.Prev.IsInputEnabled() && u.Next.IsInputEnabled()
}

func (u EngineStateUpdate) DidDisableInput() bool {
	return u.Prev.IsInputEnabled() && !u.Next.IsInputEnabled()
}

func (u EngineStateUpdate) DidAnyEnable() bool {
	return u.DidEnableOutput() || u.DidEnableInput()
}

func (u EngineStateUpdate) DidAnyDisable() bool {
	return u.DidDisableOutput() || u.DidDisableInput()
}

func (u EngineStateUpdate) DidBeginInterruption() bool {
	return !u.Prev.IsInterrupted && u.Next.IsInterrupted
}

func (u EngineStateUpdate) DidEndInterruption() bool {
	return u.Prev.IsInterrupted && !u.Next.IsInterrupted
}

// DidUpdateAudioGraph reports a change to anything that reshapes node
// wiring but doesn't by itself require tearing down the engine object:
// enable flags (including the effective input enable that a RestartEngine
// mute folds to false), device-follow/persistent-mode flags, mute mode.
func (u EngineStateUpdate) DidUpdateAudioGraph() bool {
	return u.Prev.InputEnabled != u.Next.InputEnabled ||
		u.Prev.IsInputEnabled() != u.Next.IsInputEnabled() ||
		u.Prev.OutputEnabled != u.Next.OutputEnabled ||
		u.Prev.InputFollowMode != u.Next.InputFollowMode ||
		u.Prev.InputEnabledPersistentMode != u.Next.InputEnabledPersistentMode ||
		u.DidUpdateMuteMode()
}

func (u EngineStateUpdate) DidUpdateVoiceProcessingEnabled() bool {
	return u.Prev.VoiceProcessingEnabled != u.Next.VoiceProcessingEnabled
}

func (u EngineStateUpdate) DidUpdateOutputDevice() bool {
	return u.Prev.OutputDeviceID != u.Next.OutputDeviceID
}

func (u EngineStateUpdate) DidUpdateInputDevice() bool {
	return u.Prev.InputDeviceID != u.Next.InputDeviceID
}

func (u EngineStateUpdate) DidUpdateDefaultOutputDevice() bool {
	return u.Prev.DefaultOutputDeviceUpdateCount != u.Next.DefaultOutputDeviceUpdateCount
}

func (u EngineStateUpdate) DidUpdateDefaultInputDevice() bool {
	return u.Prev.DefaultInputDeviceUpdateCount != u.Next.DefaultInputDeviceUpdateCount
}

func (u EngineStateUpdate) DidUpdateMuteMode() bool {
	return u.Prev.MuteMode != u.Next.MuteMode
}

// IsEngineRestartRequired ≡ DidUpdateAudioGraph ∨ DidUpdateVoiceProcessingEnabled.
// The engine must be stopped, the graph re-wired, and the engine restarted,
// but the same engine object is kept.
func (u EngineStateUpdate) IsEngineRestartRequired() bool {
	return u.DidUpdateAudioGraph() || u.DidUpdateVoiceProcessingEnabled()
}

// IsEngineRecreateRequired reports whether the engine object must be
// discarded and rebuilt rather than merely restarted: a device changed, a
// *default* device changed while the current selection is "default", or the
// "output+input both enabled" → "output only enabled" case the platform
// can't reliably handle by dropping input nodes in-place.
func (u EngineStateUpdate) IsEngineRecreateRequired() bool {
	if u.DidUpdateOutputDevice() || u.DidUpdateInputDevice() {
		return true
	}
	if u.Prev.IsOutputDefaultDevice() && u.DidUpdateDefaultOutputDevice() {
		return true
	}
	if u.Prev.IsInputDefaultDevice() && u.DidUpdateDefaultInputDevice() {
		return true
	}
	wasBoth := u.Prev.IsInputEnabled() && u.Prev.IsOutputEnabled()
	isOutputOnly := u.Next.IsOutputEnabled() && !u.Next.IsInputEnabled()
	if wasBoth && isOutputOnly {
		return true
	}
	return false
}

func (u EngineStateUpdate) DidEnableManualRenderingMode() bool {
	return u.Prev.RenderMode != RenderManual && u.Next.RenderMode == RenderManual
}

func (u EngineStateUpdate) DidEnableDeviceRenderingMode() bool {
	return u.Prev.RenderMode != RenderDevice && u.Next.RenderMode == RenderDevice
}
