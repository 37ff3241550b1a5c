package macaudio

// InterruptionAdapter is the bridge from the out-of-scope OS audio-session collaborator
// (§4.6, §4.7): on this module interruptions are a desktop/no-op
// capability by default, but a host embedding this engine on a platform
// with real session interruptions (e.g. a shared-hardware daemon) can
// drive BeginInterruption/EndInterruption from its own notification
// handler.
type InterruptionAdapter struct {
	engine *Engine
}

// NewInterruptionAdapter binds an adapter to engine; call BeginInterruption
// and EndInterruption from whatever OS notification the host observes.
func NewInterruptionAdapter(engine *Engine) *InterruptionAdapter {
	return &InterruptionAdapter{engine: engine}
}

// BeginInterruption posts is_interrupted=true. The device-mode applier
// reacts by stopping any running engine without touching
// input_enabled/output_enabled (§4.2 tie-break policy), so the same
// committed intent resumes once the interruption ends.
func (a *InterruptionAdapter) BeginInterruption() error {
	return a.engine.SetIsInterrupted(true)
}

// EndInterruption posts is_interrupted=false, letting the applier restart
// the engine under the intent that was already committed.
func (a *InterruptionAdapter) EndInterruption() error {
	return a.engine.SetIsInterrupted(false)
}
