package macaudio

// Observer is the caller-supplied collaborator that may fail a transition
// (§6). It is a plain function-entry interface, not a subclass hierarchy,
// so language bindings across the FFI boundary can implement it as a set of
// call-site hooks. A non-nil error from any "must return nil" hook causes
// the applier to roll back and ModifyEngineState to return that error
// unchanged.
//
// The engine holds its observer by plain reference, not by value; callers
// that need weak-reference semantics across a language boundary (§9) should
// wrap their real observer in an adapter that turns into a no-op once the
// engine side has gone away, rather than relying on this interface to do so.
type Observer interface {
	// OnDevicesUpdated fires after the device-change watcher (§4.5)
	// re-enumerates devices.
	OnDevicesUpdated()

	// OnSpeechActivityEvent fires when the platform's voice-processing
	// muted-talker detector reports a transition.
	OnSpeechActivityEvent(started bool)

	// OnEngineDidCreate fires after the engine object is created (§4.2
	// step 3 / §4.3 step 2).
	OnEngineDidCreate() error

	// OnEngineWillEnable fires before node wiring, once any side is newly
	// enabled, so a mobile host can configure its audio session first.
	OnEngineWillEnable(playoutEnabled, recordingEnabled bool) error

	// OnEngineWillStart fires just before the engine is started.
	OnEngineWillStart(playoutEnabled, recordingEnabled bool) error

	// OnEngineDidStop fires after the engine is stopped.
	OnEngineDidStop(playoutEnabled, recordingEnabled bool) error

	// OnEngineDidDisable fires after node teardown for any side newly
	// disabled.
	OnEngineDidDisable(playoutEnabled, recordingEnabled bool) error

	// OnEngineWillRelease fires before the engine object is dropped.
	OnEngineWillRelease() error

	// OnEngineWillConnectInput fires before the default input-mixer wiring
	// is made; the observer may use ctx to insert nodes between srcNode and
	// dstMixer (e.g. an effect chain) instead of a direct connection.
	OnEngineWillConnectInput(ctx ConnectContext) error

	// OnEngineWillConnectOutput fires before the default output wiring is
	// made.
	OnEngineWillConnectOutput(ctx ConnectContext) error
}

// ConnectContext carries the node-graph context an observer needs to insert
// custom nodes between a source and its default destination (§4.2 steps
// 8/10). SampleRate/ChannelCount describe the format the default connection
// would use if the observer does nothing.
type ConnectContext struct {
	SampleRate   float64
	ChannelCount int
	// Connected is set by the observer to true when it has made its own
	// connection; if false after the callback returns, the applier makes
	// the default connection.
	Connected bool
}

// NoopObserver implements Observer with no-ops returning nil everywhere. It
// is the default when a caller doesn't need to hook any transition, and the
// base embedding point for partial observers in tests.
type NoopObserver struct{}

func (NoopObserver) OnDevicesUpdated()                                        {}
func (NoopObserver) OnSpeechActivityEvent(started bool)                       {}
func (NoopObserver) OnEngineDidCreate() error                                 { return nil }
func (NoopObserver) OnEngineWillEnable(playoutEnabled, recordingEnabled bool) error {
	return nil
}
func (NoopObserver) OnEngineWillStart(playoutEnabled, recordingEnabled bool) error {
	return nil
}
func (NoopObserver) OnEngineDidStop(playoutEnabled, recordingEnabled bool) error {
	return nil
}
func (NoopObserver) OnEngineDidDisable(playoutEnabled, recordingEnabled bool) error {
	return nil
}
func (NoopObserver) OnEngineWillRelease() error                        { return nil }
func (NoopObserver) OnEngineWillConnectInput(ctx ConnectContext) error  { return nil }
func (NoopObserver) OnEngineWillConnectOutput(ctx ConnectContext) error { return nil }
