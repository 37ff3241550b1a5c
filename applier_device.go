package macaudio

import (
	"time"

	"github.com/shaban/audioengine/engineerr"
)

// deviceApplier walks the fixed, documented device-rendering-mode sequence
// (§4.2) in response to a state diff. Every step that mutates host state
// pushes its compensating action onto a rollback list; if a later step
// fails, the applier unwinds in reverse before returning the error. Steps
// must not be reordered - later steps assume earlier ones already ran.
type deviceApplier struct {
	graph    DeviceGraph
	buffer   PCMBuffer
	observer Observer

	// onSpontaneousStop, if set, is invoked after OnEngineDidStop fires for
	// a stop the applier didn't initiate itself (§4.2 step 19: a route or
	// format change the OS made unilaterally). It's the hook the owning
	// Engine uses to re-apply its last committed state instead of just
	// sitting stopped.
	onSpontaneousStop func()
}

func newDeviceApplier(graph DeviceGraph, buffer PCMBuffer, observer Observer) *deviceApplier {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &deviceApplier{graph: graph, buffer: buffer, observer: observer}
}

// Apply runs the device-mode sequence for update, returning the first
// non-nil error encountered after unwinding any partial progress.
func (a *deviceApplier) Apply(update EngineStateUpdate) error {
	next := update.Next

	var rollbacks []func()
	push := func(undo func()) { rollbacks = append(rollbacks, undo) }
	unwind := func() {
		for i := len(rollbacks) - 1; i >= 0; i-- {
			rollbacks[i]()
		}
	}
	fail := func(kind engineerr.Kind, op string, err error) error {
		unwind()
		return engineerr.New(kind, op, err)
	}

	recreate := update.IsEngineRecreateRequired()
	restart := update.IsEngineRestartRequired()
	beganInterruption := update.DidBeginInterruption()

	// Step: interruption-begin stops any running engine without touching
	// input_enabled/output_enabled (§4.2 tie-break policy).
	if beganInterruption && a.graph.IsRunning() {
		a.graph.Stop()
	}

	if (recreate || restart) && a.graph.IsRunning() {
		a.graph.Stop()
	}
	if recreate {
		if err := a.graph.Release(); err != nil {
			return fail(engineerr.KindResource, "release_engine", err)
		}
	}

	if !next.IsAnyEnabled() {
		// Both sides disabled: drop any wiring left over from the previous
		// state before returning, so a later restart-only re-enable doesn't
		// find stale nodes still attached.
		_ = a.graph.DisconnectOutput()
		_ = a.graph.DisconnectInput()
		_ = a.buffer.StopPlayout()
		_ = a.buffer.StopRecording()
		return nil
	}

	if recreate || restart {
		_ = a.buffer.StopPlayout()
		_ = a.buffer.StopRecording()
	}

	if recreate {
		if err := a.graph.Create(); err != nil {
			return fail(engineerr.KindInit, "create_engine", err)
		}
		push(func() { _ = a.graph.Release() })

		if err := a.observer.OnEngineDidCreate(); err != nil {
			return fail(engineerr.KindObserverRejected, "on_engine_did_create", err)
		}

		if err := a.graph.SetPreferredOutputDevice(next.OutputDeviceID); err != nil {
			return fail(engineerr.KindDeviceUnavailable, "set_output_device", err)
		}
		if err := a.graph.SetPreferredInputDevice(next.InputDeviceID); err != nil {
			return fail(engineerr.KindDeviceUnavailable, "set_input_device", err)
		}
	}

	if err := a.observer.OnEngineWillEnable(next.IsOutputEnabled(), next.IsInputEnabled()); err != nil {
		return fail(engineerr.KindObserverRejected, "on_engine_will_enable", err)
	}

	// Configure voice processing on the input node ahead of wiring either
	// side, since VP is a property of the shared input node, not a
	// per-connection setting.
	vpEnabled := next.VoiceProcessingEnabled
	if err := a.graph.SetInputVoiceProcessingEnabled(vpEnabled); err != nil {
		return fail(engineerr.KindVoiceProcessing, "set_voice_processing_enabled", err)
	}

	// Node wiring only needs to be redone when the engine object was just
	// (re)created or the graph is being re-wired in place (restart); a
	// diff that leaves the audio graph alone (VP bypass/AGC, ducking,
	// interruption begin/end) must not touch already-attached nodes.
	rewiring := recreate || restart

	if rewiring && (update.DidDisableOutput() || (recreate && !next.IsOutputEnabled())) {
		_ = a.graph.DisconnectOutput()
	}
	if rewiring && next.IsOutputEnabled() {
		if !recreate {
			_ = a.graph.DisconnectOutput()
		}
		hwFormat, err := a.graph.OutputHardwareFormat()
		if err != nil {
			return fail(engineerr.KindDeviceUnavailable, "output_hardware_format", engineerr.ErrPlayoutDeviceUnavailable)
		}

		if err := a.buffer.SetPlayoutFormat(int(hwFormat.SampleRate), hwFormat.ChannelCount); err != nil {
			return fail(engineerr.KindInit, "set_playout_format", err)
		}
		if err := a.buffer.ResetPlayout(); err != nil {
			return fail(engineerr.KindInit, "reset_playout", err)
		}

		ctx := ConnectContext{SampleRate: hwFormat.SampleRate, ChannelCount: hwFormat.ChannelCount}
		if err := a.observer.OnEngineWillConnectOutput(ctx); err != nil {
			return fail(engineerr.KindObserverRejected, "on_engine_will_connect_output", err)
		}
		if !ctx.Connected {
			if err := a.graph.ConnectOutput(hwFormat, a.buffer.GetPlayoutData); err != nil {
				return fail(engineerr.KindInit, "connect_output", err)
			}
			push(func() { _ = a.graph.DisconnectOutput() })
		}
	}

	if rewiring && (update.DidDisableInput() || (recreate && !next.IsInputEnabled())) {
		_ = a.graph.DisconnectInput()
	}
	if rewiring && next.IsInputEnabled() {
		if !recreate {
			_ = a.graph.DisconnectInput()
		}
		hwFormat, err := a.graph.InputHardwareFormat()
		if err != nil {
			return fail(engineerr.KindDeviceUnavailable, "input_hardware_format", engineerr.ErrRecordingDeviceUnavailable)
		}

		if err := a.buffer.SetRecordingFormat(int(hwFormat.SampleRate), hwFormat.ChannelCount); err != nil {
			return fail(engineerr.KindInit, "set_recording_format", err)
		}
		if err := a.buffer.ResetRecording(); err != nil {
			return fail(engineerr.KindInit, "reset_recording", err)
		}

		ctx := ConnectContext{SampleRate: hwFormat.SampleRate, ChannelCount: hwFormat.ChannelCount}
		if err := a.observer.OnEngineWillConnectInput(ctx); err != nil {
			return fail(engineerr.KindObserverRejected, "on_engine_will_connect_input", err)
		}
		if !ctx.Connected {
			deliver := func(samples []int16, capturedAt time.Duration) error {
				return a.buffer.DeliverRecordedData(samples, capturedAt)
			}
			if err := a.graph.ConnectInput(hwFormat, deliver); err != nil {
				return fail(engineerr.KindInit, "connect_input", err)
			}
			push(func() { _ = a.graph.DisconnectInput() })
		}
	}

	if update.DidAnyDisable() {
		if err := a.observer.OnEngineDidDisable(next.IsOutputEnabled(), next.IsInputEnabled()); err != nil {
			return fail(engineerr.KindObserverRejected, "on_engine_did_disable", err)
		}
	}

	// Runtime mute updates: the three mute strategies are mutually
	// exclusive, so only one branch below ever does real work. The runtime
	// mute flag always comes from input_muted directly - IsInputRunning only
	// folds input_muted in for the RestartEngine strategy, where muting is
	// instead achieved by tearing the input side down entirely.
	muted := next.InputMuted
	switch next.MuteMode {
	case MuteVoiceProcessing:
		if err := a.graph.SetVoiceProcessingInputMuted(muted); err != nil {
			return fail(engineerr.KindVoiceProcessing, "set_vp_input_muted", err)
		}
	case MuteInputMixer:
		if err := a.graph.SetInputMixerMuted(muted); err != nil {
			return fail(engineerr.KindVoiceProcessing, "set_input_mixer_muted", err)
		}
	case MuteRestartEngine:
		// Handled by IsEngineRestartRequired already forcing a stop/start
		// cycle above; nothing further to do per-callback.
	}

	if err := a.graph.SetAdvancedDucking(next.AdvancedDuckingEnabled, next.DuckingLevel); err != nil {
		return fail(engineerr.KindVoiceProcessing, "set_advanced_ducking", err)
	}
	if err := a.graph.SetVoiceProcessingBypassed(next.VoiceProcessingBypassed); err != nil {
		return fail(engineerr.KindVoiceProcessing, "set_vp_bypassed", err)
	}
	if err := a.graph.SetVoiceProcessingAGCEnabled(next.VoiceProcessingAGCEnabled); err != nil {
		return fail(engineerr.KindVoiceProcessing, "set_vp_agc_enabled", err)
	}

	if !recreate {
		if err := a.graph.SetPreferredOutputDevice(next.OutputDeviceID); err != nil {
			return fail(engineerr.KindDeviceUnavailable, "set_output_device", err)
		}
		if err := a.graph.SetPreferredInputDevice(next.InputDeviceID); err != nil {
			return fail(engineerr.KindDeviceUnavailable, "set_input_device", err)
		}
	}

	if rewiring && next.IsOutputEnabled() {
		if err := a.buffer.StartPlayout(); err != nil {
			return fail(engineerr.KindInit, "start_playout", err)
		}
	}
	if rewiring && next.IsInputEnabled() {
		if err := a.buffer.StartRecording(); err != nil {
			return fail(engineerr.KindInit, "start_recording", err)
		}
	}

	if !next.IsInterrupted && !a.graph.IsRunning() {
		if err := a.observer.OnEngineWillStart(next.IsOutputEnabled(), next.IsInputEnabled()); err != nil {
			return fail(engineerr.KindObserverRejected, "on_engine_will_start", err)
		}

		var startErr error
		for attempt := 0; attempt < 10; attempt++ {
			if startErr = a.graph.Start(); startErr == nil {
				break
			}
			time.Sleep(100 * time.Millisecond)
		}
		if startErr != nil {
			return fail(engineerr.KindStartFailureAfterRetries, "start_engine", startErr)
		}
		a.graph.OnConfigurationChange(func() {
			_ = a.observer.OnEngineDidStop(next.IsOutputEnabled(), next.IsInputEnabled())
			if a.onSpontaneousStop != nil {
				a.onSpontaneousStop()
			}
		})
	}

	return nil
}
