package macaudio

import (
	"github.com/shaban/audioengine/config"
	"github.com/shaban/audioengine/engineerr"
)

// manualApplier walks the manual-rendering-mode sequence (§4.3): no device
// negotiation, a fixed Int16/48kHz/mono format, and a dedicated render-loop
// goroutine the applier starts and stops instead of real hardware callbacks.
type manualApplier struct {
	graph    ManualGraph
	buffer   PCMBuffer
	observer Observer

	loop *renderLoop
}

func newManualApplier(graph ManualGraph, buffer PCMBuffer, observer Observer) *manualApplier {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &manualApplier{graph: graph, buffer: buffer, observer: observer}
}

func (a *manualApplier) Apply(update EngineStateUpdate) error {
	next := update.Next

	if a.loop != nil {
		a.loop.Stop()
		a.loop = nil
	}
	if a.graph.IsRunning() {
		a.graph.Stop()
	}
	_ = a.graph.DisconnectOutput()
	_ = a.graph.DisconnectInput()
	if err := a.graph.Release(); err != nil {
		return engineerr.New(engineerr.KindResource, "release_manual_engine", err)
	}

	if !next.IsAnyEnabled() {
		_ = a.buffer.StopPlayout()
		_ = a.buffer.StopRecording()
		return nil
	}

	if err := a.graph.Create(config.ManualSampleRate, config.ManualChannelCount, config.ManualMaxFrameCount); err != nil {
		return engineerr.New(engineerr.KindManualRendering, "create_manual_engine", err)
	}
	if err := a.observer.OnEngineDidCreate(); err != nil {
		return engineerr.New(engineerr.KindObserverRejected, "on_engine_did_create", err)
	}

	if err := a.graph.SetInputVoiceProcessingEnabled(next.VoiceProcessingEnabled); err != nil {
		return engineerr.New(engineerr.KindVoiceProcessing, "set_voice_processing_enabled", err)
	}

	if err := a.observer.OnEngineWillEnable(next.IsOutputEnabled(), next.IsInputEnabled()); err != nil {
		return engineerr.New(engineerr.KindObserverRejected, "on_engine_will_enable", err)
	}

	if next.IsOutputEnabled() {
		if err := a.buffer.SetPlayoutFormat(config.ManualSampleRate, config.ManualChannelCount); err != nil {
			return engineerr.New(engineerr.KindManualRendering, "set_playout_format", err)
		}
		if err := a.buffer.ResetPlayout(); err != nil {
			return engineerr.New(engineerr.KindManualRendering, "reset_playout", err)
		}

		outCtx := ConnectContext{SampleRate: float64(config.ManualSampleRate), ChannelCount: config.ManualChannelCount}
		if err := a.observer.OnEngineWillConnectOutput(outCtx); err != nil {
			return engineerr.New(engineerr.KindObserverRejected, "on_engine_will_connect_output", err)
		}
		if !outCtx.Connected {
			if err := a.graph.ConnectOutput(a.buffer.GetPlayoutData); err != nil {
				return engineerr.New(engineerr.KindManualRendering, "connect_output", err)
			}
		}
		if err := a.buffer.StartPlayout(); err != nil {
			return engineerr.New(engineerr.KindManualRendering, "start_playout", err)
		}
	}

	if next.IsInputEnabled() {
		if err := a.buffer.SetRecordingFormat(config.ManualSampleRate, config.ManualChannelCount); err != nil {
			return engineerr.New(engineerr.KindManualRendering, "set_recording_format", err)
		}
		if err := a.buffer.ResetRecording(); err != nil {
			return engineerr.New(engineerr.KindManualRendering, "reset_recording", err)
		}
		inCtx := ConnectContext{SampleRate: float64(config.ManualSampleRate), ChannelCount: config.ManualChannelCount}
		if err := a.observer.OnEngineWillConnectInput(inCtx); err != nil {
			return engineerr.New(engineerr.KindObserverRejected, "on_engine_will_connect_input", err)
		}
		if !inCtx.Connected {
			deliver := func(samples []int16, capturedAtFrame int64) error {
				return a.buffer.DeliverRecordedData(samples, framesToDuration(capturedAtFrame, config.ManualSampleRate))
			}
			if err := a.graph.ConnectInput(deliver); err != nil {
				return engineerr.New(engineerr.KindManualRendering, "connect_input", err)
			}
		}
		if err := a.buffer.StartRecording(); err != nil {
			return engineerr.New(engineerr.KindManualRendering, "start_recording", err)
		}
	}

	// Runtime mute value always comes from input_muted directly - see the
	// device applier's identical fix for why IsInputRunning is the wrong
	// source here.
	muted := next.InputMuted
	if next.MuteMode == MuteInputMixer {
		if err := a.graph.SetInputMixerMuted(muted); err != nil {
			return engineerr.New(engineerr.KindVoiceProcessing, "set_input_mixer_muted", err)
		}
	} else {
		if err := a.graph.SetVoiceProcessingInputMuted(muted); err != nil {
			return engineerr.New(engineerr.KindVoiceProcessing, "set_vp_input_muted", err)
		}
	}

	if err := a.observer.OnEngineWillStart(next.IsOutputEnabled(), next.IsInputEnabled()); err != nil {
		return engineerr.New(engineerr.KindObserverRejected, "on_engine_will_start", err)
	}
	if err := a.graph.Start(); err != nil {
		return engineerr.New(engineerr.KindStartFailureAfterRetries, "start_manual_engine", err)
	}

	a.loop = newRenderLoop(a.graph, config.ManualSampleRate, config.ManualMaxFrameCount)
	a.loop.Start()

	return nil
}
