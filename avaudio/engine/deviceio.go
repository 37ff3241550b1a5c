package engine

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -L../../ -lmacaudio -Wl,-rpath,/Users/shaban/Code/macaudio
#include "../../native/macaudio.h"

const char* audioengine_set_voice_processing_enabled(AudioEngine* wrapper, void* inputNodePtr, bool enabled);
const char* audioengine_set_voice_processing_bypassed(AudioEngine* wrapper, bool bypassed);
const char* audioengine_set_voice_processing_agc_enabled(AudioEngine* wrapper, bool enabled);
const char* audioengine_set_voice_processing_input_muted(AudioEngine* wrapper, bool muted);
const char* audioengine_set_advanced_ducking(AudioEngine* wrapper, bool enabled, int level);
const char* audioengine_set_preferred_output_device(AudioEngine* wrapper, const char* deviceUID);
const char* audioengine_set_preferred_input_device(AudioEngine* wrapper, const char* deviceUID);
const char* audioengine_enable_manual_rendering_mode(AudioEngine* wrapper, double sampleRate, int channelCount, int maxFrameCount);
const char* audioengine_render_manual(AudioEngine* wrapper, int frameCount, int* framesRendered);
void audioengine_register_configuration_change_handler(AudioEngine* wrapper, void* contextPtr);
*/
import "C"
import (
	"errors"
	"unsafe"
)

// configurationChangeHandlers tracks registered Go callbacks keyed by the
// same context pointer passed to the C layer, mirroring the pattern
// avaudio/tap uses for its global activeTaps map - CGO exported callbacks
// can't close over Go state directly, so the wrapper owns the indirection.
var configurationChangeHandlers = map[unsafe.Pointer]func(){}

// SetInputVoiceProcessingEnabled toggles the platform's built-in voice
// processing (echo cancellation + noise suppression + optional AGC) on the
// input node (§4.2 step 7).
func (e *Engine) SetInputVoiceProcessingEnabled(inputNodePtr unsafe.Pointer, enabled bool) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	if result := C.audioengine_set_voice_processing_enabled(e.ptr, inputNodePtr, C.bool(enabled)); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// SetVoiceProcessingBypassed toggles VP bypass (§4.2 step 15).
func (e *Engine) SetVoiceProcessingBypassed(bypassed bool) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	if result := C.audioengine_set_voice_processing_bypassed(e.ptr, C.bool(bypassed)); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// SetVoiceProcessingAGCEnabled toggles VP's automatic gain control (§4.2 step 15).
func (e *Engine) SetVoiceProcessingAGCEnabled(enabled bool) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	if result := C.audioengine_set_voice_processing_agc_enabled(e.ptr, C.bool(enabled)); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// SetVoiceProcessingInputMuted sets the VP-node mute flag used by
// MuteVoiceProcessing mode, and re-asserted (unmuted) whenever input is
// (re)enabled under MuteRestartEngine mode (§4.2 step 7, step 13).
func (e *Engine) SetVoiceProcessingInputMuted(muted bool) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	if result := C.audioengine_set_voice_processing_input_muted(e.ptr, C.bool(muted)); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// SetAdvancedDucking configures the VP "other audio ducking" feature
// (§4.2 step 14).
func (e *Engine) SetAdvancedDucking(enabled bool, level int) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	if result := C.audioengine_set_advanced_ducking(e.ptr, C.bool(enabled), C.int(level)); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// SetPreferredOutputDevice/SetPreferredInputDevice bind the engine's
// output/input audio unit to a specific hardware device UID (§4.2 step 16).
// An empty uid restores the system default.
func (e *Engine) SetPreferredOutputDevice(deviceUID string) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	cuid := C.CString(deviceUID)
	defer C.free(unsafe.Pointer(cuid))
	if result := C.audioengine_set_preferred_output_device(e.ptr, cuid); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

func (e *Engine) SetPreferredInputDevice(deviceUID string) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	cuid := C.CString(deviceUID)
	defer C.free(unsafe.Pointer(cuid))
	if result := C.audioengine_set_preferred_input_device(e.ptr, cuid); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// EnableManualRenderingMode puts the engine into realtime manual-rendering
// mode at a fixed format (§4.3 step 2): manual mode always uses Int16,
// 48000Hz, mono with a maximum frame count of 3072.
func (e *Engine) EnableManualRenderingMode(sampleRate float64, channelCount, maxFrameCount int) error {
	if e == nil || e.ptr == nil {
		return errors.New("engine is nil")
	}
	if result := C.audioengine_enable_manual_rendering_mode(e.ptr, C.double(sampleRate), C.int(channelCount), C.int(maxFrameCount)); result != nil {
		return errors.New(C.GoString(result))
	}
	return nil
}

// RenderManual drives the manual-rendering block for frameCount frames
// (§4.4), returning the number of frames actually rendered.
func (e *Engine) RenderManual(frameCount int) (int, error) {
	if e == nil || e.ptr == nil {
		return 0, errors.New("engine is nil")
	}
	var rendered C.int
	if result := C.audioengine_render_manual(e.ptr, C.int(frameCount), &rendered); result != nil {
		return 0, errors.New(C.GoString(result))
	}
	return int(rendered), nil
}

// OnConfigurationChange registers a callback invoked when the engine stops
// spontaneously due to a host configuration change (route change, format
// change) rather than an explicit Stop() call (§4.2 step 19). Only one
// handler may be registered at a time; a second call replaces the first.
func (e *Engine) OnConfigurationChange(handler func()) {
	if e == nil || e.ptr == nil || handler == nil {
		return
	}
	key := unsafe.Pointer(e.ptr)
	configurationChangeHandlers[key] = handler
	C.audioengine_register_configuration_change_handler(e.ptr, key)
}

//export goConfigurationChangeCallback
func goConfigurationChangeCallback(contextPtr unsafe.Pointer) {
	if handler, ok := configurationChangeHandlers[contextPtr]; ok && handler != nil {
		handler()
	}
}
