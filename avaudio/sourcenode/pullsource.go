package sourcenode

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework AVFoundation -framework AudioToolbox -framework Foundation
#include "native/sourcenode.m"

AudioSourceNodeResult audiosourcenode_new_pull(double sampleRate, int channelCount, void* contextPtr);
*/
import "C"
import (
	"errors"
	"sync"
	"unsafe"
)

// PullFunc supplies one render callback's worth of Int16, mono playout
// samples. It is called from the audio render thread (§4.2 step 8) and must
// not block - it's expected to be a thin wrapper around a PCMBuffer's
// GetPlayoutData.
type PullFunc func(frameCount int) ([]int16, error)

var (
	pullSourcesMu sync.RWMutex
	pullSources   = map[unsafe.Pointer]PullFunc{}
)

// NewPullSource creates an AVAudioSourceNode whose render block calls pull
// for each callback's worth of frames, used to drive engine output straight
// from a PCMBuffer's playout data (§4.2 step 8) rather than generating a
// test tone.
func NewPullSource(sampleRate float64, pull PullFunc) (*SourceNode, error) {
	if pull == nil {
		return nil, errors.New("pull callback cannot be nil")
	}

	result := C.audiosourcenode_new_pull(C.double(sampleRate), 1, nil)
	if result.error != nil {
		return nil, errors.New(C.GoString(result.error))
	}
	if result.result == nil {
		return nil, errors.New("failed to create pull AVAudioSourceNode")
	}

	ptr := unsafe.Pointer(result.result)
	pullSourcesMu.Lock()
	pullSources[ptr] = pull
	pullSourcesMu.Unlock()

	return &SourceNode{ptr: ptr}, nil
}

//export goPullSourceCallback
func goPullSourceCallback(contextPtr unsafe.Pointer, frameCount C.int) {
	pullSourcesMu.RLock()
	pull, ok := pullSources[contextPtr]
	pullSourcesMu.RUnlock()
	if !ok || pull == nil {
		return
	}
	// Errors from pull are discarded - a render callback has no caller to
	// return to.
	_, _ = pull(int(frameCount))
}

// StopPullSource releases the callback registration for ptr; call before
// Destroy so a stray render callback mid-teardown finds nothing registered.
func StopPullSource(ptr unsafe.Pointer) {
	pullSourcesMu.Lock()
	delete(pullSources, ptr)
	pullSourcesMu.Unlock()
}
