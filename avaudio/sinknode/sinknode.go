// Package sinknode provides a 1:1 wrapper around AVAudioSinkNode, the
// receive-only counterpart to avaudio/sourcenode: instead of generating
// audio, it hands every render callback's captured buffer to a Go
// DeliverFunc.
package sinknode

/*
#cgo CFLAGS: -x objective-c -fobjc-arc
#cgo LDFLAGS: -framework AVFoundation -framework AudioToolbox -framework Foundation
#include "native/sinknode.m"

AudioSinkNodeResult audiosinknode_new(double sampleRate, int channelCount, void* contextPtr);
AudioSinkNodeResult audiosinknode_get_node(void* wrapper);
const char* audiosinknode_destroy(void* wrapper);
*/
import "C"
import (
	"errors"
	"sync"
	"time"
	"unsafe"
)

// DeliverFunc receives one render callback's worth of captured Int16, mono
// PCM along with a capture timestamp derived from the render thread's host
// time (§4.2 step 10). It must not block.
type DeliverFunc func(samples []int16, capturedAt time.Duration) error

var (
	sinksMu sync.RWMutex
	sinks   = map[unsafe.Pointer]DeliverFunc{}
)

// SinkNode represents a 1:1 mapping to AVAudioSinkNode.
type SinkNode struct {
	ptr unsafe.Pointer
}

// New creates an AVAudioSinkNode that calls deliver for every captured
// buffer once attached and connected to the engine's input chain.
func New(sampleRate float64, channelCount int, deliver DeliverFunc) (*SinkNode, error) {
	if deliver == nil {
		return nil, errors.New("deliver callback cannot be nil")
	}

	result := C.audiosinknode_new(C.double(sampleRate), C.int(channelCount), nil)
	if result.error != nil {
		return nil, errors.New(C.GoString(result.error))
	}
	if result.result == nil {
		return nil, errors.New("failed to create AVAudioSinkNode")
	}

	ptr := unsafe.Pointer(result.result)
	sinksMu.Lock()
	sinks[ptr] = deliver
	sinksMu.Unlock()

	return &SinkNode{ptr: ptr}, nil
}

// GetNodePtr returns the underlying AVAudioSinkNode pointer for attach/connect
// calls against an Engine.
func (s *SinkNode) GetNodePtr() (unsafe.Pointer, error) {
	if s == nil || s.ptr == nil {
		return nil, errors.New("sink node is nil")
	}
	result := C.audiosinknode_get_node(s.ptr)
	if result.error != nil {
		return nil, errors.New(C.GoString(result.error))
	}
	return unsafe.Pointer(result.result), nil
}

// Destroy releases the native sink node and its callback registration.
func (s *SinkNode) Destroy() error {
	if s == nil || s.ptr == nil {
		return nil
	}
	sinksMu.Lock()
	delete(sinks, s.ptr)
	sinksMu.Unlock()

	if result := C.audiosinknode_destroy(s.ptr); result != nil {
		return errors.New(C.GoString(result))
	}
	s.ptr = nil
	return nil
}

//export goSinkNodeCallback
func goSinkNodeCallback(contextPtr unsafe.Pointer, samples *C.short, frameCount C.int, hostTimeNanos C.longlong) {
	sinksMu.RLock()
	deliver, ok := sinks[contextPtr]
	sinksMu.RUnlock()
	if !ok || deliver == nil || samples == nil {
		return
	}

	n := int(frameCount)
	buf := make([]int16, n)
	src := (*[1 << 28]C.short)(unsafe.Pointer(samples))[:n:n]
	for i := 0; i < n; i++ {
		buf[i] = int16(src[i])
	}

	_ = deliver(buf, time.Duration(int64(hostTimeNanos)))
}
