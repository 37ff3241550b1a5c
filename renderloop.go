package macaudio

import (
	"math"
	"sync"
	"time"

	"github.com/shaban/audioengine/internal/monoclock"
)

// renderLoop drives manual rendering mode from a dedicated goroutine
// (§4.4): frames_per_chunk = sample_rate/100, chunk_ms = round(1000 ·
// frames_per_chunk / sample_rate). Each iteration renders one chunk, then
// sleeps to an absolute deadline (start + n·chunk) rather than a fixed
// per-iteration sleep, so scheduling jitter doesn't accumulate into drift.
type renderLoop struct {
	graph ManualGraph

	framesPerChunk int
	chunkInterval  time.Duration

	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func newRenderLoop(graph ManualGraph, sampleRate, maxFrameCount int) *renderLoop {
	framesPerChunk := sampleRate / 100
	if framesPerChunk <= 0 {
		framesPerChunk = 1
	}
	if framesPerChunk > maxFrameCount {
		framesPerChunk = maxFrameCount
	}
	chunkMs := math.Round(1000 * float64(framesPerChunk) / float64(sampleRate))

	return &renderLoop{
		graph:          graph,
		framesPerChunk: framesPerChunk,
		chunkInterval:  time.Duration(chunkMs) * time.Millisecond,
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

func (r *renderLoop) Start() {
	go r.run()
}

// Stop signals the loop to exit and blocks until it has (the "quitting
// flag" the distilled specification calls the applier's stop step sets).
func (r *renderLoop) Stop() {
	r.once.Do(func() { close(r.quit) })
	<-r.done
}

func (r *renderLoop) run() {
	defer close(r.done)

	start, err := monoclock.Now()
	if err != nil {
		// Fall back to a zero epoch: pacing degrades to "sleep chunkInterval
		// every iteration" rather than absolute-deadline scheduling, but the
		// loop still renders at roughly the right rate.
		start = 0
	}
	var n int64

	for {
		select {
		case <-r.quit:
			return
		default:
		}

		if _, err := r.graph.Render(r.framesPerChunk); err != nil {
			return
		}

		n++
		deadline := start + time.Duration(n)*r.chunkInterval
		now, err := monoclock.Now()
		if err != nil {
			now = deadline - r.chunkInterval
		}
		sleep := deadline - now
		if sleep <= 0 {
			continue
		}

		select {
		case <-r.quit:
			return
		case <-time.After(sleep):
		}
	}
}

// framesToDuration converts a frame offset at sampleRate into a Duration,
// used to stamp manual-mode captured buffers with a timestamp derived from
// the render loop's own frame count rather than a wall-clock read (§4.4).
func framesToDuration(frames int64, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	seconds := float64(frames) / float64(sampleRate)
	return time.Duration(seconds * float64(time.Second))
}
