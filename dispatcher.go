package macaudio

import (
	"context"
	"sync"
	"time"

	"github.com/shaban/audioengine/engine/queue"
	"github.com/shaban/audioengine/internal/enginelog"
)

// controlThread serializes every state transition, device-change reaction,
// and interruption response onto a single goroutine (§5): nothing touches
// EngineState or the graph except through Enqueue/Do. It wraps queue.Queue
// with the operation-duration tracking a real-time audio host needs to
// notice when a transition is taking too long to stay glitch-free.
type controlThread struct {
	q   *queue.Queue
	log enginelog.Logger

	perfMu                sync.RWMutex
	lastOperationDuration time.Duration
	maxOperationDuration  time.Duration
}

func newControlThread(log enginelog.Logger) *controlThread {
	if log == nil {
		log = enginelog.Noop()
	}
	return &controlThread{
		q:                    queue.New(32),
		log:                  log,
		maxOperationDuration: 300 * time.Millisecond,
	}
}

func (c *controlThread) Start() {
	c.q.Start()
}

func (c *controlThread) Close() {
	c.q.Close()
}

// Do enqueues fn and blocks until it has run, returning its error. The
// caller's goroutine (any goroutine - a public Engine method, an OS
// notification callback) waits; fn itself always runs on the control
// thread.
func (c *controlThread) Do(fn func(ctx context.Context) error) error {
	done := make(chan error, 1)
	err := c.q.Enqueue(queue.Func(func(ctx context.Context) error {
		start := time.Now()
		runErr := fn(ctx)
		elapsed := time.Since(start)

		c.perfMu.Lock()
		c.lastOperationDuration = elapsed
		over := elapsed > c.maxOperationDuration
		c.perfMu.Unlock()

		if over {
			c.log.Warnf("control thread operation took %s, exceeding %s target", elapsed, c.maxOperationDuration)
		}

		done <- runErr
		return nil
	}))
	if err != nil {
		return err
	}
	return <-done
}

// Post enqueues fn without waiting for it to run - used for fire-and-forget
// reactions like the reconfigure task posted after a spontaneous engine stop.
func (c *controlThread) Post(fn func(ctx context.Context) error) {
	_ = c.q.Enqueue(queue.Func(fn))
}

func (c *controlThread) LastOperationDuration() time.Duration {
	c.perfMu.RLock()
	defer c.perfMu.RUnlock()
	return c.lastOperationDuration
}
