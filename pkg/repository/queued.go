package repository

import (
	"sync"

	"github.com/stackfold/stackfold/pkg/utils"
)

// QueuedTransport decorates a Repository with a bounded background queue,
// so Store never blocks the calling goroutine on network I/O. Store drops
// and logs rather than blocking when the queue is full, mirroring the
// reference transport's non-blocking put onto a bounded queue.
type QueuedTransport struct {
	inner Repository
	log   utils.Logger

	mu      sync.Mutex
	running bool
	queue   chan *Record
	stopCh  chan struct{}
	done    chan struct{}
}

// DefaultQueueSize bounds QueuedTransport's backlog when the caller does not
// configure one.
const DefaultQueueSize = 256

// NewQueuedTransport creates a QueuedTransport forwarding to inner with a
// queue capacity of size (DefaultQueueSize if <= 0).
func NewQueuedTransport(inner Repository, size int, log utils.Logger) *QueuedTransport {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if log == nil {
		log = utils.GetGlobalLogger()
	}
	return &QueuedTransport{
		inner: inner,
		log:   log,
		queue: make(chan *Record, size),
	}
}

// Start launches the background worker that drains the queue into inner. It
// is idempotent.
func (t *QueuedTransport) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	go t.run(t.stopCh, t.done)
}

// Stop signals the worker to deliver whatever is still queued and waits for
// it to exit.
func (t *QueuedTransport) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stopCh)
	done := t.done
	t.mu.Unlock()

	<-done
}

// Store enqueues rec for background delivery, returning immediately. If the
// queue is full the record is dropped and the drop is logged; Store itself
// never reports an error back to the caller, matching the reference
// transport's fire-and-forget contract.
func (t *QueuedTransport) Store(rec *Record) error {
	select {
	case t.queue <- rec:
	default:
		t.log.Warn("queued transport backlog full, dropping record " + rec.Name)
	}
	return nil
}

func (t *QueuedTransport) run(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stopCh:
			t.drain()
			return
		case rec := <-t.queue:
			t.deliver(rec)
		}
	}
}

// drain flushes whatever is left in the queue without blocking, once a stop
// has been requested.
func (t *QueuedTransport) drain() {
	for {
		select {
		case rec := <-t.queue:
			t.deliver(rec)
		default:
			return
		}
	}
}

func (t *QueuedTransport) deliver(rec *Record) {
	if err := t.inner.Store(rec); err != nil {
		t.log.Error("queued transport delivery failed: " + err.Error())
	}
}
