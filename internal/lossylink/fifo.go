package lossylink

//
// Reliable in-process transport
//

import (
	"context"
	"sync"

	"github.com/ooni/lossylink/internal/runtimex"
)

// fifo is the reliable, ordered, bounded transport connecting the two
// endpoints of one direction of a link. It provides backpressure when
// full, end-of-stream signaling when the sending side closes, and
// silent discard when the reading side goes away.
//
// The sending endpoint owns closeSend and the reading endpoint owns
// abandonRead; neither must be called concurrently with send from the
// same side, which holds because each side of a [Conn] is driven by a
// single execution context at a time.
type fifo[T any] struct {
	// abandonOnce ensures we close readerGone just once.
	abandonOnce sync.Once

	// ch carries the in-flight items in FIFO order.
	ch chan T

	// closeOnce ensures we close ch just once.
	closeOnce sync.Once

	// readerGone is closed when the reading endpoint goes away.
	readerGone chan struct{}
}

// newFIFO creates a [fifo] holding at most capacity in-flight items.
func newFIFO[T any](capacity int) *fifo[T] {
	runtimex.Assert(capacity > 0, "lossylink: transport capacity must be positive")
	return &fifo[T]{
		abandonOnce: sync.Once{},
		ch:          make(chan T, capacity),
		closeOnce:   sync.Once{},
		readerGone:  make(chan struct{}),
	}
}

// send delivers item to the reading endpoint, blocking while the
// transport is at capacity. The first return value says whether the
// transport accepted the item: it is false when the reading endpoint
// is gone, in which case the item has been silently discarded, like a
// real UDP connection would do. The returned error is non-nil only
// when the context is done.
func (f *fifo[T]) send(ctx context.Context, item T) (bool, error) {
	select {
	case f.ch <- item:
		return true, nil
	case <-f.readerGone:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// recv returns the channel from which the reading endpoint receives
// items. The channel is closed, after delivering any in-flight items,
// once the sending endpoint has called closeSend.
func (f *fifo[T]) recv() <-chan T {
	return f.ch
}

// closeSend signals that no more items will ever be sent. Items
// already in flight remain readable.
func (f *fifo[T]) closeSend() {
	f.closeOnce.Do(func() {
		close(f.ch)
	})
}

// abandonRead signals that the reading endpoint is gone and that
// subsequent sends should be discarded rather than blocking forever.
func (f *fifo[T]) abandonRead() {
	f.abandonOnce.Do(func() {
		close(f.readerGone)
	})
}
