package lossylink

//
// Link endpoint
//

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ooni/lossylink/internal/model"
)

// ErrLinkClosed indicates that no more items will ever traverse the
// link in this direction: either the peer closed its sending side and
// every surviving item has been delivered, or this endpoint itself
// has been closed. The condition is terminal and sticky.
var ErrLinkClosed = errors.New("lossylink: link closed")

// Conn is one endpoint of a lossy duplex link created by [NewPair].
// The zero value is invalid.
//
// A Conn is not a general-purpose concurrent object: drive Read from
// at most one goroutine at a time and Write from at most one goroutine
// at a time. Read and Write may run concurrently with each other
// because they touch disjoint state.
type Conn[T any] struct {
	// buffer holds the items whose delivery instant is still in the
	// future, ordered by delivery instant.
	buffer delayHeap[T]

	// closeOnce ensures Close runs its body just once.
	closeOnce sync.Once

	// closed becomes true when Close is called.
	closed atomic.Bool

	// delayAverage is the configured average delivery delay.
	delayAverage time.Duration

	// delayStddev is the configured delivery delay spread.
	delayStddev time.Duration

	// logger logs data-path events at debug level.
	logger model.Logger

	// lossRate is the configured loss probability.
	lossRate float64

	// receiver is the transport from which Read obtains new items.
	receiver *fifo[T]

	// sampler draws the loss and delay outcomes for arriving items.
	sampler *sampler

	// sender is the transport into which Write pushes items.
	sender *fifo[T]

	// sourceClosed records that the receiver transport reported
	// end-of-stream; only the Read engine touches it.
	sourceClosed bool

	// stats counts data-path outcomes.
	stats connStats

	// wake fires when the head of buffer becomes due; only the Read
	// engine touches it.
	wake *time.Timer
}

// connStats holds the endpoint counters. The fields are atomics only
// because Stats may be read from outside the two engine contexts.
type connStats struct {
	delivered atomic.Int64
	discarded atomic.Int64
	lost      atomic.Int64
	received  atomic.Int64
}

// Stats is a snapshot of the counters of a [Conn].
type Stats struct {
	// Delivered counts items returned by Read.
	Delivered int64

	// Discarded counts items silently discarded by Write because the
	// peer endpoint was gone.
	Discarded int64

	// Lost counts items dropped by loss sampling.
	Lost int64

	// Received counts items obtained from the underlying transport,
	// before loss sampling.
	Received int64
}

// newConn creates a [Conn] reading from receiver and writing to sender.
func newConn[T any](config *Config, logger model.Logger,
	sender, receiver *fifo[T], seed int64) *Conn[T] {
	// park the timer far in the future and stop it right away: it
	// only becomes meaningful once rearmed on a buffered item
	wake := time.NewTimer(time.Duration(math.MaxInt64))
	wake.Stop()
	return &Conn[T]{
		buffer:       delayHeap[T]{},
		closeOnce:    sync.Once{},
		closed:       atomic.Bool{},
		delayAverage: config.DelayAverage,
		delayStddev:  config.DelayStddev,
		logger:       logger,
		lossRate:     config.LossRate,
		receiver:     receiver,
		sampler:      newSampler(seed),
		sender:       sender,
		sourceClosed: false,
		stats:        connStats{},
		wake:         wake,
	}
}

// Read returns the next item delivered by the link, blocking until an
// item survives loss sampling and its sampled delay elapses. It
// returns [ErrLinkClosed] once the peer has closed its sending side
// and the delay buffer has fully drained, and the context error when
// ctx is done first. Items that entered the delay buffer come out in
// non-decreasing delivery-instant order, which may differ from their
// send order.
func (c *Conn[T]) Read(ctx context.Context) (T, error) {
	var zero T
	if c.closed.Load() {
		return zero, ErrLinkClosed
	}
	for {
		// deliver an already-due buffered item before consulting the
		// transport, otherwise a steady stream of fresh arrivals
		// could starve the reordered backlog
		if payload, ok := c.buffer.popDue(time.Now()); ok {
			if deliverAt, ok := c.buffer.head(); ok {
				c.rearmWake(deliverAt)
			}
			c.stats.delivered.Add(1)
			c.logger.Debugf("lossylink: forwarding delayed item, buffered=%d", c.buffer.size())
			return payload, nil
		}

		// nothing is due: arm the wake timer on the buffer head, or,
		// with the source closed and the buffer drained, finish
		var wakeC <-chan time.Time
		if deliverAt, ok := c.buffer.head(); ok {
			c.rearmWake(deliverAt)
			wakeC = c.wake.C
		} else if c.sourceClosed {
			return zero, ErrLinkClosed
		}
		var recvC <-chan T
		if !c.sourceClosed {
			recvC = c.receiver.recv()
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()

		case <-wakeC:
			// the timer firing yields no data by itself: it just
			// guarantees we recheck the buffer head

		case item, ok := <-recvC:
			if !ok {
				// no item will ever arrive again but we must still
				// drain whatever the buffer holds
				c.sourceClosed = true
				c.logger.Debugf("lossylink: transport closed, buffered=%d", c.buffer.size())
				continue
			}
			c.stats.received.Add(1)
			if c.sampler.shouldLose(c.lossRate) {
				c.stats.lost.Add(1)
				c.logger.Debug("lossylink: dropping item")
				continue
			}
			if c.delayAverage == 0 {
				// zero-delay fast path: bypass the buffer so the
				// arrival order is preserved
				c.stats.delivered.Add(1)
				return item, nil
			}
			delay := c.sampler.sampleDelay(c.delayAverage, c.delayStddev)
			c.buffer.insert(item, time.Now().Add(delay))
		}
	}
}

// rearmWake rearms the wake timer to fire at the given instant. Only
// the Read engine calls this, hence the plain stop-drain-reset
// discipline is race free.
func (c *Conn[T]) rearmWake(deliverAt time.Time) {
	if !c.wake.Stop() {
		select {
		case <-c.wake.C:
		default:
		}
	}
	c.wake.Reset(time.Until(deliverAt))
}

// Write submits an item for transmission to the peer, blocking while
// the transport is at capacity. When the peer endpoint is gone the
// item is silently discarded rather than reported as an error, like a
// send on an unconnected UDP socket. Write fails with [ErrLinkClosed]
// when called on a closed endpoint and with the context error when
// ctx is done before the transport has capacity.
func (c *Conn[T]) Write(ctx context.Context, item T) error {
	if c.closed.Load() {
		return ErrLinkClosed
	}
	accepted, err := c.sender.send(ctx, item)
	if err != nil {
		return err
	}
	if !accepted {
		c.stats.discarded.Add(1)
		c.logger.Debug("lossylink: peer gone, discarding item")
	}
	return nil
}

// Flush waits for pending writes to reach the transport. The
// in-process transport accepts items synchronously, so flushing only
// fails, with [ErrLinkClosed], when the endpoint is closed.
func (c *Conn[T]) Flush() error {
	if c.closed.Load() {
		return ErrLinkClosed
	}
	return nil
}

// Close closes this endpoint: the peer observes end-of-stream once it
// has drained every item already in flight, and subsequent peer
// writes are silently discarded. Close is idempotent and always
// returns nil. Items already accepted into the peer's delay buffer
// are unaffected.
func (c *Conn[T]) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.sender.closeSend()
		c.receiver.abandonRead()
	})
	return nil
}

// Stats returns a snapshot of the endpoint counters.
func (c *Conn[T]) Stats() Stats {
	return Stats{
		Delivered: c.stats.delivered.Load(),
		Discarded: c.stats.discarded.Load(),
		Lost:      c.stats.lost.Load(),
		Received:  c.stats.received.Load(),
	}
}
