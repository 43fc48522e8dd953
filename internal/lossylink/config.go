package lossylink

//
// Link configuration
//

import (
	"errors"
	"fmt"
	"time"

	"github.com/ooni/lossylink/internal/model"
)

// DefaultQueueSize is the capacity of the underlying reliable transport
// used by [NewPair] when [Config.QueueSize] is zero.
const DefaultQueueSize = 10000

// ErrInvalidConfig indicates that a [Config] field is out of range.
var ErrInvalidConfig = errors.New("lossylink: invalid config")

// Config contains the configuration for creating a [Conn] pair with
// [NewPair]. The zero value is a valid configuration describing a
// perfectly reliable link with no delay.
type Config struct {
	// DelayAverage is the OPTIONAL average delivery delay. When zero,
	// items bypass the delay buffer entirely and the link preserves
	// the send order.
	DelayAverage time.Duration

	// DelayStddev is the OPTIONAL standard deviation of the delivery
	// delay. The delay of each item is the absolute value of a draw
	// from Normal(DelayAverage, DelayStddev), hence the effective
	// distribution is folded normal rather than truncated: with a
	// large stddev the effective average exceeds DelayAverage. We
	// keep this folding because downstream statistical baselines
	// were collected with it.
	DelayStddev time.Duration

	// Logger is the OPTIONAL logger for the link's data path. A nil
	// Logger means we use [model.DiscardLogger].
	Logger model.Logger

	// LossRate is the OPTIONAL probability in [0, 1] that the
	// receiving endpoint silently drops an arriving item.
	LossRate float64

	// QueueSize is the OPTIONAL capacity of each direction's reliable
	// transport. Zero means [DefaultQueueSize]; writes block once
	// this many items are in flight and not yet read.
	QueueSize int

	// Seed is the OPTIONAL seed for the random draws. Zero means we
	// seed from the current time. The two directions always use
	// distinct seeds derived from this one, so their loss and delay
	// outcomes are independent.
	Seed int64
}

// Check returns an explanatory error when the configuration is out of
// range and nil otherwise. We refuse to clamp out-of-range values
// because clamping would hide test-configuration bugs.
func (c *Config) Check() error {
	// the negated comparison also catches NaN
	if !(c.LossRate >= 0 && c.LossRate <= 1) {
		return fmt.Errorf("%w: LossRate must be in [0, 1], got %v", ErrInvalidConfig, c.LossRate)
	}
	if c.DelayAverage < 0 {
		return fmt.Errorf("%w: DelayAverage must be non-negative, got %v", ErrInvalidConfig, c.DelayAverage)
	}
	if c.DelayStddev < 0 {
		return fmt.Errorf("%w: DelayStddev must be non-negative, got %v", ErrInvalidConfig, c.DelayStddev)
	}
	if c.QueueSize < 0 {
		return fmt.Errorf("%w: QueueSize must be non-negative, got %v", ErrInvalidConfig, c.QueueSize)
	}
	return nil
}

// queueSize returns the transport capacity to use.
func (c *Config) queueSize() int {
	if c.QueueSize > 0 {
		return c.QueueSize
	}
	return DefaultQueueSize
}

// seeds returns the per-direction seeds. We derive the second seed
// from the first with an LCG step so that a single user-provided seed
// still yields two decorrelated draw sequences.
func (c *Config) seeds() (int64, int64) {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return seed, seed*6364136223846793005 + 1442695040888963407
}
