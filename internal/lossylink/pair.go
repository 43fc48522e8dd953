package lossylink

//
// Pair construction
//

import "github.com/ooni/lossylink/internal/model"

// NewPair creates the two endpoints of a lossy duplex link carrying
// items of type T. The two directions use transports with independent
// capacity and samplers with distinct seeds, so loss and delay
// outcomes on one direction say nothing about the other. NewPair
// fails, wrapping [ErrInvalidConfig], when the configuration does not
// pass [Config.Check].
func NewPair[T any](config *Config) (*Conn[T], *Conn[T], error) {
	if err := config.Check(); err != nil {
		return nil, nil, err
	}
	logger := model.ValidLoggerOrDefault(config.Logger)
	seedLeft, seedRight := config.seeds()
	leftToRight := newFIFO[T](config.queueSize())
	rightToLeft := newFIFO[T](config.queueSize())
	// each endpoint's sampler governs the items it reads, hence the
	// seed pairs up with the endpoint's receiving transport
	left := newConn[T](config, logger, leftToRight, rightToLeft, seedLeft)
	right := newConn[T](config, logger, rightToLeft, leftToRight, seedRight)
	return left, right, nil
}
