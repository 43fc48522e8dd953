// Package lossylink simulates an unreliable datagram link inside a
// single process, so that tests can exercise protocol implementations
// under random packet loss and reorder-inducing delivery delay.
//
// The entry point is [NewPair], which creates two [Conn] endpoints
// wired back to back:
//
//	.--------.    items     .---------.    items     .--------.
//	| caller | -- Write --> | lossy   | --- Read --> | caller |
//	|   A    | <-- Read --- | duplex  | <-- Write -- |   B    |
//	'--------'              | link    |              '--------'
//	                        '---------'
//
// Each direction applies loss and delay independently on the receiving
// side: writing never loses nor delays anything, it only waits for
// capacity on the underlying reliable transport. Reading draws a loss
// outcome per arriving item, then either forwards the survivor at once
// (zero configured delay) or holds it in a delivery-time min-heap until
// a folded-normal delay has elapsed. Items whose sampled delays overlap
// are therefore delivered out of send order, which is the whole point:
// the link emulates jitter, not just latency.
//
// This is not a real network transport. There are no sockets, no
// framing, no bandwidth modeling, and no cross-process reach. The
// simulation exists to make loss and reordering reproducible: give
// [Config] a nonzero Seed and the link replays the exact same loss and
// delay draws on every run.
package lossylink
