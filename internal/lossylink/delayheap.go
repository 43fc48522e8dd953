package lossylink

//
// Delay buffer
//

import (
	"container/heap"
	"time"
)

// queuedItem is an item waiting inside the delay buffer together with
// the instant at which it becomes eligible for delivery.
type queuedItem[T any] struct {
	// deliverAt is the scheduled delivery instant.
	deliverAt time.Time

	// payload is the item itself.
	payload T
}

// delayHeap is a min-heap of items keyed by scheduled delivery
// instant: the head is always the earliest undelivered item. Ties are
// broken arbitrarily. The zero value is an empty heap ready to use.
//
// A delayHeap belongs to exactly one [Conn] and is only touched from
// that endpoint's Read engine, hence it needs no locking.
type delayHeap[T any] struct {
	items []queuedItem[T]
}

var _ heap.Interface = &delayHeap[int]{}

// Len implements [heap.Interface].
func (dh *delayHeap[T]) Len() int {
	return len(dh.items)
}

// Less implements [heap.Interface].
func (dh *delayHeap[T]) Less(i, j int) bool {
	return dh.items[i].deliverAt.Before(dh.items[j].deliverAt)
}

// Swap implements [heap.Interface].
func (dh *delayHeap[T]) Swap(i, j int) {
	dh.items[i], dh.items[j] = dh.items[j], dh.items[i]
}

// Push implements [heap.Interface].
func (dh *delayHeap[T]) Push(x any) {
	dh.items = append(dh.items, x.(queuedItem[T]))
}

// Pop implements [heap.Interface].
func (dh *delayHeap[T]) Pop() any {
	last := len(dh.items) - 1
	item := dh.items[last]
	dh.items = dh.items[:last]
	return item
}

// insert adds payload to the heap with the given delivery instant.
func (dh *delayHeap[T]) insert(payload T, deliverAt time.Time) {
	heap.Push(dh, queuedItem[T]{deliverAt: deliverAt, payload: payload})
}

// head returns the delivery instant of the earliest buffered item and
// whether the heap is non-empty.
func (dh *delayHeap[T]) head() (time.Time, bool) {
	if len(dh.items) <= 0 {
		return time.Time{}, false
	}
	return dh.items[0].deliverAt, true
}

// popDue removes and returns the earliest buffered item provided that
// its delivery instant is not after now.
func (dh *delayHeap[T]) popDue(now time.Time) (T, bool) {
	if deliverAt, ok := dh.head(); ok && !deliverAt.After(now) {
		item := heap.Pop(dh).(queuedItem[T])
		return item.payload, true
	}
	var zero T
	return zero, false
}

// size returns the number of buffered items.
func (dh *delayHeap[T]) size() int {
	return len(dh.items)
}
