// Package core holds the contracts between the coordination core and its
// transport adapters.
package core

// Frame is one serialized message on the wire.
type Frame []byte

// SignalConnection abstracts a client's messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues a frame without blocking. Errors mean the frame was
	// dropped (closed connection or backpressure); the relay never retries.
	TrySend(Frame) error
	Close()
}

// PublishResult reports fan-out delivery stats to the caller.
type PublishResult struct {
	SentTo  int
	Dropped int
}
