package core

// Frame is a raw encoded signal payload.
type Frame []byte

// ConnID identifies one live client connection. It is opaque to the
// application layer; disconnects are reported by ConnID, not by user.
type ConnID string

// SignalConnection abstracts the per-client messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	ID() ConnID
	TrySend(Frame) error
	Close()
}
