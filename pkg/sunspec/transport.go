package sunspec

import "context"

// Transport reads holding registers from a device. Implementations own the
// socket lifecycle, timeouts and any retry policy; the engine never retries
// and cancels in-flight reads only through the passed context.
type Transport interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	// ReadRegisters reads quantity registers starting at the zero-based
	// address. Every returned value is in 0..65535.
	ReadRegisters(ctx context.Context, address, quantity uint16) ([]uint16, error)
}
