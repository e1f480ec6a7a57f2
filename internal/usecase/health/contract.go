package health

import "context"

// IndexPinger checks product index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}
