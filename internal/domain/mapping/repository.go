package mapping

import "context"

// Store is the durable PlayerKey -> Mapping cache. Put overwrites the entry
// for a key; Clear removes every mapping.
type Store interface {
	Get(ctx context.Context, key PlayerKey) (Mapping, bool, error)
	Put(ctx context.Context, key PlayerKey, m Mapping) error
	List(ctx context.Context) ([]Mapping, error)
	Clear(ctx context.Context) error
}
