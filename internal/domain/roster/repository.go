package roster

import "context"

// Registry persists known players keyed by external id. Upsert inserts unseen
// players and refreshes only LastSeen on existing ones; entries are never removed.
type Registry interface {
	List(ctx context.Context) ([]KnownPlayer, error)
	Upsert(ctx context.Context, players []KnownPlayer) (UpsertResult, error)
}

// Provider fetches the current roster snapshot from the roster platform.
type Provider interface {
	FetchRoster(ctx context.Context) ([]Player, error)
}
