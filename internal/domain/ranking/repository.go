package ranking

import "context"

// Repository stores rankings sets keyed by season and week.
type Repository interface {
	Save(ctx context.Context, rankings Rankings) error
	Get(ctx context.Context, season, week int) (Rankings, bool, error)
	List(ctx context.Context) ([]Summary, error)
	Delete(ctx context.Context, season, week int) (bool, error)
}
