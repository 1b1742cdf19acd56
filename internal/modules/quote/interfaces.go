package quote

import (
	"context"

	"homeclean/internal/domain"
	"homeclean/internal/repository"
)

// QuoteRepository defines the persistence operations the lifecycle needs.
// The store does not implement locking; concurrent saves are
// last-write-wins.
type QuoteRepository interface {
	Create(ctx context.Context, q *domain.Quote) error
	GetByID(ctx context.Context, id int64) (*domain.Quote, error)
	Save(ctx context.Context, q *domain.Quote) error
	Find(ctx context.Context, filter repository.QuoteFilter) ([]*domain.Quote, error)
	CountByStatus(ctx context.Context) (map[domain.QuoteStatus]int64, error)
}
