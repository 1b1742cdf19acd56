package property

import (
	"context"

	"homeclean/internal/domain"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Property, error)
}
