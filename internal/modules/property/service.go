package property

import (
	"context"

	"homeclean/internal/domain"
)

type Service struct {
	properties PropertyRepository
}

func NewService(properties PropertyRepository) *Service {
	return &Service{properties: properties}
}

func (s *Service) Create(ctx context.Context, ident *domain.Identity, req CreatePropertyRequest) (*domain.Property, error) {
	p := &domain.Property{
		OwnerID:     ident.UserID,
		Type:        domain.PropertyType(req.Type),
		Subtype:     req.Subtype,
		Name:        req.Name,
		Address:     req.Address,
		Size:        req.Size,
		Access:      req.Access,
		Parking:     req.Parking,
		Pets:        req.Pets,
		Preferences: req.Preferences,
		IsDefault:   req.IsDefault,
	}
	if err := s.properties.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a property if the caller owns it or is staff. The existence of
// someone else's property is not revealed to a regular client.
func (s *Service) Get(ctx context.Context, ident *domain.Identity, id int64) (*domain.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}
	if p.OwnerID != ident.UserID && !staff(ident) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *Service) ListOwn(ctx context.Context, ident *domain.Identity) ([]*domain.Property, error) {
	return s.properties.ListByOwner(ctx, ident.UserID)
}

func staff(ident *domain.Identity) bool {
	return ident != nil && (ident.Role == domain.RoleOwner || ident.Role == domain.RoleEmployee)
}
