package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"homeclean/internal/domain"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

type propertyModel struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	OwnerID     int64          `gorm:"column:owner_id;index:idx_properties_owner_created"`
	Type        string         `gorm:"column:type"`
	Subtype     string         `gorm:"column:subtype"`
	Name        *string        `gorm:"column:name"`
	Address     datatypes.JSON `gorm:"column:address;type:jsonb"`
	Size        datatypes.JSON `gorm:"column:size;type:jsonb"`
	Access      datatypes.JSON `gorm:"column:access;type:jsonb"`
	Parking     datatypes.JSON `gorm:"column:parking;type:jsonb"`
	Pets        datatypes.JSON `gorm:"column:pets;type:jsonb"`
	Preferences datatypes.JSON `gorm:"column:preferences;type:jsonb"`
	IsDefault   bool           `gorm:"column:is_default"`
	CreatedAt   time.Time      `gorm:"column:created_at;index:idx_properties_owner_created"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
}

func (propertyModel) TableName() string { return "properties" }

func toPropertyModel(p *domain.Property) (propertyModel, error) {
	m := propertyModel{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Type:      string(p.Type),
		Subtype:   p.Subtype,
		IsDefault: p.IsDefault,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Name != "" {
		v := p.Name
		m.Name = &v
	}

	var err error
	if m.Address, err = json.Marshal(p.Address); err != nil {
		return m, err
	}
	if m.Size, err = json.Marshal(p.Size); err != nil {
		return m, err
	}
	if m.Access, err = json.Marshal(p.Access); err != nil {
		return m, err
	}
	if m.Parking, err = json.Marshal(p.Parking); err != nil {
		return m, err
	}
	if m.Pets, err = json.Marshal(p.Pets); err != nil {
		return m, err
	}
	if m.Preferences, err = json.Marshal(p.Preferences); err != nil {
		return m, err
	}
	return m, nil
}

func toDomainProperty(m propertyModel) (*domain.Property, error) {
	p := &domain.Property{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Type:      domain.PropertyType(m.Type),
		Subtype:   m.Subtype,
		IsDefault: m.IsDefault,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Name != nil {
		p.Name = *m.Name
	}

	for _, field := range []struct {
		raw datatypes.JSON
		dst any
	}{
		{m.Address, &p.Address},
		{m.Size, &p.Size},
		{m.Access, &p.Access},
		{m.Parking, &p.Parking},
		{m.Pets, &p.Pets},
		{m.Preferences, &p.Preferences},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dst); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	m, err := toPropertyModel(p)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}

	got, err := toDomainProperty(m)
	if err != nil {
		return err
	}
	*p = *got
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var m propertyModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainProperty(m)
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Property, error) {
	var rows []propertyModel
	tx := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.Property, 0, len(rows))
	for _, m := range rows {
		p, err := toDomainProperty(m)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
