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

// QuoteFilter narrows a quote listing. Nil fields are ignored.
type QuoteFilter struct {
	ClientID   *int64
	Status     *domain.QuoteStatus
	LeadStatus *domain.LeadStatus
	Limit      int
}

type QuoteRepository struct {
	db *gorm.DB
}

func NewQuoteRepository(db *gorm.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Nested quote documents are stored as JSON columns, keeping the document
// shape the frontend reads and writes.
type quoteModel struct {
	ID               int64          `gorm:"column:id;primaryKey"`
	Status           string         `gorm:"column:status;index:idx_quotes_status_created"`
	DraftKey         *string        `gorm:"column:draft_key;index"`
	ClientID         *int64         `gorm:"column:client_id;index:idx_quotes_client_created"`
	PropertyID       *int64         `gorm:"column:property_id"`
	PropertySnapshot datatypes.JSON `gorm:"column:property_snapshot;type:jsonb"`
	Contact          datatypes.JSON `gorm:"column:contact;type:jsonb"`
	Frequency        string         `gorm:"column:frequency"`
	ConditionLevel   string         `gorm:"column:condition_level"`
	SpecialAreas     datatypes.JSON `gorm:"column:special_areas;type:jsonb"`
	Surfaces         datatypes.JSON `gorm:"column:surfaces;type:jsonb"`
	TargetWindow     datatypes.JSON `gorm:"column:target_window;type:jsonb"`
	Photos           datatypes.JSON `gorm:"column:photos;type:jsonb"`
	Notes            string         `gorm:"column:notes"`
	LeadStatus       string         `gorm:"column:lead_status;index"`
	Admin            datatypes.JSON `gorm:"column:admin;type:jsonb"`
	CreatedAt        time.Time      `gorm:"column:created_at;index:idx_quotes_status_created;index:idx_quotes_client_created"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (quoteModel) TableName() string { return "quotes" }

func toQuoteModel(q *domain.Quote) (quoteModel, error) {
	m := quoteModel{
		ID:             q.ID,
		Status:         string(q.Status),
		DraftKey:       q.DraftKey,
		ClientID:       q.ClientID,
		PropertyID:     q.PropertyID,
		Frequency:      string(q.Frequency),
		ConditionLevel: string(q.ConditionLevel),
		Notes:          q.Notes,
		LeadStatus:     string(q.Admin.LeadStatus),
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}

	var err error
	if m.Contact, err = json.Marshal(q.Contact); err != nil {
		return m, err
	}
	if q.PropertySnapshot != nil {
		if m.PropertySnapshot, err = json.Marshal(q.PropertySnapshot); err != nil {
			return m, err
		}
	}
	if m.SpecialAreas, err = json.Marshal(q.SpecialAreas); err != nil {
		return m, err
	}
	if m.Surfaces, err = json.Marshal(q.Surfaces); err != nil {
		return m, err
	}
	if m.TargetWindow, err = json.Marshal(q.TargetWindow); err != nil {
		return m, err
	}
	if m.Photos, err = json.Marshal(q.Photos); err != nil {
		return m, err
	}
	if m.Admin, err = json.Marshal(q.Admin); err != nil {
		return m, err
	}
	return m, nil
}

func toDomainQuote(m quoteModel) (*domain.Quote, error) {
	q := &domain.Quote{
		ID:             m.ID,
		Status:         domain.QuoteStatus(m.Status),
		DraftKey:       m.DraftKey,
		ClientID:       m.ClientID,
		PropertyID:     m.PropertyID,
		Frequency:      domain.Frequency(m.Frequency),
		ConditionLevel: domain.ConditionLevel(m.ConditionLevel),
		Notes:          m.Notes,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}

	if len(m.Contact) > 0 {
		if err := json.Unmarshal(m.Contact, &q.Contact); err != nil {
			return nil, err
		}
	}
	if len(m.PropertySnapshot) > 0 {
		if err := json.Unmarshal(m.PropertySnapshot, &q.PropertySnapshot); err != nil {
			return nil, err
		}
	}
	if len(m.SpecialAreas) > 0 {
		if err := json.Unmarshal(m.SpecialAreas, &q.SpecialAreas); err != nil {
			return nil, err
		}
	}
	if len(m.Surfaces) > 0 {
		if err := json.Unmarshal(m.Surfaces, &q.Surfaces); err != nil {
			return nil, err
		}
	}
	if len(m.TargetWindow) > 0 {
		if err := json.Unmarshal(m.TargetWindow, &q.TargetWindow); err != nil {
			return nil, err
		}
	}
	if len(m.Photos) > 0 {
		if err := json.Unmarshal(m.Photos, &q.Photos); err != nil {
			return nil, err
		}
	}
	if len(m.Admin) > 0 {
		if err := json.Unmarshal(m.Admin, &q.Admin); err != nil {
			return nil, err
		}
	}
	if q.Admin.LeadStatus == "" {
		q.Admin.LeadStatus = domain.LeadStatus(m.LeadStatus)
	}
	return q, nil
}

func (r *QuoteRepository) Create(ctx context.Context, q *domain.Quote) error {
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now

	m, err := toQuoteModel(q)
	if err != nil {
		return err
	}
	if tx := r.db.WithContext(ctx).Create(&m); tx.Error != nil {
		return tx.Error
	}

	got, err := toDomainQuote(m)
	if err != nil {
		return err
	}
	*q = *got
	return nil
}

func (r *QuoteRepository) GetByID(ctx context.Context, id int64) (*domain.Quote, error) {
	var m quoteModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return toDomainQuote(m)
}

// Save overwrites the stored record. Last write wins: there is no version
// check on concurrent updates.
func (r *QuoteRepository) Save(ctx context.Context, q *domain.Quote) error {
	q.UpdatedAt = time.Now()

	m, err := toQuoteModel(q)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(&m).Error
}

func (r *QuoteRepository) Find(ctx context.Context, filter QuoteFilter) ([]*domain.Quote, error) {
	q := r.db.WithContext(ctx).Model(&quoteModel{})
	if filter.ClientID != nil {
		q = q.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.LeadStatus != nil {
		q = q.Where("lead_status = ?", string(*filter.LeadStatus))
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var rows []quoteModel
	if tx := q.Order("created_at DESC").Find(&rows); tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]*domain.Quote, 0, len(rows))
	for _, m := range rows {
		dq, err := toDomainQuote(m)
		if err != nil {
			return nil, err
		}
		out = append(out, dq)
	}
	return out, nil
}

func (r *QuoteRepository) CountByStatus(ctx context.Context) (map[domain.QuoteStatus]int64, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	tx := r.db.WithContext(ctx).Model(&quoteModel{}).
		Select("status, COUNT(1) as cnt").
		Group("status").
		Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make(map[domain.QuoteStatus]int64, len(rows))
	for _, r := range rows {
		out[domain.QuoteStatus(r.Status)] = r.Cnt
	}
	return out, nil
}
