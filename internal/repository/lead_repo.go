package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"leadtracker/internal/domain"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// GetAllLeads returns every lead in creation order. Archived customers are
// left out unless includeArchived is set.
func (r *LeadRepository) GetAllLeads(ctx context.Context, includeArchived bool) ([]domain.Lead, error) {
	var rows []leadModel
	q := r.db.WithContext(ctx).Order("created_at ASC").Order("id ASC")
	if !includeArchived {
		q = q.Where("customer_archived = ?", false)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, wrapErr("list leads", err)
	}

	leads := make([]domain.Lead, 0, len(rows))
	for _, m := range rows {
		leads = append(leads, toDomainLead(m))
	}
	return leads, nil
}

func (r *LeadRepository) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	var m leadModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return domain.Lead{}, wrapErr("get lead", err)
	}
	return toDomainLead(m), nil
}

// UpsertLead inserts a new lead or replaces an existing one. Updates are last
// writer wins on the lead id.
func (r *LeadRepository) UpsertLead(ctx context.Context, l domain.Lead, kind domain.ChangeKind) error {
	m := toLeadModel(l)
	db := r.db.WithContext(ctx)

	switch kind {
	case domain.ChangeCreated:
		return wrapErr("create lead", db.Create(&m).Error)
	case domain.ChangeUpdated:
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&m).Error
		return wrapErr("update lead", err)
	default:
		return fmt.Errorf("upsert lead: unknown change kind %q", kind)
	}
}
