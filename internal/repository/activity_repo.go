package repository

import (
	"context"

	"gorm.io/gorm"

	"leadtracker/internal/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append stores a, assigning an id when it has none, and returns the stored
// activity.
func (r *ActivityRepository) Append(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	m := toActivityModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Activity{}, wrapErr("append activity", err)
	}
	return toDomainActivity(m), nil
}

// GetActivities returns every activity in insertion order.
func (r *ActivityRepository) GetActivities(ctx context.Context) ([]domain.Activity, error) {
	return r.list(r.db.WithContext(ctx))
}

func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]domain.Activity, error) {
	return r.list(r.db.WithContext(ctx).Where("lead_id = ?", leadID))
}

func (r *ActivityRepository) list(q *gorm.DB) ([]domain.Activity, error) {
	var rows []activityModel
	if err := q.Order("seq ASC").Find(&rows).Error; err != nil {
		return nil, wrapErr("list activities", err)
	}

	out := make([]domain.Activity, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainActivity(m))
	}
	return out, nil
}
