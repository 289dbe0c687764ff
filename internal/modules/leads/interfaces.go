package leads

import (
	"context"

	"leadtracker/internal/domain"
)

type LeadStore interface {
	GetAllLeads(ctx context.Context, includeArchived bool) ([]domain.Lead, error)
	GetLead(ctx context.Context, id string) (domain.Lead, error)
	UpsertLead(ctx context.Context, l domain.Lead, kind domain.ChangeKind) error
}

type ActivityStore interface {
	Append(ctx context.Context, a domain.Activity) (domain.Activity, error)
	ListByLead(ctx context.Context, leadID string) ([]domain.Activity, error)
}

// ProfileSource supplies the custom job titles accepted on conversion.
type ProfileSource interface {
	Get(ctx context.Context) (domain.BusinessProfile, error)
}

// CacheInvalidator drops computed analytics after a lead changes.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}
