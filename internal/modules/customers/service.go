package customers

import (
	"context"

	"leadtracker/internal/domain"
	"leadtracker/internal/pipeline"
)

// Core is the part of the lead service that owns customer records.
type Core interface {
	CreateCustomer(ctx context.Context, in pipeline.CustomerInput) (domain.Lead, error)
	UpdateCustomer(ctx context.Context, id string, in pipeline.CustomerInput) (domain.Lead, error)
	ListCustomers(ctx context.Context, archived bool) ([]domain.Lead, error)
	Archive(ctx context.Context, id string) (domain.Lead, error)
	Unarchive(ctx context.Context, id string) (domain.Lead, error)
}

type Service struct {
	core   Core
	region string
}

func NewService(core Core, phoneRegion string) *Service {
	return &Service{core: core, region: phoneRegion}
}

func (s *Service) Create(ctx context.Context, in pipeline.CustomerInput) (domain.Lead, error) {
	return s.core.CreateCustomer(ctx, in)
}

func (s *Service) Update(ctx context.Context, id string, in pipeline.CustomerInput) (domain.Lead, error) {
	return s.core.UpdateCustomer(ctx, id, in)
}

// List returns the active (or archived) customers that pass f.
func (s *Service) List(ctx context.Context, archived bool, f Filter) ([]domain.Lead, error) {
	all, err := s.core.ListCustomers(ctx, archived)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if f.Match(l, s.region) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) Archive(ctx context.Context, id string) (domain.Lead, error) {
	return s.core.Archive(ctx, id)
}

func (s *Service) Unarchive(ctx context.Context, id string) (domain.Lead, error) {
	return s.core.Unarchive(ctx, id)
}
