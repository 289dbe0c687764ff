package campaigns

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/pkg/validator"
	"leadtracker/internal/targeting"
)

type CampaignStore interface {
	Create(ctx context.Context, c *domain.Campaign) error
	Update(ctx context.Context, c domain.Campaign) error
	Get(ctx context.Context, id string) (domain.Campaign, error)
	List(ctx context.Context) ([]domain.Campaign, error)
}

// LeadSnapshot is the read side of the record store.
type LeadSnapshot interface {
	GetAllLeads(ctx context.Context, includeArchived bool) ([]domain.Lead, error)
}

type CreateRequest struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Targeting   domain.Targeting `json:"targeting"`
}

// Audience is a preview of who a campaign currently reaches.
type Audience struct {
	CampaignID string   `json:"campaign_id"`
	Unfiltered bool     `json:"unfiltered"`
	LeadIDs    []string `json:"lead_ids"`
	Count      int      `json:"count"`
}

type Service struct {
	campaigns CampaignStore
	leads     LeadSnapshot
	metrics   *metrics.Metrics
	log       *zap.Logger
	now       func() time.Time
}

func NewService(campaigns CampaignStore, leads LeadSnapshot, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		campaigns: campaigns,
		leads:     leads,
		metrics:   m,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (domain.Campaign, error) {
	req.Name = strings.TrimSpace(req.Name)
	fields := validator.Validate(req)
	if fields == nil {
		fields = map[string]string{}
	}
	var verr *domain.ValidationError
	if err := targeting.Validate(req.Targeting); errors.As(err, &verr) {
		for k, v := range verr.Fields {
			fields["targeting."+k] = v
		}
	}
	if len(fields) > 0 {
		return domain.Campaign{}, &domain.ValidationError{Fields: fields}
	}

	now := s.now()
	c := domain.Campaign{
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		Targeting:   targeting.Normalize(req.Targeting),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.campaigns.Create(ctx, &c); err != nil {
		return domain.Campaign{}, s.storageFailure("create_campaign", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Campaign, error) {
	out, err := s.campaigns.List(ctx)
	if err != nil {
		return nil, s.storageFailure("list_campaigns", err)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Campaign, error) {
	c, err := s.campaigns.Get(ctx, id)
	if err != nil {
		return domain.Campaign{}, s.storageFailure("get_campaign", err)
	}
	return c, nil
}

// SaveTargeting replaces the targeting of a campaign.
func (s *Service) SaveTargeting(ctx context.Context, id string, t domain.Targeting) (domain.Campaign, error) {
	if err := targeting.Validate(t); err != nil {
		return domain.Campaign{}, err
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return domain.Campaign{}, err
	}

	c.Targeting = targeting.Normalize(t)
	c.UpdatedAt = s.now()
	if err := s.campaigns.Update(ctx, c); err != nil {
		return domain.Campaign{}, s.storageFailure("update_campaign", err)
	}
	return c, nil
}

// Audience evaluates the campaign's targeting against the current, non
// archived snapshot.
func (s *Service) Audience(ctx context.Context, id string) (Audience, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return Audience{}, err
	}
	leads, err := s.leads.GetAllLeads(ctx, false)
	if err != nil {
		return Audience{}, s.storageFailure("list_leads", err)
	}

	a := Audience{
		CampaignID: c.ID,
		Unfiltered: targeting.IsUnfiltered(c.Targeting),
		LeadIDs:    []string{},
	}
	for l := range targeting.SelectAudience(leads, c.Targeting) {
		a.LeadIDs = append(a.LeadIDs, l.ID)
	}
	a.Count = len(a.LeadIDs)

	s.metrics.RecordAudienceEvaluation()
	s.log.Debug("audience evaluated",
		zap.String("campaign_id", c.ID),
		zap.Int("snapshot", len(leads)),
		zap.Int("count", a.Count),
	)
	return a, nil
}

func (s *Service) storageFailure(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		s.log.Warn("record store failure", zap.String("operation", op), zap.Error(err))
		s.metrics.RecordStorageError(op)
	}
	return err
}
