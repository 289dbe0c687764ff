package leads

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"leadtracker/internal/cache"
	"leadtracker/internal/domain"
	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/metrics"
)

type Deps struct {
	Engine      *pipeline.Engine
	Leads       LeadStore
	Activities  ActivityStore
	Profile     ProfileSource
	Cache       CacheInvalidator
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
	PhoneRegion string
}

// Service runs every lead and customer mutation as read snapshot, compute with
// the pipeline engine, upsert, then record an activity.
type Service struct {
	engine     *pipeline.Engine
	leads      LeadStore
	activities ActivityStore
	profile    ProfileSource
	cache      CacheInvalidator
	metrics    *metrics.Metrics
	log        *zap.Logger
	region     string
}

func NewService(d Deps) *Service {
	s := &Service{
		engine:     d.Engine,
		leads:      d.Leads,
		activities: d.Activities,
		profile:    d.Profile,
		cache:      d.Cache,
		metrics:    d.Metrics,
		log:        d.Logger,
		region:     d.PhoneRegion,
	}
	if s.engine == nil {
		s.engine = pipeline.New()
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.metrics == nil {
		s.metrics = metrics.New(prometheus.NewRegistry())
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

func (s *Service) CreateLead(ctx context.Context, in pipeline.LeadInput) (domain.Lead, error) {
	l, err := s.engine.NewLead(in)
	if err != nil {
		return domain.Lead{}, err
	}
	if err := s.save(ctx, l, domain.ChangeCreated, domain.ActivityCreated, "Lead created"); err != nil {
		return domain.Lead{}, err
	}
	s.metrics.RecordLeadCreated()
	return l, nil
}

// ListLeads returns the pipeline leads (never customers) that pass f.
func (s *Service) ListLeads(ctx context.Context, f Filter) ([]domain.Lead, error) {
	all, err := s.leads.GetAllLeads(ctx, false)
	if err != nil {
		return nil, s.storageFailure("list_leads", err)
	}

	out := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if !l.ConvertedToCustomer() && f.Match(l, s.region) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	l, err := s.leads.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, s.storageFailure("get_lead", err)
	}
	return l, nil
}

func (s *Service) UpdateLead(ctx context.Context, id string, in pipeline.LeadInput) (domain.Lead, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	updated, err := s.engine.UpdateLead(l, in)
	if err != nil {
		return domain.Lead{}, err
	}
	if err := s.save(ctx, updated, domain.ChangeUpdated, domain.ActivityUpdated, "Lead details updated"); err != nil {
		return domain.Lead{}, err
	}
	return updated, nil
}

// ChangeStage moves a lead through the pipeline. Moving to the current stage
// is a no-op and records nothing.
func (s *Service) ChangeStage(ctx context.Context, id string, to domain.Stage) (domain.Lead, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	updated, err := s.engine.ChangeStage(l, to)
	if err != nil {
		return domain.Lead{}, err
	}
	if updated.Stage == l.Stage {
		return l, nil
	}

	payload := fmt.Sprintf("%s -> %s", l.Stage, updated.Stage)
	if err := s.save(ctx, updated, domain.ChangeUpdated, domain.ActivityStageChanged, payload); err != nil {
		return domain.Lead{}, err
	}
	s.metrics.RecordStageChange(string(updated.Stage))
	return updated, nil
}

// ConversionDraft prefills the conversion form for a lead or customer.
func (s *Service) ConversionDraft(ctx context.Context, id string) (pipeline.CustomerInput, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return pipeline.CustomerInput{}, err
	}
	return pipeline.DraftCustomerInput(l), nil
}

// Convert converts a pipeline lead into a customer, or edits the customer
// data of one that already is.
func (s *Service) Convert(ctx context.Context, id string, in pipeline.CustomerInput) (domain.Lead, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	return s.convert(ctx, l, in)
}

func (s *Service) convert(ctx context.Context, l domain.Lead, in pipeline.CustomerInput) (domain.Lead, error) {
	updated, err := s.engineFor(ctx).Convert(l, in)
	if err != nil {
		return domain.Lead{}, err
	}

	if l.ConvertedToCustomer() {
		err = s.save(ctx, updated, domain.ChangeUpdated, domain.ActivityUpdated, "Customer details updated")
		if err != nil {
			return domain.Lead{}, err
		}
		return updated, nil
	}

	if err := s.save(ctx, updated, domain.ChangeUpdated, domain.ActivityConverted, "Converted to customer"); err != nil {
		return domain.Lead{}, err
	}
	s.metrics.RecordConversion(false)
	return updated, nil
}

func (s *Service) CreateCustomer(ctx context.Context, in pipeline.CustomerInput) (domain.Lead, error) {
	l, err := s.engineFor(ctx).CreateDirectCustomer(in)
	if err != nil {
		return domain.Lead{}, err
	}
	if err := s.save(ctx, l, domain.ChangeCreated, domain.ActivityCreated, "Customer created"); err != nil {
		return domain.Lead{}, err
	}
	s.metrics.RecordConversion(true)
	return l, nil
}

// UpdateCustomer edits the customer data of a converted record. Pipeline
// leads have to be converted first.
func (s *Service) UpdateCustomer(ctx context.Context, id string, in pipeline.CustomerInput) (domain.Lead, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}
	if !l.ConvertedToCustomer() {
		return domain.Lead{}, &domain.InvalidStateError{Op: "update customer", Reason: "lead has not been converted"}
	}
	return s.convert(ctx, l, in)
}

// ListCustomers returns either the active or the archived customers.
func (s *Service) ListCustomers(ctx context.Context, archived bool) ([]domain.Lead, error) {
	all, err := s.leads.GetAllLeads(ctx, archived)
	if err != nil {
		return nil, s.storageFailure("list_customers", err)
	}

	out := make([]domain.Lead, 0, len(all))
	for _, l := range all {
		if l.ConvertedToCustomer() && l.Archived() == archived {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *Service) Archive(ctx context.Context, id string) (domain.Lead, error) {
	return s.setArchived(ctx, id, true)
}

func (s *Service) Unarchive(ctx context.Context, id string) (domain.Lead, error) {
	return s.setArchived(ctx, id, false)
}

func (s *Service) setArchived(ctx context.Context, id string, archived bool) (domain.Lead, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return domain.Lead{}, err
	}

	kind, apply := domain.ActivityUnarchived, s.engine.Unarchive
	if archived {
		kind, apply = domain.ActivityArchived, s.engine.Archive
	}
	updated, err := apply(l)
	if err != nil {
		return domain.Lead{}, err
	}
	if updated.Archived() == l.Archived() {
		return l, nil
	}

	payload := "Customer unarchived"
	if archived {
		payload = "Customer archived"
	}
	if err := s.save(ctx, updated, domain.ChangeUpdated, kind, payload); err != nil {
		return domain.Lead{}, err
	}
	s.metrics.RecordArchiveToggle(archived)
	return updated, nil
}

// LogActivity records a hand-entered note, call, email or meeting on a lead.
func (s *Service) LogActivity(ctx context.Context, leadID string, kind domain.ActivityKind, payload string) (domain.Activity, error) {
	if !slices.Contains(domain.UserActivityKinds, kind) {
		return domain.Activity{}, domain.NewValidationError("kind", fmt.Sprintf("unknown activity kind %q", kind))
	}
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return domain.Activity{}, domain.NewValidationError("payload", "required")
	}
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return domain.Activity{}, err
	}

	a, err := s.activities.Append(ctx, domain.Activity{
		LeadID:    leadID,
		Kind:      kind,
		Timestamp: s.engine.Now(),
		Payload:   payload,
	})
	if err != nil {
		return domain.Activity{}, s.storageFailure("append_activity", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", zap.Error(err))
	}
	s.metrics.RecordActivity(string(kind))
	return a, nil
}

// Activities returns the history of a lead, newest first.
func (s *Service) Activities(ctx context.Context, leadID string) ([]domain.Activity, error) {
	if _, err := s.GetLead(ctx, leadID); err != nil {
		return nil, err
	}
	acts, err := s.activities.ListByLead(ctx, leadID)
	if err != nil {
		return nil, s.storageFailure("list_activities", err)
	}
	slices.Reverse(acts)
	return acts, nil
}

// engineFor extends the engine with the profile's custom job titles. A profile
// that cannot be read leaves only the built-in titles.
func (s *Service) engineFor(ctx context.Context) *pipeline.Engine {
	if s.profile == nil {
		return s.engine
	}
	p, err := s.profile.Get(ctx)
	if err != nil {
		s.storageFailure("get_profile", err)
		return s.engine
	}
	return s.engine.WithJobTitles(p.CustomJobTitles)
}

func (s *Service) save(ctx context.Context, l domain.Lead, change domain.ChangeKind, kind domain.ActivityKind, payload string) error {
	if err := s.leads.UpsertLead(ctx, l, change); err != nil {
		return s.storageFailure("upsert_lead", err)
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("analytics cache invalidation failed", zap.Error(err))
	}

	// the lead is already saved; a lost activity is logged, not returned
	_, err := s.activities.Append(ctx, domain.Activity{
		LeadID:    l.ID,
		Kind:      kind,
		Timestamp: l.UpdatedAt,
		Payload:   payload,
	})
	if err != nil {
		s.storageFailure("append_activity", err)
		return nil
	}
	s.metrics.RecordActivity(string(kind))
	return nil
}

func (s *Service) storageFailure(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		s.log.Warn("record store failure", zap.String("operation", op), zap.Error(err))
		s.metrics.RecordStorageError(op)
	}
	return err
}
