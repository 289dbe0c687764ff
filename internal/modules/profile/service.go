package profile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/pkg/validator"
)

const defaultBusinessType = "Window Cleaning"

type Store interface {
	Get(ctx context.Context) (domain.BusinessProfile, error)
	Save(ctx context.Context, p domain.BusinessProfile) error
}

// UpdateRequest is the full profile form. Contract values and counts stay
// strings, as entered, but must be numeric when present.
type UpdateRequest struct {
	Name             string   `json:"name"`
	Type             string   `json:"type"`
	Website          string   `json:"website" validate:"omitempty,url"`
	Description      string   `json:"description"`
	AvgContractValue string   `json:"avg_contract_value" validate:"omitempty,numeric"`
	MinContractValue string   `json:"min_contract_value" validate:"omitempty,numeric"`
	MaxContractValue string   `json:"max_contract_value" validate:"omitempty,numeric"`
	TargetMarket     string   `json:"target_market"`
	ServiceArea      string   `json:"service_area"`
	EmployeeCount    string   `json:"employee_count" validate:"omitempty,number"`
	YearFounded      string   `json:"year_founded" validate:"omitempty,number,len=4"`
	CustomJobTitles  []string `json:"custom_job_titles"`
}

type Service struct {
	store   Store
	metrics *metrics.Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewService(store Store, m *metrics.Metrics, log *zap.Logger) *Service {
	return &Service{
		store:   store,
		metrics: m,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the stored profile, or a blank Window Cleaning profile when
// none has been saved yet.
func (s *Service) Get(ctx context.Context) (domain.BusinessProfile, error) {
	p, err := s.store.Get(ctx)
	if err != nil {
		return domain.BusinessProfile{}, s.storageFailure("get_profile", err)
	}
	if p.Type == "" {
		p.Type = defaultBusinessType
	}
	if p.CustomJobTitles == nil {
		p.CustomJobTitles = []domain.JobTitle{}
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, req UpdateRequest) (domain.BusinessProfile, error) {
	req = trimRequest(req)
	if err := validate(req); err != nil {
		return domain.BusinessProfile{}, err
	}

	p := domain.BusinessProfile{
		Name:             req.Name,
		Type:             req.Type,
		Website:          req.Website,
		Description:      req.Description,
		AvgContractValue: req.AvgContractValue,
		MinContractValue: req.MinContractValue,
		MaxContractValue: req.MaxContractValue,
		TargetMarket:     req.TargetMarket,
		ServiceArea:      req.ServiceArea,
		EmployeeCount:    req.EmployeeCount,
		YearFounded:      req.YearFounded,
		CustomJobTitles:  jobTitles(req.CustomJobTitles),
		UpdatedAt:        s.now(),
	}
	if p.Type == "" {
		p.Type = defaultBusinessType
	}
	if err := s.store.Save(ctx, p); err != nil {
		return domain.BusinessProfile{}, s.storageFailure("save_profile", err)
	}
	s.log.Info("business profile updated", zap.Int("custom_job_titles", len(p.CustomJobTitles)))
	return p, nil
}

func trimRequest(r UpdateRequest) UpdateRequest {
	for _, f := range []*string{
		&r.Name, &r.Type, &r.Website, &r.Description, &r.AvgContractValue, &r.MinContractValue,
		&r.MaxContractValue, &r.TargetMarket, &r.ServiceArea, &r.EmployeeCount, &r.YearFounded,
	} {
		*f = strings.TrimSpace(*f)
	}
	return r
}

func validate(r UpdateRequest) error {
	fields := validator.Validate(r)
	if fields == nil {
		fields = map[string]string{}
	}
	if r.Type != "" && !slices.Contains(domain.BusinessTypes, r.Type) {
		fields["type"] = fmt.Sprintf("unknown business type %q", r.Type)
	}
	if _, bad := fields["min_contract_value"]; !bad && r.MinContractValue != "" && r.MaxContractValue != "" {
		lo, errLo := decimal.NewFromString(r.MinContractValue)
		hi, errHi := decimal.NewFromString(r.MaxContractValue)
		if errLo == nil && errHi == nil && lo.GreaterThan(hi) {
			fields["min_contract_value"] = "must not exceed max_contract_value"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// jobTitles trims the custom titles and drops blanks, duplicates and titles
// that are already built in.
func jobTitles(raw []string) []domain.JobTitle {
	out := []domain.JobTitle{}
	for _, v := range raw {
		t := domain.JobTitle(strings.TrimSpace(v))
		if t == "" || t.IsKnown(out) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (s *Service) storageFailure(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		s.log.Warn("record store failure", zap.String("operation", op), zap.Error(err))
		s.metrics.RecordStorageError(op)
	}
	return err
}
