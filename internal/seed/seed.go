// Package seed fills a record store with plausible demo data by driving the
// same service calls the HTTP API uses, so every seeded lead carries a
// consistent activity history.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"leadtracker/internal/domain"
	"leadtracker/internal/pipeline"
)

// Pipeline is the subset of the lead service the seeder drives.
type Pipeline interface {
	CreateLead(ctx context.Context, in pipeline.LeadInput) (domain.Lead, error)
	ChangeStage(ctx context.Context, id string, to domain.Stage) (domain.Lead, error)
	ConversionDraft(ctx context.Context, id string) (pipeline.CustomerInput, error)
	Convert(ctx context.Context, id string, in pipeline.CustomerInput) (domain.Lead, error)
	CreateCustomer(ctx context.Context, in pipeline.CustomerInput) (domain.Lead, error)
	Archive(ctx context.Context, id string) (domain.Lead, error)
}

// Clock is a settable time source. The seeder moves it to back-date records;
// hand Clock.Now to pipeline.WithClock.
type Clock struct {
	now time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

func (c *Clock) Now() time.Time { return c.now }

func (c *Clock) Set(t time.Time) { c.now = t }

type Config struct {
	Leads           int
	DirectCustomers int
	// Days is how far back creation dates are spread.
	Days int
	Seed int64
	Now  time.Time
}

type Result struct {
	Leads           int
	Converted       int
	DirectCustomers int
	Archived        int
}

type seeder struct {
	p     Pipeline
	clock *Clock
	fake  *gofakeit.Faker
	cfg   Config
}

func Run(ctx context.Context, p Pipeline, clock *Clock, cfg Config, log *zap.Logger) (Result, error) {
	if cfg.Leads < 0 || cfg.DirectCustomers < 0 {
		return Result{}, fmt.Errorf("counts must not be negative")
	}
	if cfg.Days <= 0 {
		cfg.Days = 90
	}
	if cfg.Now.IsZero() {
		cfg.Now = time.Now().UTC()
	}

	s := &seeder{p: p, clock: clock, fake: gofakeit.New(cfg.Seed), cfg: cfg}
	var res Result

	for i := 0; i < cfg.Leads; i++ {
		converted, archived, err := s.lead(ctx)
		if err != nil {
			return res, fmt.Errorf("seed lead %d: %w", i, err)
		}
		res.Leads++
		if converted {
			res.Converted++
		}
		if archived {
			res.Archived++
		}
	}

	for i := 0; i < cfg.DirectCustomers; i++ {
		s.clock.Set(s.createdAt())
		if _, err := s.p.CreateCustomer(ctx, s.customerInput(s.fake.FirstName(), s.fake.LastName())); err != nil {
			return res, fmt.Errorf("seed direct customer %d: %w", i, err)
		}
		res.DirectCustomers++
	}

	log.Info("seed completed",
		zap.Int("leads", res.Leads),
		zap.Int("converted", res.Converted),
		zap.Int("direct_customers", res.DirectCustomers),
		zap.Int("archived", res.Archived),
	)
	return res, nil
}

func (s *seeder) lead(ctx context.Context) (converted, archived bool, err error) {
	s.clock.Set(s.createdAt())

	projected := decimal.NewFromInt(int64(s.fake.Number(15, 300) * 10))
	l, err := s.p.CreateLead(ctx, pipeline.LeadInput{
		Name:           s.fake.FirstName() + " " + s.fake.LastName(),
		Email:          s.fake.Email(),
		Phone:          s.fake.Phone(),
		Address:        s.fake.Street(),
		Notes:          s.fake.Sentence(8),
		Priority:       domain.Priorities[s.fake.Number(0, len(domain.Priorities)-1)],
		Source:         domain.Sources[s.fake.Number(0, len(domain.Sources)-1)],
		ProjectedValue: &projected,
	})
	if err != nil {
		return false, false, err
	}

	target := domain.Stages[s.fake.Number(0, len(domain.Stages)-1)]
	for _, stage := range stagePath(target) {
		s.advance()
		if _, err := s.p.ChangeStage(ctx, l.ID, stage); err != nil {
			return false, false, err
		}
	}
	if target != domain.StageClosedWon || s.fake.Float64() > 0.75 {
		return false, false, nil
	}

	s.advance()
	draft, err := s.p.ConversionDraft(ctx, l.ID)
	if err != nil {
		return false, false, err
	}
	draft.PropertyAddress.City = s.fake.City()
	draft.PropertyAddress.State = s.fake.StateAbr()
	draft.PropertyAddress.ZipCode = s.fake.Zip()
	if draft.PropertyAddress.Street1 == "" {
		draft.PropertyAddress.Street1 = s.fake.Street()
	}
	if draft.LastName == "" {
		draft.LastName = s.fake.LastName()
	}
	draft.JobTitle = domain.BuiltinJobTitles[s.fake.Number(0, len(domain.BuiltinJobTitles)-1)]
	draft.JobType = domain.JobTypes[s.fake.Number(0, len(domain.JobTypes)-1)]
	draft.LineItems = s.lineItems()
	if _, err := s.p.Convert(ctx, l.ID, draft); err != nil {
		return false, false, err
	}

	if s.fake.Float64() < 0.1 {
		s.advance()
		if _, err := s.p.Archive(ctx, l.ID); err != nil {
			return true, false, err
		}
		return true, true, nil
	}
	return true, false, nil
}

// stagePath walks a new lead forward to target one stage at a time. Lost
// deals drop out after qualification.
func stagePath(target domain.Stage) []domain.Stage {
	if target == domain.StageClosedLost {
		return []domain.Stage{domain.StageQualified, domain.StageClosedLost}
	}
	var path []domain.Stage
	for _, st := range domain.Stages[1:] {
		if st == domain.StageClosedLost {
			break
		}
		path = append(path, st)
		if st == target {
			return path
		}
	}
	return nil
}

func (s *seeder) customerInput(first, last string) pipeline.CustomerInput {
	return pipeline.CustomerInput{
		FirstName:   first,
		LastName:    last,
		CompanyName: s.fake.Company(),
		Email:       s.fake.Email(),
		Phone:       s.fake.Phone(),
		PropertyAddress: pipeline.AddressInput{
			Street1: s.fake.Street(),
			City:    s.fake.City(),
			State:   s.fake.StateAbr(),
			ZipCode: s.fake.Zip(),
		},
		BillingAddressSame: true,
		JobTitle:           domain.BuiltinJobTitles[s.fake.Number(0, len(domain.BuiltinJobTitles)-1)],
		JobType:            domain.JobTypes[s.fake.Number(0, len(domain.JobTypes)-1)],
		MeasurementValue:   float64(s.fake.Number(10, 60)),
		LineItems:          s.lineItems(),
		Source:             domain.Sources[s.fake.Number(0, len(domain.Sources)-1)],
	}
}

func (s *seeder) lineItems() []pipeline.LineItemInput {
	n := s.fake.Number(1, 3)
	items := make([]pipeline.LineItemInput, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, pipeline.LineItemInput{
			Description: s.fake.HipsterWord() + " service",
			Price:       decimal.NewFromInt(int64(s.fake.Number(8, 120) * 5)),
		})
	}
	return items
}

func (s *seeder) createdAt() time.Time {
	offset := time.Duration(s.fake.Number(0, s.cfg.Days*24)) * time.Hour
	return s.cfg.Now.Add(-offset)
}

// advance moves the clock forward by up to three days, never past Config.Now.
func (s *seeder) advance() {
	next := s.clock.Now().Add(time.Duration(s.fake.Number(1, 72)) * time.Hour)
	if next.After(s.cfg.Now) {
		next = s.cfg.Now
	}
	s.clock.Set(next)
}
