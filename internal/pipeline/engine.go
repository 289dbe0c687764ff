// Package pipeline owns the lead stage state machine and the lead to customer
// conversion. Every operation takes a Lead value and returns a new one; inputs
// are never mutated and nothing here touches storage.
package pipeline

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"leadtracker/internal/domain"
)

type Engine struct {
	now       func() time.Time
	newID     func() string
	jobTitles []domain.JobTitle
}

type Option func(*Engine)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides how new lead ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithJobTitles returns a copy of e that also accepts the given custom job titles.
func (e *Engine) WithJobTitles(custom []domain.JobTitle) *Engine {
	cp := *e
	cp.jobTitles = slices.Clone(custom)
	return &cp
}

// Now reports the current time of the engine's clock.
func (e *Engine) Now() time.Time {
	return e.now()
}
