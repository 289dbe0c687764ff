// Package targeting decides which leads a campaign is aimed at.
package targeting

import (
	"fmt"
	"iter"
	"slices"

	"leadtracker/internal/domain"
)

// Matches reports whether l falls inside t. Customers are excluded unless the
// targeting opts into them; each empty dimension places no restriction.
func Matches(l domain.Lead, t domain.Targeting) bool {
	if l.ConvertedToCustomer() && !t.IncludeCustomers {
		return false
	}
	return member(t.Stages, l.Stage) &&
		member(t.Priorities, l.Priority) &&
		member(t.Sources, l.Source)
}

func member[T comparable](set []T, v T) bool {
	return len(set) == 0 || slices.Contains(set, v)
}

// SelectAudience yields the leads matching t in input order. The sequence is
// evaluated on every range and may be ranged over any number of times.
func SelectAudience(leads []domain.Lead, t domain.Targeting) iter.Seq[domain.Lead] {
	return func(yield func(domain.Lead) bool) {
		for _, l := range leads {
			if !Matches(l, t) {
				continue
			}
			if !yield(l) {
				return
			}
		}
	}
}

// Count returns how many leads match t.
func Count(leads []domain.Lead, t domain.Targeting) int {
	n := 0
	for range SelectAudience(leads, t) {
		n++
	}
	return n
}

// IsUnfiltered reports whether t places no restriction on any dimension.
func IsUnfiltered(t domain.Targeting) bool {
	return len(t.Stages) == 0 && len(t.Priorities) == 0 && len(t.Sources) == 0
}

// Validate rejects values outside the closed enumerations.
func Validate(t domain.Targeting) error {
	fields := map[string]string{}
	for i, s := range t.Stages {
		if !s.IsValid() {
			fields[fmt.Sprintf("stages[%d]", i)] = fmt.Sprintf("unknown stage %q", s)
		}
	}
	for i, p := range t.Priorities {
		if !p.IsValid() {
			fields[fmt.Sprintf("priorities[%d]", i)] = fmt.Sprintf("unknown priority %q", p)
		}
	}
	for i, s := range t.Sources {
		if !s.IsValid() {
			fields[fmt.Sprintf("sources[%d]", i)] = fmt.Sprintf("unknown source %q", s)
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Normalize drops duplicate selections, keeping first occurrence order.
func Normalize(t domain.Targeting) domain.Targeting {
	return domain.Targeting{
		Stages:           dedupe(t.Stages),
		Priorities:       dedupe(t.Priorities),
		Sources:          dedupe(t.Sources),
		IncludeCustomers: t.IncludeCustomers,
	}
}

func dedupe[T comparable](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
