package leads

import (
	"strings"

	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/phone"
	"leadtracker/internal/pkg/search"
)

// Filter narrows the pipeline lead listing. Zero values place no restriction.
type Filter struct {
	Search   string
	Priority domain.Priority
	Stage    domain.Stage
	Source   domain.LeadSource
}

// ParseFilter builds a Filter from raw query values, where "" and "all" mean
// no restriction.
func ParseFilter(term, priority, stage, source string) (Filter, error) {
	f := Filter{Search: strings.TrimSpace(term)}
	fields := map[string]string{}

	if v := selected(priority); v != "" {
		if p, err := domain.ParsePriority(v); err != nil {
			fields["priority"] = "unknown priority " + v
		} else {
			f.Priority = p
		}
	}
	if v := selected(stage); v != "" {
		if s, err := domain.ParseStage(v); err != nil {
			fields["stage"] = "unknown stage " + v
		} else {
			f.Stage = s
		}
	}
	if v := selected(source); v != "" {
		if s, err := domain.ParseSource(v); err != nil {
			fields["source"] = "unknown source " + v
		} else {
			f.Source = s
		}
	}

	if len(fields) > 0 {
		return Filter{}, &domain.ValidationError{Fields: fields}
	}
	return f, nil
}

func selected(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

// Match reports whether l passes every restriction of f. Phone numbers are
// compared after normalization with region as the default country.
func (f Filter) Match(l domain.Lead, region string) bool {
	if f.Priority != "" && l.Priority != f.Priority {
		return false
	}
	if f.Stage != "" && l.Stage != f.Stage {
		return false
	}
	if f.Source != "" && l.Source != f.Source {
		return false
	}
	if f.Search == "" {
		return true
	}
	return search.Contains(f.Search, l.Name, l.Email, l.Phone) || phone.Matches(l.Phone, f.Search, region)
}
