package customers

import (
	"fmt"
	"strings"

	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/phone"
	"leadtracker/internal/pkg/search"
)

// Filter narrows a customer listing. Zero values place no restriction. Job
// titles are not checked against the built-in set because the profile may add
// custom ones.
type Filter struct {
	Search   string
	JobTitle domain.JobTitle
	JobType  domain.JobType
	Source   domain.LeadSource
}

func ParseFilter(term, jobTitle, jobType, source string) (Filter, error) {
	f := Filter{
		Search:   strings.TrimSpace(term),
		JobTitle: domain.JobTitle(selected(jobTitle)),
	}
	fields := map[string]string{}

	if v := selected(jobType); v != "" {
		if t := domain.JobType(v); t.IsValid() {
			f.JobType = t
		} else {
			fields["job_type"] = fmt.Sprintf("unknown job type %q", v)
		}
	}
	if v := selected(source); v != "" {
		if s, err := domain.ParseSource(v); err == nil {
			f.Source = s
		} else {
			fields["source"] = fmt.Sprintf("unknown source %q", v)
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

// Match reports whether the customer l passes f. Records that are not
// customers never match.
func (f Filter) Match(l domain.Lead, region string) bool {
	c, ok := l.Customer()
	if !ok {
		return false
	}
	d := c.Data

	if f.JobTitle != "" && d.JobTitle != f.JobTitle {
		return false
	}
	if f.JobType != "" && d.JobType != f.JobType {
		return false
	}
	if f.Source != "" && d.Source != f.Source {
		return false
	}
	if f.Search == "" {
		return true
	}
	return search.Contains(f.Search, d.FirstName, d.LastName, d.FullName(), d.CompanyName, d.Email, d.Phone) ||
		phone.Matches(d.Phone, f.Search, region)
}
