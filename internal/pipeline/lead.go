package pipeline

import (
	"strings"

	"leadtracker/internal/domain"
)

// NewLead creates a pipeline lead in the New Lead stage.
func (e *Engine) NewLead(in LeadInput) (domain.Lead, error) {
	if err := validateLead(in); err != nil {
		return domain.Lead{}, err
	}

	now := e.now()
	l := domain.Lead{
		ID:        e.newID(),
		Stage:     domain.StageNewLead,
		Priority:  domain.PriorityMedium,
		Source:    domain.SourceWebsite,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyLeadInput(&l, in)
	return l, nil
}

// UpdateLead edits the pipeline fields of a lead that has not been converted.
// Empty priority and source keep their current values.
func (e *Engine) UpdateLead(l domain.Lead, in LeadInput) (domain.Lead, error) {
	if l.ConvertedToCustomer() {
		return l, &domain.InvalidStateError{Op: "update lead", Reason: "record is a customer; edit its customer data instead"}
	}
	if err := validateLead(in); err != nil {
		return l, err
	}

	applyLeadInput(&l, in)
	l.UpdatedAt = e.now()
	return l, nil
}

func applyLeadInput(l *domain.Lead, in LeadInput) {
	l.Name = strings.TrimSpace(in.Name)
	l.Email = strings.TrimSpace(in.Email)
	l.Phone = strings.TrimSpace(in.Phone)
	l.Address = strings.TrimSpace(in.Address)
	l.Notes = in.Notes
	if in.Priority != "" {
		l.Priority = in.Priority
	}
	if in.Source != "" {
		l.Source = in.Source
	}
	if in.ProjectedValue != nil {
		v := *in.ProjectedValue
		l.ProjectedValue = &v
	} else {
		l.ProjectedValue = nil
	}
}

// SeedNotes renders the notes a freshly converted customer starts with: the
// lead's own notes and its projected value, separated by a blank line.
func SeedNotes(l domain.Lead) string {
	var parts []string
	if notes := strings.TrimSpace(l.Notes); notes != "" {
		parts = append(parts, "Lead Notes: "+notes)
	}
	if l.ProjectedValue != nil {
		parts = append(parts, "Projected Contract Value: $"+l.ProjectedValue.String())
	}
	return strings.Join(parts, "\n\n")
}

// Convert turns a pipeline lead into a customer, or edits the customer data of
// a record that already is one. ConvertedAt is only set on first conversion.
func (e *Engine) Convert(l domain.Lead, in CustomerInput) (domain.Lead, error) {
	if err := e.validateCustomer(in); err != nil {
		return l, err
	}
	now := e.now()

	if c, ok := l.Customer(); ok {
		data := customerData(in, c.Data.Source)
		if in.Notes == nil {
			data.Notes = c.Data.Notes
		}
		c.Data = data

		out := l.AsCustomer(c)
		if out.IsDirectCustomer {
			syncContact(&out, data)
		}
		out.UpdatedAt = now
		return out, nil
	}

	if l.Stage != domain.StageClosedWon && !CanTransition(l.Stage, domain.StageClosedWon) {
		return l, &domain.InvalidStateError{Op: "convert", Reason: "lead is " + string(l.Stage)}
	}

	data := customerData(in, l.Source)
	if in.Notes == nil {
		data.Notes = SeedNotes(l)
	}
	convertedAt := now
	if convertedAt.Before(l.CreatedAt) {
		convertedAt = l.CreatedAt
	}

	out := l.AsCustomer(domain.Customer{Data: data, ConvertedAt: convertedAt})
	out.UpdatedAt = now
	return out, nil
}

// CreateDirectCustomer records a customer that never went through the pipeline.
func (e *Engine) CreateDirectCustomer(in CustomerInput) (domain.Lead, error) {
	if err := e.validateCustomer(in); err != nil {
		return domain.Lead{}, err
	}

	now := e.now()
	data := customerData(in, domain.SourceWebsite)
	l := domain.Lead{
		ID:               e.newID(),
		Priority:         domain.PriorityMedium,
		Source:           data.Source,
		IsDirectCustomer: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	syncContact(&l, data)
	return l.AsCustomer(domain.Customer{Data: data, ConvertedAt: now}), nil
}

func syncContact(l *domain.Lead, d domain.CustomerData) {
	l.Name = d.FullName()
	l.Email = d.Email
	l.Phone = d.Phone
	l.Address = d.PropertyAddress.Street1
}

// Archive hides a customer from the default customer listing. Archiving an
// archived customer is a no-op.
func (e *Engine) Archive(l domain.Lead) (domain.Lead, error) {
	return e.setArchived(l, true, "archive")
}

func (e *Engine) Unarchive(l domain.Lead) (domain.Lead, error) {
	return e.setArchived(l, false, "unarchive")
}

func (e *Engine) setArchived(l domain.Lead, archived bool, op string) (domain.Lead, error) {
	c, ok := l.Customer()
	if !ok {
		return l, &domain.InvalidStateError{Op: op, Reason: "only customers can be archived"}
	}
	if c.Archived == archived {
		return l, nil
	}

	c.Archived = archived
	out := l.AsCustomer(c)
	out.UpdatedAt = e.now()
	return out, nil
}
