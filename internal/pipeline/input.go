package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"leadtracker/internal/domain"
	"leadtracker/internal/pkg/validator"
)

const defaultCountry = "United States"

// LeadInput carries the editable fields of a pipeline lead.
type LeadInput struct {
	Name           string            `json:"name" validate:"required"`
	Email          string            `json:"email" validate:"omitempty,email"`
	Phone          string            `json:"phone"`
	Address        string            `json:"address"`
	Notes          string            `json:"notes"`
	Priority       domain.Priority   `json:"priority"`
	Source         domain.LeadSource `json:"source"`
	ProjectedValue *decimal.Decimal  `json:"projected_value"`
}

type AddressInput struct {
	Street1 string `json:"street1" validate:"required"`
	Street2 string `json:"street2"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zip_code" validate:"required"`
	Country string `json:"country"`
}

type LineItemInput struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// CustomerInput is what the conversion form submits. Notes is optional: nil
// means "seed from the lead" on a first conversion and "keep" on an edit.
type CustomerInput struct {
	FirstName          string            `json:"first_name" validate:"required"`
	LastName           string            `json:"last_name" validate:"required"`
	CompanyName        string            `json:"company_name"`
	Email              string            `json:"email" validate:"required,email"`
	Phone              string            `json:"phone" validate:"required"`
	PropertyAddress    AddressInput      `json:"property_address"`
	BillingAddressSame bool              `json:"billing_address_same"`
	BillingAddress     *AddressInput     `json:"billing_address"`
	JobTitle           domain.JobTitle   `json:"job_title"`
	JobType            domain.JobType    `json:"job_type"`
	MeasurementValue   float64           `json:"measurement_value" validate:"gte=0"`
	LineItems          []LineItemInput   `json:"line_items"`
	Notes              *string           `json:"notes"`
	Source             domain.LeadSource `json:"source"`
}

func (a AddressInput) toDomain() domain.Address {
	country := strings.TrimSpace(a.Country)
	if country == "" {
		country = defaultCountry
	}
	return domain.Address{
		Street1: strings.TrimSpace(a.Street1),
		Street2: strings.TrimSpace(a.Street2),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		ZipCode: strings.TrimSpace(a.ZipCode),
		Country: country,
	}
}

func addressInput(a domain.Address) AddressInput {
	return AddressInput{
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func validateLead(in LeadInput) error {
	in.Name = strings.TrimSpace(in.Name)
	fields := validator.Validate(in)
	if fields == nil {
		fields = map[string]string{}
	}
	if in.Priority != "" && !in.Priority.IsValid() {
		fields["priority"] = fmt.Sprintf("unknown priority %q", in.Priority)
	}
	if in.Source != "" && !in.Source.IsValid() {
		fields["source"] = fmt.Sprintf("unknown source %q", in.Source)
	}
	if in.ProjectedValue != nil && in.ProjectedValue.IsNegative() {
		fields["projected_value"] = "must not be negative"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// validateCustomer checks the identity fields, closed enumerations and line
// item prices. Blank strings count as missing. A nil billing address means
// billing goes to the property address whatever billing_address_same says.
func (e *Engine) validateCustomer(in CustomerInput) error {
	in = trimCustomer(in)
	if in.BillingAddressSame {
		in.BillingAddress = nil
	}

	fields := validator.Validate(in)
	if fields == nil {
		fields = map[string]string{}
	}
	if in.JobTitle != "" && !in.JobTitle.IsKnown(e.jobTitles) {
		fields["job_title"] = fmt.Sprintf("unknown job title %q", in.JobTitle)
	}
	if in.JobType != "" && !in.JobType.IsValid() {
		fields["job_type"] = fmt.Sprintf("unknown job type %q", in.JobType)
	}
	if in.Source != "" && !in.Source.IsValid() {
		fields["source"] = fmt.Sprintf("unknown source %q", in.Source)
	}
	for i, item := range in.LineItems {
		if item.Price.IsNegative() {
			fields[fmt.Sprintf("line_items[%d].price", i)] = "must not be negative"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func trimCustomer(in CustomerInput) CustomerInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PropertyAddress = trimAddress(in.PropertyAddress)
	if in.BillingAddress != nil {
		b := trimAddress(*in.BillingAddress)
		in.BillingAddress = &b
	}
	return in
}

func trimAddress(a AddressInput) AddressInput {
	a.Street1 = strings.TrimSpace(a.Street1)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	return a
}

// customerData builds the stored customer data from an already validated input.
func customerData(in CustomerInput, fallbackSource domain.LeadSource) domain.CustomerData {
	in = trimCustomer(in)

	d := domain.CustomerData{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		CompanyName:      in.CompanyName,
		Email:            in.Email,
		Phone:            in.Phone,
		PropertyAddress:  in.PropertyAddress.toDomain(),
		JobTitle:         in.JobTitle,
		JobType:          in.JobType,
		MeasurementValue: in.MeasurementValue,
		Source:           in.Source,
	}
	if !in.BillingAddressSame && in.BillingAddress != nil {
		b := in.BillingAddress.toDomain()
		if b != d.PropertyAddress {
			d.BillingAddress = &b
		}
	}
	if d.JobTitle == "" {
		d.JobTitle = domain.JobTitleWindowWashing
	}
	if d.JobType == "" {
		d.JobType = domain.JobTypeOneOff
	}
	if d.Source == "" {
		d.Source = fallbackSource
	}
	if d.Source == "" {
		d.Source = domain.SourceWebsite
	}
	for _, item := range in.LineItems {
		desc := strings.TrimSpace(item.Description)
		if desc == "" && item.Price.IsZero() {
			continue
		}
		d.LineItems = append(d.LineItems, domain.LineItem{Description: desc, Price: item.Price})
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}
	return d
}

// DraftCustomerInput prefills a conversion form from l. For a customer it
// echoes the stored data; for a pipeline lead it splits the display name into
// first and last name and carries over contact details.
func DraftCustomerInput(l domain.Lead) CustomerInput {
	if c, ok := l.Customer(); ok {
		d := c.Data
		in := CustomerInput{
			FirstName:          d.FirstName,
			LastName:           d.LastName,
			CompanyName:        d.CompanyName,
			Email:              d.Email,
			Phone:              d.Phone,
			PropertyAddress:    addressInput(d.PropertyAddress),
			BillingAddressSame: d.BillingAddress == nil,
			JobTitle:           d.JobTitle,
			JobType:            d.JobType,
			MeasurementValue:   d.MeasurementValue,
			Source:             d.Source,
		}
		if d.BillingAddress != nil {
			b := addressInput(*d.BillingAddress)
			in.BillingAddress = &b
		}
		for _, item := range d.LineItems {
			in.LineItems = append(in.LineItems, LineItemInput{Description: item.Description, Price: item.Price})
		}
		notes := d.Notes
		in.Notes = &notes
		return in
	}

	first, last, _ := strings.Cut(strings.TrimSpace(l.Name), " ")
	notes := SeedNotes(l)
	return CustomerInput{
		FirstName:          first,
		LastName:           strings.TrimSpace(last),
		Email:              l.Email,
		Phone:              l.Phone,
		PropertyAddress:    AddressInput{Street1: l.Address, Country: defaultCountry},
		BillingAddressSame: true,
		JobTitle:           domain.JobTitleWindowWashing,
		JobType:            domain.JobTypeOneOff,
		Notes:              &notes,
		Source:             l.Source,
	}
}
