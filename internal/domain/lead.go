package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Lead is a pipeline record. It is either a plain pipeline lead or, once
// converted (or created directly as one), a customer. The customer variant is
// only reachable through AsCustomer, so customer data, conversion time and the
// archive flag cannot exist on a lead that was never converted.
type Lead struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	Address          string
	Notes            string
	Priority         Priority
	Stage            Stage
	Source           LeadSource
	ProjectedValue   *decimal.Decimal
	IsDirectCustomer bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	customer *Customer
}

// Customer is the customer half of a converted Lead.
type Customer struct {
	Data        CustomerData
	ConvertedAt time.Time
	Archived    bool
}

// CustomerData holds the job and billing details captured on conversion.
type CustomerData struct {
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	CompanyName      string     `json:"company_name,omitempty"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	PropertyAddress  Address    `json:"property_address"`
	BillingAddress   *Address   `json:"billing_address"`
	JobTitle         JobTitle   `json:"job_title"`
	JobType          JobType    `json:"job_type"`
	MeasurementValue float64    `json:"measurement_value"`
	LineItems        []LineItem `json:"line_items"`
	Notes            string     `json:"notes"`
	Source           LeadSource `json:"source"`
}

type Address struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

type LineItem struct {
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// EffectiveBillingAddress resolves a nil billing address to the property address.
func (d CustomerData) EffectiveBillingAddress() Address {
	if d.BillingAddress == nil {
		return d.PropertyAddress
	}
	return *d.BillingAddress
}

func (d CustomerData) FullName() string {
	if d.LastName == "" {
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

func (d CustomerData) clone() CustomerData {
	out := d
	out.LineItems = slices.Clone(d.LineItems)
	if d.BillingAddress != nil {
		b := *d.BillingAddress
		out.BillingAddress = &b
	}
	return out
}

// ConvertedToCustomer reports whether l carries customer data.
func (l Lead) ConvertedToCustomer() bool {
	return l.customer != nil
}

// Customer returns a copy of the customer variant, if any.
func (l Lead) Customer() (Customer, bool) {
	if l.customer == nil {
		return Customer{}, false
	}
	c := *l.customer
	c.Data = c.Data.clone()
	return c, true
}

// Archived is false for every lead that is not a customer.
func (l Lead) Archived() bool {
	return l.customer != nil && l.customer.Archived
}

// AsCustomer returns a copy of l in the customer variant. The stage is pinned
// to Closed-Won, which is the only stage a customer may hold.
func (l Lead) AsCustomer(c Customer) Lead {
	c.Data = c.Data.clone()
	l.customer = &c
	l.Stage = StageClosedWon
	return l
}

type leadJSON struct {
	ID                  string           `json:"id"`
	Name                string           `json:"name"`
	Email               string           `json:"email"`
	Phone               string           `json:"phone"`
	Address             string           `json:"address"`
	Notes               string           `json:"notes"`
	Priority            Priority         `json:"priority"`
	Stage               Stage            `json:"stage"`
	Source              LeadSource       `json:"source"`
	ProjectedValue      *decimal.Decimal `json:"projected_value,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	ConvertedAt         *time.Time       `json:"converted_at,omitempty"`
	ConvertedToCustomer bool             `json:"converted_to_customer"`
	IsDirectCustomer    bool             `json:"is_direct_customer"`
	CustomerArchived    bool             `json:"customer_archived"`
	CustomerData        *CustomerData    `json:"customer_data,omitempty"`
}

func (l Lead) MarshalJSON() ([]byte, error) {
	out := leadJSON{
		ID:               l.ID,
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Address:          l.Address,
		Notes:            l.Notes,
		Priority:         l.Priority,
		Stage:            l.Stage,
		Source:           l.Source,
		ProjectedValue:   l.ProjectedValue,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
		IsDirectCustomer: l.IsDirectCustomer,
	}
	if c, ok := l.Customer(); ok {
		convertedAt := c.ConvertedAt
		out.ConvertedAt = &convertedAt
		out.ConvertedToCustomer = true
		out.CustomerArchived = c.Archived
		out.CustomerData = &c.Data
	}
	return json.Marshal(out)
}

func (l *Lead) UnmarshalJSON(b []byte) error {
	var in leadJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	if in.ConvertedToCustomer != (in.CustomerData != nil) {
		return NewValidationError("customer_data", "must be present exactly when converted_to_customer is true")
	}
	if in.CustomerArchived && !in.ConvertedToCustomer {
		return NewValidationError("customer_archived", "only customers can be archived")
	}
	fields := map[string]string{}
	if !in.Stage.IsValid() {
		fields["stage"] = fmt.Sprintf("unknown stage %q", in.Stage)
	}
	// priority and source stay optional; unset values are filled on write
	if in.Priority != "" && !in.Priority.IsValid() {
		fields["priority"] = fmt.Sprintf("unknown priority %q", in.Priority)
	}
	if in.Source != "" && !in.Source.IsValid() {
		fields["source"] = fmt.Sprintf("unknown source %q", in.Source)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	*l = Lead{
		ID:               in.ID,
		Name:             in.Name,
		Email:            in.Email,
		Phone:            in.Phone,
		Address:          in.Address,
		Notes:            in.Notes,
		Priority:         in.Priority,
		Stage:            in.Stage,
		Source:           in.Source,
		ProjectedValue:   in.ProjectedValue,
		IsDirectCustomer: in.IsDirectCustomer,
		CreatedAt:        in.CreatedAt,
		UpdatedAt:        in.UpdatedAt,
	}
	if in.ConvertedToCustomer {
		c := Customer{Data: *in.CustomerData, Archived: in.CustomerArchived}
		if in.ConvertedAt != nil {
			c.ConvertedAt = *in.ConvertedAt
		}
		*l = l.AsCustomer(c)
	}
	return nil
}
