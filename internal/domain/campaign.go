package domain

import "time"

// Targeting describes which leads a campaign is aimed at. An empty set places
// no restriction on its dimension. Customers are only included when
// IncludeCustomers is set.
type Targeting struct {
	Stages           []Stage      `json:"stages"`
	Priorities       []Priority   `json:"priorities"`
	Sources          []LeadSource `json:"sources"`
	IncludeCustomers bool         `json:"include_customers"`
}

type Campaign struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Targeting   Targeting `json:"targeting"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BusinessProfile is the single business the tracker is configured for.
type BusinessProfile struct {
	Name             string     `json:"name"`
	Type             string     `json:"type"`
	Website          string     `json:"website"`
	Description      string     `json:"description"`
	AvgContractValue string     `json:"avg_contract_value"`
	MinContractValue string     `json:"min_contract_value"`
	MaxContractValue string     `json:"max_contract_value"`
	TargetMarket     string     `json:"target_market"`
	ServiceArea      string     `json:"service_area"`
	EmployeeCount    string     `json:"employee_count"`
	YearFounded      string     `json:"year_founded"`
	CustomJobTitles  []JobTitle `json:"custom_job_titles"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

var BusinessTypes = []string{
	"Window Cleaning",
	"Pressure Washing",
	"Gutter Services",
	"Holiday Lighting",
	"Multi-Service",
}
