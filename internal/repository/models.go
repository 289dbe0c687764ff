package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"leadtracker/internal/domain"
)

type leadModel struct {
	ID                  string               `gorm:"column:id;primaryKey;size:36"`
	Name                string               `gorm:"column:name;not null"`
	Email               string               `gorm:"column:email"`
	Phone               string               `gorm:"column:phone"`
	Address             string               `gorm:"column:address"`
	Notes               string               `gorm:"column:notes;type:text"`
	Priority            domain.Priority      `gorm:"column:priority;size:16"`
	Stage               domain.Stage         `gorm:"column:stage;size:32;index"`
	Source              domain.LeadSource    `gorm:"column:source;size:32"`
	ProjectedValue      decimal.NullDecimal  `gorm:"column:projected_value;type:numeric(14,2)"`
	IsDirectCustomer    bool                 `gorm:"column:is_direct_customer"`
	ConvertedToCustomer bool                 `gorm:"column:converted_to_customer;index"`
	CustomerArchived    bool                 `gorm:"column:customer_archived"`
	ConvertedAt         *time.Time           `gorm:"column:converted_at"`
	CustomerData        *domain.CustomerData `gorm:"column:customer_data;type:text;serializer:json"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (leadModel) TableName() string { return "leads" }

func toLeadModel(l domain.Lead) leadModel {
	m := leadModel{
		ID:               l.ID,
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Address:          l.Address,
		Notes:            l.Notes,
		Priority:         l.Priority,
		Stage:            l.Stage,
		Source:           l.Source,
		IsDirectCustomer: l.IsDirectCustomer,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
	if l.ProjectedValue != nil {
		m.ProjectedValue = decimal.NewNullDecimal(*l.ProjectedValue)
	}
	if c, ok := l.Customer(); ok {
		convertedAt := c.ConvertedAt
		m.ConvertedToCustomer = true
		m.CustomerArchived = c.Archived
		m.ConvertedAt = &convertedAt
		m.CustomerData = &c.Data
	}
	return m
}

func toDomainLead(m leadModel) domain.Lead {
	l := domain.Lead{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		Address:          m.Address,
		Notes:            m.Notes,
		Priority:         m.Priority,
		Stage:            m.Stage,
		Source:           m.Source,
		IsDirectCustomer: m.IsDirectCustomer,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.ProjectedValue.Valid {
		v := m.ProjectedValue.Decimal
		l.ProjectedValue = &v
	}
	// A row flagged as converted but missing its data still becomes a
	// customer so the Closed-Won stage and archive flag survive.
	if m.ConvertedToCustomer {
		c := domain.Customer{Archived: m.CustomerArchived}
		if m.CustomerData != nil {
			c.Data = *m.CustomerData
		}
		if m.ConvertedAt != nil {
			c.ConvertedAt = *m.ConvertedAt
		}
		l = l.AsCustomer(c)
	}
	return l
}

type activityModel struct {
	Seq       uint64    `gorm:"column:seq;primaryKey;autoIncrement"`
	ID        string    `gorm:"column:id;size:36;uniqueIndex"`
	LeadID    string    `gorm:"column:lead_id;size:36;index"`
	Kind      string    `gorm:"column:kind;size:32"`
	Timestamp time.Time `gorm:"column:timestamp;index"`
	Payload   string    `gorm:"column:payload;type:text"`
}

func (activityModel) TableName() string { return "activities" }

func (m *activityModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func toActivityModel(a domain.Activity) activityModel {
	return activityModel{
		ID:        a.ID,
		LeadID:    a.LeadID,
		Kind:      string(a.Kind),
		Timestamp: a.Timestamp,
		Payload:   a.Payload,
	}
}

func toDomainActivity(m activityModel) domain.Activity {
	return domain.Activity{
		ID:        m.ID,
		LeadID:    m.LeadID,
		Kind:      domain.ActivityKind(m.Kind),
		Timestamp: m.Timestamp,
		Payload:   m.Payload,
	}
}

type campaignModel struct {
	ID          string           `gorm:"column:id;primaryKey;size:36"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description;type:text"`
	Targeting   domain.Targeting `gorm:"column:targeting;type:text;serializer:json"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (campaignModel) TableName() string { return "campaigns" }

func (m *campaignModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// profileRowID is the primary key of the single business profile row.
const profileRowID = 1

type profileModel struct {
	ID               uint              `gorm:"column:id;primaryKey"`
	Name             string            `gorm:"column:name"`
	Type             string            `gorm:"column:type"`
	Website          string            `gorm:"column:website"`
	Description      string            `gorm:"column:description;type:text"`
	AvgContractValue string            `gorm:"column:avg_contract_value"`
	MinContractValue string            `gorm:"column:min_contract_value"`
	MaxContractValue string            `gorm:"column:max_contract_value"`
	TargetMarket     string            `gorm:"column:target_market"`
	ServiceArea      string            `gorm:"column:service_area"`
	EmployeeCount    string            `gorm:"column:employee_count"`
	YearFounded      string            `gorm:"column:year_founded"`
	CustomJobTitles  []domain.JobTitle `gorm:"column:custom_job_titles;type:text;serializer:json"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (profileModel) TableName() string { return "business_profiles" }

// Migrate creates or updates every table the record store uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&leadModel{}, &activityModel{}, &campaignModel{}, &profileModel{})
}
