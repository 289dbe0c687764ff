package domain

import (
	"database/sql/driver"
	"fmt"
	"slices"
)

// Stage is a position in the sales pipeline.
type Stage string

const (
	StageNewLead      Stage = "New Lead"
	StageQualified    Stage = "Qualified"
	StageProposalSent Stage = "Proposal Sent"
	StageNegotiation  Stage = "Negotiation"
	StageClosedWon    Stage = "Closed-Won"
	StageClosedLost   Stage = "Closed-Lost"
)

// Stages lists every stage in canonical (chart) order.
var Stages = []Stage{
	StageNewLead,
	StageQualified,
	StageProposalSent,
	StageNegotiation,
	StageClosedWon,
	StageClosedLost,
}

func (s Stage) IsValid() bool {
	return slices.Contains(Stages, s)
}

// IsTerminal reports whether no further stage transition is allowed out of s.
func (s Stage) IsTerminal() bool {
	return s == StageClosedWon || s == StageClosedLost
}

func (s *Stage) Scan(src interface{}) error {
	str, err := scanString(src, "Stage")
	if err != nil {
		return err
	}
	*s = Stage(str)
	return nil
}

func (s Stage) Value() (driver.Value, error) {
	return string(s), nil
}

// ParseStage converts a raw value into a Stage, rejecting anything outside the closed set.
func ParseStage(v string) (Stage, error) {
	s := Stage(v)
	if !s.IsValid() {
		return "", NewValidationError("stage", fmt.Sprintf("unknown stage %q", v))
	}
	return s, nil
}

// Priority ranks how urgently a lead should be worked.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	return slices.Contains(Priorities, p)
}

func (p *Priority) Scan(src interface{}) error {
	str, err := scanString(src, "Priority")
	if err != nil {
		return err
	}
	*p = Priority(str)
	return nil
}

func (p Priority) Value() (driver.Value, error) {
	return string(p), nil
}

func ParsePriority(v string) (Priority, error) {
	p := Priority(v)
	if !p.IsValid() {
		return "", NewValidationError("priority", fmt.Sprintf("unknown priority %q", v))
	}
	return p, nil
}

// LeadSource is the marketing channel a lead came from. "Other" is the catch-all.
type LeadSource string

const (
	SourceWebsite     LeadSource = "Website"
	SourceReferral    LeadSource = "Referral"
	SourceGoogleAds   LeadSource = "Google Ads"
	SourceSocialMedia LeadSource = "Social Media"
	SourceDoorHanger  LeadSource = "Door Hanger"
	SourceYardSign    LeadSource = "Yard Sign"
	SourceHomeShow    LeadSource = "Home Show"
	SourceNextdoor    LeadSource = "Nextdoor"
	SourceDirectMail  LeadSource = "Direct Mail"
	SourceOther       LeadSource = "Other"
)

// Sources lists every lead source in canonical order.
var Sources = []LeadSource{
	SourceWebsite,
	SourceReferral,
	SourceGoogleAds,
	SourceSocialMedia,
	SourceDoorHanger,
	SourceYardSign,
	SourceHomeShow,
	SourceNextdoor,
	SourceDirectMail,
	SourceOther,
}

func (s LeadSource) IsValid() bool {
	return slices.Contains(Sources, s)
}

func (s *LeadSource) Scan(src interface{}) error {
	str, err := scanString(src, "LeadSource")
	if err != nil {
		return err
	}
	*s = LeadSource(str)
	return nil
}

func (s LeadSource) Value() (driver.Value, error) {
	return string(s), nil
}

func ParseSource(v string) (LeadSource, error) {
	s := LeadSource(v)
	if !s.IsValid() {
		return "", NewValidationError("source", fmt.Sprintf("unknown source %q", v))
	}
	return s, nil
}

// JobTitle names the service sold to a customer. The built-in titles can be
// extended with custom titles from the business profile.
type JobTitle string

const (
	JobTitleWindowWashing    JobTitle = "Window Washing"
	JobTitlePressureWashing  JobTitle = "Pressure Washing"
	JobTitleGutterCleaning   JobTitle = "Gutter Cleaning"
	JobTitleHolidayLights    JobTitle = "Holiday Lights"
	JobTitleMultipleServices JobTitle = "Multiple Services"
)

var BuiltinJobTitles = []JobTitle{
	JobTitleWindowWashing,
	JobTitlePressureWashing,
	JobTitleGutterCleaning,
	JobTitleHolidayLights,
	JobTitleMultipleServices,
}

// IsKnown reports whether t is a built-in title or one of custom.
func (t JobTitle) IsKnown(custom []JobTitle) bool {
	return slices.Contains(BuiltinJobTitles, t) || slices.Contains(custom, t)
}

// MeasurementLabel describes what CustomerData.MeasurementValue counts for this title.
func (t JobTitle) MeasurementLabel() string {
	if t == JobTitleWindowWashing {
		return "Window Pane Count"
	}
	return "Square Footage"
}

// JobType is the service cadence agreed with a customer.
type JobType string

const (
	JobTypeOneOff         JobType = "One-off Job"
	JobTypeSemiAnnual     JobType = "Semi-Annual"
	JobTypeSeasonal       JobType = "Seasonal"
	JobTypeQuarterly      JobType = "Quarterly"
	JobTypeBiMonthly      JobType = "Bi-Monthly"
	JobTypeMonthly        JobType = "Monthly"
	JobTypeCustomSchedule JobType = "Custom Schedule"
)

var JobTypes = []JobType{
	JobTypeOneOff,
	JobTypeSemiAnnual,
	JobTypeSeasonal,
	JobTypeQuarterly,
	JobTypeBiMonthly,
	JobTypeMonthly,
	JobTypeCustomSchedule,
}

func (t JobType) IsValid() bool {
	return slices.Contains(JobTypes, t)
}

func scanString(src interface{}, name string) (string, error) {
	switch v := src.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("cannot scan %T into %s", src, name)
	}
}
