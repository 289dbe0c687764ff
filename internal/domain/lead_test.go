package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func customerLead() Lead {
	l := Lead{ID: "l1", Name: "Ann Lee", Stage: StageNegotiation, CreatedAt: t0, UpdatedAt: t0}
	return l.AsCustomer(Customer{
		Data: CustomerData{
			FirstName: "Ann",
			LastName:  "Lee",
			LineItems: []LineItem{{Description: "Windows", Price: decimal.NewFromInt(120)}},
		},
		ConvertedAt: t0,
	})
}

func TestAsCustomerPinsClosedWon(t *testing.T) {
	plain := Lead{ID: "l1", Stage: StageQualified}
	assert.False(t, plain.ConvertedToCustomer())
	assert.False(t, plain.Archived())
	_, ok := plain.Customer()
	assert.False(t, ok)

	c := customerLead()
	assert.True(t, c.ConvertedToCustomer())
	assert.Equal(t, StageClosedWon, c.Stage)
}

func TestCustomerReturnsACopy(t *testing.T) {
	l := customerLead()
	c, ok := l.Customer()
	require.True(t, ok)
	c.Data.LineItems[0].Description = "changed"
	c.Archived = true

	again, _ := l.Customer()
	assert.Equal(t, "Windows", again.Data.LineItems[0].Description)
	assert.False(t, l.Archived())
}

func TestEffectiveBillingAddress(t *testing.T) {
	property := Address{Street1: "1 Main St", City: "Springfield"}
	d := CustomerData{PropertyAddress: property}
	assert.Equal(t, property, d.EffectiveBillingAddress())

	billing := Address{Street1: "PO Box 9"}
	d.BillingAddress = &billing
	assert.Equal(t, billing, d.EffectiveBillingAddress())
}

func TestLeadJSONRoundTrip(t *testing.T) {
	l := customerLead()
	raw, err := json.Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"converted_to_customer":true`)

	var back Lead
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.ConvertedToCustomer())
	c, _ := back.Customer()
	assert.Equal(t, "Ann", c.Data.FirstName)
	assert.True(t, c.ConvertedAt.Equal(t0))
}

func TestLeadJSONRejectsInconsistentCustomer(t *testing.T) {
	cases := map[string]string{
		"flag without data": `{"id":"x","converted_to_customer":true}`,
		"data without flag": `{"id":"x","customer_data":{"first_name":"A"}}`,
		"archived lead":     `{"id":"x","customer_archived":true}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			var l Lead
			err := json.Unmarshal([]byte(body), &l)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLeadJSONRejectsUnknownEnums(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"unknown stage":    {`{"id":"x","stage":"Dormant"}`, "stage"},
		"missing stage":    {`{"id":"x"}`, "stage"},
		"unknown priority": {`{"id":"x","stage":"New Lead","priority":"Urgent"}`, "priority"},
		"unknown source":   {`{"id":"x","stage":"New Lead","source":"Billboard"}`, "source"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var l Lead
			err := json.Unmarshal([]byte(tc.body), &l)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	var l Lead
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","stage":"Qualified","priority":"High","source":"Referral"}`), &l))
	assert.Equal(t, StageQualified, l.Stage)
	assert.Equal(t, PriorityHigh, l.Priority)
	assert.Equal(t, SourceReferral, l.Source)
}

func TestErrorKinds(t *testing.T) {
	verr := NewValidationError("last_name", "required")
	assert.ErrorIs(t, fmt.Errorf("create: %w", verr), ErrValidation)
	assert.Equal(t, "validation error: last_name: required", verr.Error())

	serr := &InvalidStateError{Op: "archive", Reason: "lead has not been converted"}
	assert.ErrorIs(t, serr, ErrInvalidState)
	assert.NotErrorIs(t, serr, ErrValidation)

	cause := errors.New("connection refused")
	st := &StorageError{Op: "upsert lead", Code: "08006", Err: cause}
	assert.ErrorIs(t, st, ErrStorage)
	assert.ErrorIs(t, st, cause)
	assert.Contains(t, st.Error(), "code 08006")
}

func TestEnums(t *testing.T) {
	assert.Len(t, Stages, 6)
	assert.Len(t, Priorities, 3)
	assert.Len(t, Sources, 10)
	assert.True(t, StageClosedLost.IsTerminal())
	assert.False(t, StageNegotiation.IsTerminal())
	assert.False(t, Stage("Dormant").IsValid())
	assert.True(t, JobTitle("Solar Panel Cleaning").IsKnown([]JobTitle{"Solar Panel Cleaning"}))
	assert.False(t, JobTitle("Solar Panel Cleaning").IsKnown(nil))
	assert.Equal(t, "Window Pane Count", JobTitleWindowWashing.MeasurementLabel())
	assert.Equal(t, "Square Footage", JobTitleGutterCleaning.MeasurementLabel())
}
