package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadtracker/internal/database"
	"leadtracker/internal/domain"
)

var t0 = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", name)
	db, err := database.Connect(dsn, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return db
}

func sampleLead(id string) domain.Lead {
	v := decimal.RequireFromString("1250.50")
	return domain.Lead{
		ID:             id,
		Name:           "Bob Smith",
		Email:          "bob@example.com",
		Phone:          "555-0100",
		Address:        "1 Main St",
		Notes:          "likes mornings",
		Priority:       domain.PriorityHigh,
		Stage:          domain.StageQualified,
		Source:         domain.SourceReferral,
		ProjectedValue: &v,
		CreatedAt:      t0,
		UpdatedAt:      t0,
	}
}

func sampleCustomer(id string, archived bool) domain.Lead {
	l := sampleLead(id)
	l.ProjectedValue = nil
	billing := domain.Address{Street1: "PO Box 1", City: "Springfield", State: "IL", ZipCode: "62705", Country: "United States"}
	return l.AsCustomer(domain.Customer{
		Data: domain.CustomerData{
			FirstName:       "Bob",
			LastName:        "Smith",
			Email:           "bob@example.com",
			Phone:           "555-0100",
			PropertyAddress: domain.Address{Street1: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "United States"},
			BillingAddress:  &billing,
			JobTitle:        domain.JobTitleGutterCleaning,
			JobType:         domain.JobTypeSeasonal,
			LineItems: []domain.LineItem{
				{Description: "Front gutters", Price: decimal.NewFromInt(300)},
			},
			Notes:  "gate code 1234",
			Source: domain.SourceReferral,
		},
		ConvertedAt: t0.Add(time.Hour),
		Archived:    archived,
	})
}

func TestLeadRoundTrip(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertLead(ctx, sampleLead("l1"), domain.ChangeCreated))

	got, err := repo.GetLead(ctx, "l1")
	require.NoError(t, err)

	assert.Equal(t, "Bob Smith", got.Name)
	assert.Equal(t, domain.StageQualified, got.Stage)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	require.NotNil(t, got.ProjectedValue)
	assert.True(t, decimal.RequireFromString("1250.5").Equal(*got.ProjectedValue))
	assert.True(t, got.CreatedAt.Equal(t0))
	assert.False(t, got.ConvertedToCustomer())
}

func TestCustomerRoundTrip(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertLead(ctx, sampleCustomer("c1", false), domain.ChangeCreated))

	got, err := repo.GetLead(ctx, "c1")
	require.NoError(t, err)

	c, ok := got.Customer()
	require.True(t, ok)
	assert.Equal(t, domain.StageClosedWon, got.Stage)
	assert.True(t, c.ConvertedAt.Equal(t0.Add(time.Hour)))
	assert.Equal(t, "PO Box 1", c.Data.EffectiveBillingAddress().Street1)
	require.Len(t, c.Data.LineItems, 1)
	assert.True(t, decimal.NewFromInt(300).Equal(c.Data.LineItems[0].Price))
	assert.Equal(t, "gate code 1234", c.Data.Notes)
}

func TestCreateDuplicateIsStorageError(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.UpsertLead(ctx, sampleLead("dup"), domain.ChangeCreated))
	err := repo.UpsertLead(ctx, sampleLead("dup"), domain.ChangeCreated)

	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestUpsertUpdatedReplacesRow(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))
	ctx := context.Background()
	l := sampleLead("l1")
	require.NoError(t, repo.UpsertLead(ctx, l, domain.ChangeCreated))

	l.Stage = domain.StageNegotiation
	l.ProjectedValue = nil
	l.UpdatedAt = t0.Add(time.Minute)
	require.NoError(t, repo.UpsertLead(ctx, l, domain.ChangeUpdated))

	got, err := repo.GetLead(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageNegotiation, got.Stage)
	assert.Nil(t, got.ProjectedValue)
	assert.True(t, got.UpdatedAt.Equal(t0.Add(time.Minute)))

	// updated on an unknown id inserts
	require.NoError(t, repo.UpsertLead(ctx, sampleLead("l2"), domain.ChangeUpdated))
	all, err := repo.GetAllLeads(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpsertUnknownChangeKind(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))

	err := repo.UpsertLead(context.Background(), sampleLead("l1"), "deleted")
	assert.Error(t, err)
}

func TestGetAllLeadsArchiveFilter(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))
	ctx := context.Background()

	a := sampleLead("a")
	b := sampleCustomer("b", true)
	b.CreatedAt = t0.Add(time.Second)
	c := sampleCustomer("c", false)
	c.CreatedAt = t0.Add(2 * time.Second)
	for _, l := range []domain.Lead{c, a, b} {
		require.NoError(t, repo.UpsertLead(ctx, l, domain.ChangeCreated))
	}

	visible, err := repo.GetAllLeads(ctx, false)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "a", visible[0].ID)
	assert.Equal(t, "c", visible[1].ID)

	all, err := repo.GetAllLeads(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[1].Archived())
}

func TestGetLeadNotFound(t *testing.T) {
	repo := NewLeadRepository(setupTestDB(t))

	_, err := repo.GetLead(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivitiesKeepInsertionOrder(t *testing.T) {
	repo := NewActivityRepository(setupTestDB(t))
	ctx := context.Background()

	for i, kind := range []domain.ActivityKind{domain.ActivityCreated, domain.ActivityNote, domain.ActivityStageChanged} {
		leadID := "l1"
		if i == 1 {
			leadID = "l2"
		}
		a, err := repo.Append(ctx, domain.Activity{LeadID: leadID, Kind: kind, Timestamp: t0, Payload: string(kind)})
		require.NoError(t, err)
		assert.NotEmpty(t, a.ID)
	}

	all, err := repo.GetActivities(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, domain.ActivityCreated, all[0].Kind)
	assert.Equal(t, domain.ActivityNote, all[1].Kind)
	assert.Equal(t, domain.ActivityStageChanged, all[2].Kind)

	forLead, err := repo.ListByLead(ctx, "l1")
	require.NoError(t, err)
	assert.Len(t, forLead, 2)
}

func TestCampaignRepository(t *testing.T) {
	repo := NewCampaignRepository(setupTestDB(t))
	ctx := context.Background()

	c := domain.Campaign{
		Name:      "Spring push",
		Targeting: domain.Targeting{Stages: []domain.Stage{domain.StageQualified}},
		CreatedAt: t0,
		UpdatedAt: t0,
	}
	require.NoError(t, repo.Create(ctx, &c))
	require.NotEmpty(t, c.ID)

	c.Targeting = domain.Targeting{Sources: []domain.LeadSource{domain.SourceNextdoor}, IncludeCustomers: true}
	c.UpdatedAt = t0.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.LeadSource{domain.SourceNextdoor}, got.Targeting.Sources)
	assert.Empty(t, got.Targeting.Stages)
	assert.True(t, got.Targeting.IncludeCustomers)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = repo.Update(ctx, domain.Campaign{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProfileRepository(t *testing.T) {
	repo := NewProfileRepository(setupTestDB(t))
	ctx := context.Background()

	empty, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.Name)

	p := domain.BusinessProfile{
		Name:            "Crystal Clear",
		Type:            "Window Cleaning",
		CustomJobTitles: []domain.JobTitle{"Solar Panel Cleaning"},
		UpdatedAt:       t0,
	}
	require.NoError(t, repo.Save(ctx, p))
	p.Name = "Crystal Clear LLC"
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Crystal Clear LLC", got.Name)
	assert.Equal(t, []domain.JobTitle{"Solar Panel Cleaning"}, got.CustomJobTitles)
}

func TestWrapErr(t *testing.T) {
	assert.NoError(t, wrapErr("op", nil))
	assert.ErrorIs(t, wrapErr("op", gorm.ErrRecordNotFound), domain.ErrNotFound)

	err := wrapErr("create lead", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key"}))
	var serr *domain.StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "23505", serr.Code)
	assert.Equal(t, "create lead", serr.Op)
}

func TestResetKeepsProfile(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	leads := NewLeadRepository(db)
	require.NoError(t, leads.UpsertLead(ctx, sampleLead("l1"), domain.ChangeCreated))
	require.NoError(t, leads.UpsertLead(ctx, sampleCustomer("c1", true), domain.ChangeCreated))
	_, err := NewActivityRepository(db).Append(ctx, domain.Activity{LeadID: "l1", Kind: domain.ActivityCreated, Timestamp: t0})
	require.NoError(t, err)
	profiles := NewProfileRepository(db)
	require.NoError(t, profiles.Save(ctx, domain.BusinessProfile{Name: "Crystal Clear", UpdatedAt: t0}))

	deleted, err := Reset(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"activities": 1, "campaigns": 0, "leads": 2}, deleted)

	all, err := leads.GetAllLeads(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, all)

	p, err := profiles.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Crystal Clear", p.Name)
}
