package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"leadtracker/internal/app"
	"leadtracker/internal/cache"
	"leadtracker/internal/config"
	"leadtracker/internal/database"
	"leadtracker/internal/pipeline"
	"leadtracker/internal/pkg/metrics"
	"leadtracker/internal/repository"
)

type E2ETestSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type TestResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func setupTestSuite(t *testing.T) *E2ETestSuite {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", name), zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.Migrate(db), "Failed to migrate test database")

	gin.SetMode(gin.TestMode)
	r := app.NewRouter(app.Deps{
		Config: &config.Config{
			AppEnv:               "test",
			TimelineDefaultLimit: 10,
			DefaultPhoneRegion:   "US",
		},
		DB:      db,
		Cache:   cache.Noop{},
		Metrics: metrics.New(prometheus.NewRegistry()),
		Logger:  zap.NewNop(),
		Engine:  pipeline.New(),
	})

	return &E2ETestSuite{router: r, db: db}
}

func (s *E2ETestSuite) makeRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			panic(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// call performs the request, checks the status and decodes data into out
// when out is non-nil.
func (s *E2ETestSuite) call(t *testing.T, method, path string, body interface{}, wantStatus int, out interface{}) *TestResponse {
	t.Helper()
	w := s.makeRequest(method, path, body)
	resp := parseResponse(t, w)
	if !assert.Equal(t, wantStatus, w.Code, "%s %s", method, path) {
		logErrorResponse(t, resp, method+" "+path)
	}
	if out != nil && resp.Success {
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) *TestResponse {
	t.Helper()
	var resp TestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response. Status: %d, Body: %s", w.Code, w.Body.String())
	}
	return &resp
}

func logErrorResponse(t *testing.T, resp *TestResponse, context string) {
	if resp.Error != nil {
		t.Logf("%s - Error: [%s] %s", context, resp.Error.Code, resp.Error.Message)
		if resp.Error.Details != nil {
			t.Logf("  Details: %+v", resp.Error.Details)
		}
	}
}

type leadView struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Stage               string `json:"stage"`
	Source              string `json:"source"`
	ConvertedToCustomer bool   `json:"converted_to_customer"`
	CustomerArchived    bool   `json:"customer_archived"`
	CustomerData        *struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		JobTitle  string `json:"job_title"`
		Notes     string `json:"notes"`
	} `json:"customer_data"`
}

type activityView struct {
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

func (s *E2ETestSuite) createLead(t *testing.T, body map[string]interface{}) leadView {
	t.Helper()
	var l leadView
	s.call(t, http.MethodPost, "/api/v1/leads", body, http.StatusCreated, &l)
	require.NotEmpty(t, l.ID)
	return l
}

func (s *E2ETestSuite) moveTo(t *testing.T, id string, stages ...string) {
	t.Helper()
	for _, st := range stages {
		s.call(t, http.MethodPost, "/api/v1/leads/"+id+"/stage", map[string]string{"stage": st}, http.StatusOK, nil)
	}
}

func (s *E2ETestSuite) convert(t *testing.T, id string) leadView {
	t.Helper()
	var draft map[string]interface{}
	s.call(t, http.MethodGet, "/api/v1/leads/"+id+"/conversion-draft", nil, http.StatusOK, &draft)

	addr := draft["property_address"].(map[string]interface{})
	if addr["street1"] == "" {
		addr["street1"] = "1 Main St"
	}
	addr["city"] = "Springfield"
	addr["state"] = "IL"
	addr["zip_code"] = "62704"
	draft["line_items"] = []map[string]string{{"description": "Exterior windows", "price": "300"}}

	var l leadView
	s.call(t, http.MethodPost, "/api/v1/leads/"+id+"/convert", draft, http.StatusOK, &l)
	return l
}

// =============================================================================
// Flow 1: Lead lifecycle through conversion and archiving
// =============================================================================

func TestFlow1_LeadLifecycle(t *testing.T) {
	suite := setupTestSuite(t)

	jane := suite.createLead(t, map[string]interface{}{
		"name":            "Jane Doe",
		"email":           "jane@example.com",
		"phone":           "(217) 555-0142",
		"address":         "12 Elm St",
		"notes":           "Two storey house",
		"priority":        "High",
		"source":          "Referral",
		"projected_value": "850",
	})
	assert.Equal(t, "New Lead", jane.Stage)

	t.Run("walk the pipeline", func(t *testing.T) {
		suite.moveTo(t, jane.ID, "Qualified", "Proposal Sent", "Negotiation")
		var got leadView
		suite.call(t, http.MethodGet, "/api/v1/leads/"+jane.ID, nil, http.StatusOK, &got)
		assert.Equal(t, "Negotiation", got.Stage)
	})

	t.Run("convert to customer", func(t *testing.T) {
		c := suite.convert(t, jane.ID)
		assert.True(t, c.ConvertedToCustomer)
		assert.Equal(t, "Closed-Won", c.Stage)
		require.NotNil(t, c.CustomerData)
		assert.Equal(t, "Jane", c.CustomerData.FirstName)
		assert.Equal(t, "Doe", c.CustomerData.LastName)
		assert.Contains(t, c.CustomerData.Notes, "Two storey house")
	})

	t.Run("customers leave the lead list", func(t *testing.T) {
		var list struct {
			Count int `json:"count"`
		}
		suite.call(t, http.MethodGet, "/api/v1/leads", nil, http.StatusOK, &list)
		assert.Equal(t, 0, list.Count)

		var customers struct {
			Customers []leadView `json:"customers"`
			Count     int        `json:"count"`
		}
		suite.call(t, http.MethodGet, "/api/v1/customers", nil, http.StatusOK, &customers)
		require.Equal(t, 1, customers.Count)
		assert.Equal(t, jane.ID, customers.Customers[0].ID)
	})

	t.Run("stage changes are rejected after close", func(t *testing.T) {
		resp := suite.call(t, http.MethodPost, "/api/v1/leads/"+jane.ID+"/stage", map[string]string{"stage": "Qualified"}, http.StatusConflict, nil)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("archive and unarchive", func(t *testing.T) {
		var archived leadView
		suite.call(t, http.MethodPost, "/api/v1/customers/"+jane.ID+"/archive", nil, http.StatusOK, &archived)
		assert.True(t, archived.CustomerArchived)

		var active, inactive struct {
			Count int `json:"count"`
		}
		suite.call(t, http.MethodGet, "/api/v1/customers", nil, http.StatusOK, &active)
		suite.call(t, http.MethodGet, "/api/v1/customers/archived", nil, http.StatusOK, &inactive)
		assert.Equal(t, 0, active.Count)
		assert.Equal(t, 1, inactive.Count)

		suite.call(t, http.MethodPost, "/api/v1/customers/"+jane.ID+"/unarchive", nil, http.StatusOK, &archived)
		assert.False(t, archived.CustomerArchived)
	})

	t.Run("history is newest first", func(t *testing.T) {
		var acts []activityView
		suite.call(t, http.MethodGet, "/api/v1/leads/"+jane.ID+"/activities", nil, http.StatusOK, &acts)
		require.Len(t, acts, 7)
		assert.Equal(t, "unarchived", acts[0].Kind)
		assert.Equal(t, "archived", acts[1].Kind)
		assert.Equal(t, "converted", acts[2].Kind)
		assert.Equal(t, "created", acts[6].Kind)
	})

	log.Printf("Flow 1 lead lifecycle - SUCCESS")
}

// =============================================================================
// Flow 2: Analytics over a mixed pipeline
// =============================================================================

func TestFlow2_Analytics(t *testing.T) {
	suite := setupTestSuite(t)

	won := suite.createLead(t, map[string]interface{}{"name": "Won Deal", "email": "won@example.com", "phone": "2175550100", "source": "Website"})
	suite.moveTo(t, won.ID, "Qualified", "Negotiation")
	suite.convert(t, won.ID)

	open := suite.createLead(t, map[string]interface{}{"name": "Open Deal", "source": "Website"})
	suite.moveTo(t, open.ID, "Qualified")

	lost := suite.createLead(t, map[string]interface{}{"name": "Lost Deal", "source": "Nextdoor"})
	suite.moveTo(t, lost.ID, "Closed-Lost")

	t.Run("summary", func(t *testing.T) {
		var summary struct {
			Metrics struct {
				TotalLeads     int     `json:"total_leads"`
				ConversionRate float64 `json:"conversion_rate"`
				TotalRevenue   string  `json:"total_revenue"`
				AvgDealSize    string  `json:"avg_deal_size"`
			} `json:"metrics"`
		}
		suite.call(t, http.MethodGet, "/api/v1/analytics/summary", nil, http.StatusOK, &summary)
		assert.Equal(t, 2, summary.Metrics.TotalLeads)
		assert.InDelta(t, 1.0/3.0, summary.Metrics.ConversionRate, 1e-9)
		assert.Equal(t, "300", summary.Metrics.TotalRevenue)
		assert.Equal(t, "300", summary.Metrics.AvgDealSize)
	})

	t.Run("stage distribution covers every stage", func(t *testing.T) {
		var stages []struct {
			Key   string `json:"key"`
			Count int    `json:"count"`
		}
		suite.call(t, http.MethodGet, "/api/v1/analytics/stages", nil, http.StatusOK, &stages)
		require.Len(t, stages, 6)
		counts := map[string]int{}
		for _, b := range stages {
			counts[b.Key] = b.Count
		}
		assert.Equal(t, 0, counts["New Lead"])
		assert.Equal(t, 1, counts["Qualified"])
		assert.Equal(t, 1, counts["Closed-Won"])
		assert.Equal(t, 1, counts["Closed-Lost"])
	})

	t.Run("timeline respects the limit", func(t *testing.T) {
		var acts []activityView
		suite.call(t, http.MethodGet, "/api/v1/analytics/timeline?limit=3", nil, http.StatusOK, &acts)
		assert.Len(t, acts, 3)
		suite.call(t, http.MethodGet, "/api/v1/analytics/timeline?limit=zero", nil, http.StatusUnprocessableEntity, nil)
	})

	t.Run("export is an xlsx workbook", func(t *testing.T) {
		w := suite.makeRequest(http.MethodGet, "/api/v1/analytics/export", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "pipeline-report-")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
	})

	log.Printf("Flow 2 analytics - SUCCESS")
}

// =============================================================================
// Flow 3: Campaign targeting
// =============================================================================

func TestFlow3_CampaignTargeting(t *testing.T) {
	suite := setupTestSuite(t)

	hot := suite.createLead(t, map[string]interface{}{"name": "Hot Lead", "priority": "High", "source": "Google Ads"})
	suite.createLead(t, map[string]interface{}{"name": "Cold Lead", "priority": "Low", "source": "Google Ads"})
	customer := suite.createLead(t, map[string]interface{}{"name": "Happy Customer", "email": "happy@example.com", "phone": "2175550111", "priority": "High"})
	suite.convert(t, customer.ID)

	var campaign struct {
		ID string `json:"id"`
	}
	suite.call(t, http.MethodPost, "/api/v1/campaigns", map[string]interface{}{
		"name":      "High priority push",
		"targeting": map[string]interface{}{"priorities": []string{"High"}},
	}, http.StatusCreated, &campaign)
	require.NotEmpty(t, campaign.ID)

	type audience struct {
		Unfiltered bool     `json:"unfiltered"`
		LeadIDs    []string `json:"lead_ids"`
		Count      int      `json:"count"`
	}

	var a audience
	suite.call(t, http.MethodGet, "/api/v1/campaigns/"+campaign.ID+"/audience", nil, http.StatusOK, &a)
	assert.Equal(t, []string{hot.ID}, a.LeadIDs)

	suite.call(t, http.MethodPut, "/api/v1/campaigns/"+campaign.ID+"/targeting", map[string]interface{}{
		"priorities":        []string{"High"},
		"include_customers": true,
	}, http.StatusOK, nil)
	suite.call(t, http.MethodGet, "/api/v1/campaigns/"+campaign.ID+"/audience", nil, http.StatusOK, &a)
	assert.ElementsMatch(t, []string{hot.ID, customer.ID}, a.LeadIDs)

	resp := suite.call(t, http.MethodPut, "/api/v1/campaigns/"+campaign.ID+"/targeting", map[string]interface{}{
		"stages": []string{"Dormant"},
	}, http.StatusUnprocessableEntity, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	log.Printf("Flow 3 campaign targeting - SUCCESS")
}

// =============================================================================
// Flow 4: Business profile custom job titles
// =============================================================================

func TestFlow4_CustomJobTitles(t *testing.T) {
	suite := setupTestSuite(t)

	lead := suite.createLead(t, map[string]interface{}{"name": "Sol Panel", "email": "sol@example.com", "phone": "2175550122"})
	suite.moveTo(t, lead.ID, "Negotiation")

	var draft map[string]interface{}
	suite.call(t, http.MethodGet, "/api/v1/leads/"+lead.ID+"/conversion-draft", nil, http.StatusOK, &draft)
	draft["job_title"] = "Solar Panel Cleaning"
	draft["property_address"] = map[string]string{"street1": "1 Sun Rd", "city": "Springfield", "state": "IL", "zip_code": "62704"}

	resp := suite.call(t, http.MethodPost, "/api/v1/leads/"+lead.ID+"/convert", draft, http.StatusUnprocessableEntity, nil)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "job_title")

	suite.call(t, http.MethodPut, "/api/v1/profile", map[string]interface{}{
		"name":              "Crystal Clear",
		"custom_job_titles": []string{"Solar Panel Cleaning"},
	}, http.StatusOK, nil)

	var c leadView
	suite.call(t, http.MethodPost, "/api/v1/leads/"+lead.ID+"/convert", draft, http.StatusOK, &c)
	require.NotNil(t, c.CustomerData)
	assert.Equal(t, "Solar Panel Cleaning", c.CustomerData.JobTitle)

	var customers struct {
		Count int `json:"count"`
	}
	suite.call(t, http.MethodGet, "/api/v1/customers?job_title=Solar+Panel+Cleaning", nil, http.StatusOK, &customers)
	assert.Equal(t, 1, customers.Count)

	log.Printf("Flow 4 custom job titles - SUCCESS")
}

// =============================================================================
// Flow 5: Operational endpoints
// =============================================================================

func TestFlow5_HealthAndMetrics(t *testing.T) {
	suite := setupTestSuite(t)

	w := suite.makeRequest(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])

	suite.createLead(t, map[string]interface{}{"name": "Metric Lead"})

	w = suite.makeRequest(http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leads_created_total")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestMain(m *testing.M) {
	log.Println("Starting E2E Tests...")
	code := m.Run()
	log.Println("E2E Tests Completed")
	os.Exit(code)
}
