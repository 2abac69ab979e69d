package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexgencrm/backend/pkg/export"
	"github.com/nexgencrm/backend/pkg/followup"
	"github.com/nexgencrm/backend/pkg/middleware"
	"github.com/nexgencrm/backend/pkg/models"
	"github.com/nexgencrm/backend/pkg/party"
)

func newLeadHandler(t *testing.T) (*LeadHandler, *echo.Echo) {
	db := setupTestDB(t)
	h := NewLeadHandler(party.NewService(db), followup.NewService(db), export.NewService(db), nil, nil)
	return h, echo.New()
}

func asCaller(c echo.Context, sub, role, name string) {
	c.Set(middleware.ContextUserID, sub)
	c.Set(middleware.ContextUserRole, role)
	c.Set(middleware.ContextUserName, name)
}

func TestLeadCRUD(t *testing.T) {
	h, e := newLeadHandler(t)

	var leadID string

	t.Run("create", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodPost, "/api/leads",
			`{"name":"Mehta Motors","email":"mehta@example.com","mobile":"9000011111","assignedTo":"rep-1"}`)
		c := e.NewContext(req, rec)

		require.NoError(t, h.CreateLead(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var lead models.Party
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
		assert.Equal(t, "New", lead.Status)
		leadID = lead.ID
	})

	t.Run("get with malformed id", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodGet, "/api/leads/abc", "")
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("abc")

		require.NoError(t, h.GetLead(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get unknown lead", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodGet, "/api/leads/x", "")
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(uuid.NewString())

		require.NoError(t, h.GetLead(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var body models.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Lead not found", body.Message)
	})

	t.Run("list is scoped to caller", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodGet, "/api/leads", "")
		c := e.NewContext(req, rec)
		asCaller(c, "rep-2", "Sales", "Rep Two")

		require.NoError(t, h.ListLeads(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var leads []models.Party
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
		assert.Empty(t, leads) // lead is assigned to rep-1
	})

	t.Run("admin list sees everything", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodGet, "/api/leads", "")
		c := e.NewContext(req, rec)
		asCaller(c, "admin-id", "Admin", "Admin")

		require.NoError(t, h.ListLeads(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var leads []models.Party
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &leads))
		assert.Len(t, leads, 1)
	})

	t.Run("delete returns confirmation", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodDelete, "/api/leads/x", "")
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(leadID)

		require.NoError(t, h.DeleteLead(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Lead deleted successfully")
	})
}

func TestLeadFollowUpEndpoints(t *testing.T) {
	h, e := newLeadHandler(t)

	// Seed a lead through the handler
	req, rec := jsonRequest(http.MethodPost, "/api/leads",
		`{"name":"Asha Traders","email":"asha@example.com","mobile":"9000022222"}`)
	require.NoError(t, h.CreateLead(e.NewContext(req, rec)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var lead models.Party
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))

	t.Run("add follow-up stamps caller as enterBy", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodPost, "/api/leads/x/followups",
			`{"note":"call tomorrow","followupAfterDays":2}`)
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)
		asCaller(c, "rep-1", "Sales", "Rep One")

		require.NoError(t, h.AddFollowUp(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var fu models.LeadFollowUp
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fu))
		assert.Equal(t, "Rep One", fu.EnterBy)
		assert.False(t, fu.Date.IsZero())
	})

	t.Run("missing note rejected", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodPost, "/api/leads/x/followups",
			`{"followupAfterDays":2}`)
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(lead.ID)

		require.NoError(t, h.AddFollowUp(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete absent follow-up is 404", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodDelete, "/api/leads/x/followups/y", "")
		c := e.NewContext(req, rec)
		c.SetParamNames("id", "followupId")
		c.SetParamValues(lead.ID, uuid.NewString())

		require.NoError(t, h.DeleteFollowUp(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("summary buckets reply", func(t *testing.T) {
		req, rec := jsonRequest(http.MethodGet, "/api/leads/dashboard/followups/summary", "")
		c := e.NewContext(req, rec)
		asCaller(c, "admin-id", "Admin", "Admin")

		require.NoError(t, h.FollowUpSummary(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var summary models.FollowUpSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		// Anchor resolved two days out lands in the upcoming bucket
		assert.Len(t, summary.UpcomingFollowups, 1)
		assert.Empty(t, summary.TodayFollowups)
	})
}

func TestLeadExportEndpoint(t *testing.T) {
	h, e := newLeadHandler(t)

	req, rec := jsonRequest(http.MethodPost, "/api/leads",
		`{"name":"Vega Wheels","email":"vega@example.com","mobile":"9000033333"}`)
	require.NoError(t, h.CreateLead(e.NewContext(req, rec)))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("csv download", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/leads/export?format=csv", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		asCaller(c, "admin-id", "Admin", "Admin")

		require.NoError(t, h.ExportLeads(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")
		assert.Contains(t, rec.Body.String(), "Vega Wheels")
	})

	t.Run("unknown format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/leads/export?format=pdf", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		asCaller(c, "admin-id", "Admin", "Admin")

		require.NoError(t, h.ExportLeads(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
