package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/billbook/billbook/internal/rest"
	"github.com/billbook/billbook/pkg/payment"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) (*mux.Router, *fixture, func()) {
	f, teardown := setup(t)
	handler := NewHandler(f.service, NewCsvRenderer("₹"))
	r := mux.NewRouter()
	r.HandleFunc("/api/dashboard/summary", handler.Summary).Methods("GET")
	r.HandleFunc("/api/dashboard/overview", handler.Overview).Methods("GET")
	r.HandleFunc("/api/dashboard/calendar", handler.Calendar).Methods("GET")
	r.HandleFunc("/api/dashboard/timeline", handler.Timeline).Methods("GET")
	r.HandleFunc("/api/projects/{projectId}/balance", handler.ProjectBalance).Methods("GET")
	return r, f, teardown
}

func get(r http.Handler, target string, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_Summary(t *testing.T) {
	r, f, teardown := setupHandlerTest(t)
	defer teardown()

	f.seed(
		pay("1", f.acme, date(2024, 1, 5), 1500, payment.ConsultingFee),
		pay("2", f.globex, date(2024, 1, 6), 250, payment.Bonus),
	)

	w := get(r, "/api/dashboard/summary", "")

	require.Equal(t, http.StatusOK, w.Code)
	var summary SummaryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 1750.0, summary.TotalEarnings)
	assert.Equal(t, 2, summary.ClientCount)
	assert.Equal(t, 1500.0, summary.ConsultingFees)
	assert.Equal(t, 250.0, summary.Bonuses)
	assert.Equal(t, "₹", summary.Currency)
}

func TestHandler_Overview(t *testing.T) {
	r, f, teardown := setupHandlerTest(t)
	defer teardown()

	f.seed(
		pay("1", f.acme, date(2024, 3, 1), 200, payment.ConsultingFee),
		pay("2", f.globex, date(2024, 3, 1), 300, payment.Bonus),
		pay("3", f.acme, date(2024, 1, 2), 50, payment.Type("Refund")),
	)

	t.Run("should return date groups as JSON", func(t *testing.T) {
		w := get(r, "/api/dashboard/overview?projectId=all", "")

		require.Equal(t, http.StatusOK, w.Code)
		var overview OverviewDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&overview))
		require.Len(t, overview.Groups, 2)
		assert.Equal(t, "02 Jan 2024", overview.Groups[0].Label)
		assert.Equal(t, "", overview.Groups[0].Payments[0].Type)
		assert.Equal(t, 1, overview.Groups[0].Skipped)
		assert.Equal(t, "2024-03-01", overview.Groups[1].Date)
		assert.Equal(t, 500.0, overview.Groups[1].TotalAmount)
		assert.Equal(t, "Globex", overview.Groups[1].Payments[1].DisplayName)
		assert.Equal(t, 550.0, overview.Total)
	})

	t.Run("should render CSV on request", func(t *testing.T) {
		w := get(r, "/api/dashboard/overview?projectId="+f.globex.Id, "text/csv")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, "Date,Client,Type,Amount (₹)\n"+
			"01 Mar 2024,Globex,Bonus,300.00\n"+
			"01 Mar 2024,,Subtotal,300.00\n"+
			"Total,,,300.00\n", w.Body.String())
	})

	t.Run("should render CSV when listed among other media types", func(t *testing.T) {
		w := get(r, "/api/dashboard/overview?projectId="+f.globex.Id, "application/json;q=0.5, text/csv; charset=utf-8")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "Total,,,300.00")
	})
}

func TestAcceptsCSV(t *testing.T) {
	tests := []struct {
		accept []string
		want   bool
	}{
		{accept: nil, want: false},
		{accept: []string{"application/json"}, want: false},
		{accept: []string{"text/csv"}, want: true},
		{accept: []string{"Text/CSV"}, want: true},
		{accept: []string{"text/html, text/csv;q=0.8"}, want: true},
		{accept: []string{"application/json", "text/csv"}, want: true},
		{accept: []string{"text/csv;q=0"}, want: false},
		{accept: []string{"*/*"}, want: false},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.accept, " | "), func(t *testing.T) {
			assert.Equal(t, tt.want, acceptsCSV(tt.accept))
		})
	}
}

func TestHandler_Calendar(t *testing.T) {
	r, f, teardown := setupHandlerTest(t)
	defer teardown()

	f.seed(pay("1", f.acme, date(2024, 3, 1), 200, payment.ConsultingFee))

	t.Run("should return the current month", func(t *testing.T) {
		w := get(r, "/api/dashboard/calendar", "")

		require.Equal(t, http.StatusOK, w.Code)
		var calendar CalendarDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&calendar))
		assert.Equal(t, "2024-03", calendar.Month)
		require.Len(t, calendar.Days, 1)
		assert.Equal(t, "Acme Ltd", calendar.Days[0].Payments[0].DisplayName)
	})

	t.Run("should reject a malformed month", func(t *testing.T) {
		w := get(r, "/api/dashboard/calendar?month=2024-13", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errResponse rest.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
		assert.Equal(t, "Invalid month format", errResponse.Error)
	})
}

func TestHandler_Timeline(t *testing.T) {
	r, f, teardown := setupHandlerTest(t)
	defer teardown()

	f.seed(
		pay("b", f.acme, date(2024, 2, 1), 100, payment.ConsultingFee),
		pay("a", f.acme, date(2024, 1, 15), 200, payment.Bonus),
	)

	w := get(r, "/api/dashboard/timeline", "")

	require.Equal(t, http.StatusOK, w.Code)
	var entries []TimelineEntryDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entries))
	require.Len(t, entries, 2)
	assert.Equal(t, TimelineEntryDTO{Id: "a", Label: "Jan 15", Date: "2024-01-15", Amount: 200, Type: "Bonus"}, entries[0])
	assert.Equal(t, "b", entries[1].Id)
}

func TestHandler_ProjectBalance(t *testing.T) {
	r, f, teardown := setupHandlerTest(t)
	defer teardown()

	f.seed(
		pay("1", f.acme, date(2024, 1, 5), 1000, payment.ConsultingFee),
		pay("2", f.acme, date(2024, 1, 6), 500, payment.Bonus),
	)

	t.Run("should return the project balance", func(t *testing.T) {
		w := get(r, "/api/projects/"+f.acme.Id+"/balance", "")

		require.Equal(t, http.StatusOK, w.Code)
		var balance ProjectBalanceDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&balance))
		assert.Equal(t, ProjectBalanceDTO{
			ProjectId:    f.acme.Id,
			Name:         "Website",
			Budget:       10000,
			TotalPaid:    1000,
			TotalBonuses: 500,
			Remaining:    9000,
			Overpaid:     false,
		}, balance)
	})

	t.Run("should return 404 for an unknown project", func(t *testing.T) {
		w := get(r, "/api/projects/missing/balance", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
