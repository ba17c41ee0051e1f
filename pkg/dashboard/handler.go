package dashboard

import (
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/billbook/billbook/internal/rest"
	"github.com/billbook/billbook/internal/utils"
	"github.com/billbook/billbook/pkg/aggregator"
	"github.com/billbook/billbook/pkg/project"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type SummaryDTO struct {
	TotalEarnings  float64 `json:"totalEarnings"`
	ClientCount    int     `json:"clientCount"`
	ConsultingFees float64 `json:"consultingFees"`
	Bonuses        float64 `json:"bonuses"`
	Skipped        int     `json:"skipped"`
	Currency       string  `json:"currency"`
}

type GroupedPaymentDTO struct {
	Id          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	ClientName  string  `json:"clientName"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	ProjectId   string  `json:"projectId"`
	Type        string  `json:"type,omitempty"`
}

type DateGroupDTO struct {
	Date        string              `json:"date"`
	Label       string              `json:"label"`
	TotalAmount float64             `json:"totalAmount"`
	Payments    []GroupedPaymentDTO `json:"payments"`
	Skipped     int                 `json:"skipped"`
}

type OverviewDTO struct {
	ProjectId string         `json:"projectId"`
	Groups    []DateGroupDTO `json:"groups"`
	Total     float64        `json:"total"`
	Undated   int            `json:"undated"`
}

type CalendarDTO struct {
	Month string         `json:"month"`
	Days  []DateGroupDTO `json:"days"`
}

type TimelineEntryDTO struct {
	Id     string  `json:"id"`
	Label  string  `json:"label"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

type ProjectBalanceDTO struct {
	ProjectId    string  `json:"projectId"`
	Name         string  `json:"name"`
	Budget       float64 `json:"budget"`
	TotalPaid    float64 `json:"totalPaid"`
	TotalBonuses float64 `json:"totalBonuses"`
	Remaining    float64 `json:"remaining"`
	Overpaid     bool    `json:"overpaid"`
}

type Handler struct {
	service     Service
	csvRenderer OverviewRenderer
}

func NewHandler(service Service, csvRenderer OverviewRenderer) *Handler {
	return &Handler{service: service, csvRenderer: csvRenderer}
}

// Summary godoc
// @Summary Totals for the earnings and client count widgets
// @Tags Dashboard
// @Produce json
// @Success 200 {object} SummaryDTO
// @Router /api/dashboard/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting dashboard summary")
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard summary", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, SummaryDTO{
		TotalEarnings:  summary.TotalEarnings.InexactFloat64(),
		ClientCount:    summary.ClientCount,
		ConsultingFees: summary.ConsultingFees.InexactFloat64(),
		Bonuses:        summary.Bonuses.InexactFloat64(),
		Skipped:        summary.Skipped,
		Currency:       summary.Currency,
	})
}

// Overview godoc
// @Summary Payments grouped per day, as JSON or CSV
// @Tags Dashboard
// @Produce json,text/csv
// @Param projectId query string false "Project ID or all"
// @Success 200 {object} OverviewDTO
// @Router /api/dashboard/overview [get]
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	projectId := r.URL.Query().Get("projectId")
	log.Debugf("Getting payment overview (project %q)", projectId)
	overview, err := h.service.Overview(r.Context(), projectId)
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load payment overview", err.Error())
		return
	}

	if acceptsCSV(r.Header.Values("Accept")) {
		csv, err := h.csvRenderer.RenderOverview(overview)
		if err != nil {
			rest.WriteError(w, http.StatusInternalServerError, "Failed to render payment overview", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, OverviewDTO{
		ProjectId: overview.ProjectId,
		Groups:    groupsToDTO(overview.Groups),
		Total:     overview.Total.InexactFloat64(),
		Undated:   overview.Undated,
	})
}

// Calendar godoc
// @Summary Payment days of a month
// @Tags Dashboard
// @Produce json
// @Param month query string false "Month as YYYY-MM, defaults to the current month"
// @Success 200 {object} CalendarDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/dashboard/calendar [get]
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	log.Debugf("Getting payment calendar (month %q)", month)
	calendar, err := h.service.Calendar(r.Context(), month)
	if err != nil {
		if errors.Is(err, ErrInvalidMonth) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid month format", err.Error())
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load payment calendar", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, CalendarDTO{
		Month: calendar.Month.Format("2006-01"),
		Days:  groupsToDTO(calendar.Days),
	})
}

// Timeline godoc
// @Summary Payments in date order
// @Tags Dashboard
// @Produce json
// @Success 200 {array} TimelineEntryDTO
// @Router /api/dashboard/timeline [get]
func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	log.Debug("Getting payment timeline")
	entries, err := h.service.Timeline(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to fetch payments", err.Error())
		return
	}
	dtos := make([]TimelineEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, TimelineEntryDTO{
			Id:     e.Payment.Id,
			Label:  e.Label,
			Date:   utils.FormatDate(e.Payment.Date),
			Amount: e.Payment.Amount.InexactFloat64(),
			Type:   string(e.Payment.Type),
		})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// ProjectBalance godoc
// @Summary Budget, payments and remaining balance of a project
// @Tags Dashboard
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} ProjectBalanceDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/projects/{projectId}/balance [get]
func (h *Handler) ProjectBalance(w http.ResponseWriter, r *http.Request) {
	projectId := mux.Vars(r)["projectId"]
	log.Debugf("Getting balance of project %s", projectId)
	balance, err := h.service.ProjectBalance(r.Context(), projectId)
	if err != nil {
		if errors.Is(err, project.ErrProjectNotFound) {
			rest.WriteError(w, http.StatusNotFound, err.Error(), projectId)
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load project balance", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, ProjectBalanceDTO{
		ProjectId:    balance.Project.Id,
		Name:         balance.Project.Name,
		Budget:       balance.Budget.InexactFloat64(),
		TotalPaid:    balance.Paid.InexactFloat64(),
		TotalBonuses: balance.Bonuses.InexactFloat64(),
		Remaining:    balance.Remaining.InexactFloat64(),
		Overpaid:     balance.Overpaid(),
	})
}

func groupsToDTO(groups []aggregator.DateGroup) []DateGroupDTO {
	dtos := make([]DateGroupDTO, 0, len(groups))
	for _, g := range groups {
		payments := make([]GroupedPaymentDTO, 0, len(g.Payments))
		for _, p := range g.Payments {
			payments = append(payments, GroupedPaymentDTO{
				Id:          p.Id,
				DisplayName: p.DisplayName,
				ClientName:  p.ClientName,
				Date:        utils.FormatDate(p.Date),
				Amount:      p.Amount.InexactFloat64(),
				ProjectId:   p.ProjectId,
				Type:        p.TypeLabel,
			})
		}
		dtos = append(dtos, DateGroupDTO{
			Date:        utils.FormatDate(g.Date),
			Label:       g.Label,
			TotalAmount: g.Total.InexactFloat64(),
			Payments:    payments,
			Skipped:     g.Skipped,
		})
	}
	return dtos
}

// acceptsCSV reports whether any media range in the Accept headers names text/csv with a non-zero
// quality.
func acceptsCSV(accept []string) bool {
	for _, header := range accept {
		for _, mediaRange := range strings.Split(header, ",") {
			mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(mediaRange))
			if err != nil || mediaType != "text/csv" {
				continue
			}
			if q, ok := params["q"]; ok && strings.Trim(q, "0.") == "" {
				continue
			}
			return true
		}
	}
	return false
}
