package payment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/billbook/billbook/internal/rest"
	"github.com/billbook/billbook/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

func init() {
	rest.RegisterValidation("paymenttype", func(fl validator.FieldLevel) bool {
		return Type(fl.Field().String()).Valid()
	})
}

type PaymentDTO struct {
	Id         string  `json:"id,omitempty"`
	ClientName string  `json:"clientName"`
	Date       string  `json:"date" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	ProjectId  string  `json:"projectId" validate:"required"`
	Type       string  `json:"type" validate:"paymenttype"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List payments, optionally scoped to one project
// @Tags Payment
// @Produce json
// @Param projectId query string false "Project ID"
// @Success 200 {array} PaymentDTO
// @Router /api/payments [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	projectId := r.URL.Query().Get("projectId")
	log.Debugf("Listing payments (project %q)", projectId)

	var payments []Payment
	var err error
	if projectId != "" {
		payments, err = h.service.ListByProject(r.Context(), projectId)
	} else {
		payments, err = h.service.List(r.Context())
	}
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load payments", err.Error())
		return
	}

	dtos := make([]PaymentDTO, 0, len(payments))
	for _, p := range payments {
		dtos = append(dtos, PaymentToDTO(p))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Create godoc
// @Summary Record a payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param payment body PaymentDTO true "Payment"
// @Success 201 {object} PaymentDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/payments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating payment")
	var dto PaymentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := rest.Validate(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid payment", err.Error())
		return
	}
	p, err := DTOToPayment(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid payment", err.Error())
		return
	}

	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidPayment):
			rest.WriteError(w, http.StatusBadRequest, "Invalid payment", err.Error())
		case errors.Is(err, ErrUnknownProject):
			rest.WriteError(w, http.StatusNotFound, err.Error(), "")
		default:
			rest.WriteError(w, http.StatusInternalServerError, "Failed to save payment", err.Error())
		}
		return
	}
	rest.WriteJSON(w, http.StatusCreated, PaymentToDTO(created))
}

func PaymentToDTO(p Payment) PaymentDTO {
	return PaymentDTO{
		Id:         p.Id,
		ClientName: p.ClientName,
		Date:       utils.FormatDate(p.Date),
		Amount:     p.Amount.InexactFloat64(),
		ProjectId:  p.ProjectId,
		Type:       string(p.Type),
	}
}

func DTOToPayment(dto PaymentDTO) (Payment, error) {
	date, err := utils.ParseDate(dto.Date)
	if err != nil {
		return Payment{}, err
	}
	return Payment{
		Id:         dto.Id,
		ClientName: dto.ClientName,
		Date:       date,
		Amount:     decimal.NewFromFloat(dto.Amount),
		ProjectId:  dto.ProjectId,
		Type:       Type(dto.Type),
	}, nil
}
