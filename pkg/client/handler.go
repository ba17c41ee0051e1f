package client

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/billbook/billbook/internal/rest"
	"github.com/billbook/billbook/internal/utils"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type ClientDTO struct {
	Id          string   `json:"id"`
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Phone       string   `json:"phone" validate:"required"`
	ProjectName string   `json:"projectName,omitempty"`
	Budget      *float64 `json:"budget,omitempty" validate:"omitempty,gte=0"`
	DueDate     *string  `json:"dueDate,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List clients
// @Tags Client
// @Produce json
// @Success 200 {array} ClientDTO
// @Router /api/clients [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing clients")
	clients, err := h.service.List(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load clients", err.Error())
		return
	}
	dtos := make([]ClientDTO, 0, len(clients))
	for _, c := range clients {
		dtos = append(dtos, ClientToDTO(c))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a client by ID
// @Tags Client
// @Produce json
// @Param clientId path string true "Client ID"
// @Success 200 {object} ClientDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/clients/{clientId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	clientId := mux.Vars(r)["clientId"]
	log.Debugf("Getting client %s", clientId)
	c, err := h.service.Get(r.Context(), clientId)
	if err != nil {
		writeServiceError(w, err, "Failed to load client")
		return
	}
	rest.WriteJSON(w, http.StatusOK, ClientToDTO(c))
}

// Create godoc
// @Summary Create a client
// @Tags Client
// @Accept json
// @Produce json
// @Param client body ClientDTO true "Client"
// @Success 201 {object} ClientDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/clients [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating client")
	c, ok := decodeClient(w, r)
	if !ok {
		return
	}
	created, err := h.service.Create(r.Context(), c)
	if err != nil {
		writeServiceError(w, err, "Failed to save client")
		return
	}
	rest.WriteJSON(w, http.StatusCreated, ClientToDTO(created))
}

// Update godoc
// @Summary Update a client
// @Tags Client
// @Accept json
// @Produce json
// @Param clientId path string true "Client ID"
// @Param client body ClientDTO true "Client"
// @Success 200 {object} ClientDTO
// @Failure 400 {object} rest.ErrorResponse
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/clients/{clientId} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	clientId := mux.Vars(r)["clientId"]
	log.Debugf("Updating client %s", clientId)
	c, ok := decodeClient(w, r)
	if !ok {
		return
	}
	if c.Id != "" && c.Id != clientId {
		rest.WriteError(w, http.StatusBadRequest, "Invalid client id in request body", "")
		return
	}
	c.Id = clientId
	updated, err := h.service.Update(r.Context(), c)
	if err != nil {
		writeServiceError(w, err, "Failed to save client")
		return
	}
	rest.WriteJSON(w, http.StatusOK, ClientToDTO(updated))
}

func decodeClient(w http.ResponseWriter, r *http.Request) (Client, bool) {
	var dto ClientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return Client{}, false
	}
	if err := rest.Validate(dto); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid client", err.Error())
		return Client{}, false
	}
	c, err := DTOToClient(dto)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid client", err.Error())
		return Client{}, false
	}
	return c, true
}

func writeServiceError(w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, ErrClientNotFound):
		rest.WriteError(w, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, ErrInvalidClient):
		rest.WriteError(w, http.StatusBadRequest, "Invalid client", err.Error())
	default:
		rest.WriteError(w, http.StatusInternalServerError, message, err.Error())
	}
}

func ClientToDTO(c Client) ClientDTO {
	dto := ClientDTO{
		Id:          c.Id,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		ProjectName: c.ProjectName,
	}
	if c.Budget.Valid {
		budget := c.Budget.Decimal.InexactFloat64()
		dto.Budget = &budget
	}
	if c.DueDate != nil {
		dueDate := utils.FormatDate(*c.DueDate)
		dto.DueDate = &dueDate
	}
	return dto
}

func DTOToClient(dto ClientDTO) (Client, error) {
	c := Client{
		Id:          dto.Id,
		Name:        dto.Name,
		Email:       dto.Email,
		Phone:       dto.Phone,
		ProjectName: dto.ProjectName,
	}
	if dto.Budget != nil {
		c.Budget = decimal.NewNullDecimal(decimal.NewFromFloat(*dto.Budget))
	}
	if dto.DueDate != nil && *dto.DueDate != "" {
		dueDate, err := utils.ParseDate(*dto.DueDate)
		if err != nil {
			return Client{}, err
		}
		c.DueDate = &dueDate
	}
	return c, nil
}
