package project

import (
	"errors"
	"net/http"

	"github.com/billbook/billbook/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type ProjectDTO struct {
	Id       string  `json:"id"`
	Name     string  `json:"name"`
	Budget   float64 `json:"budget"`
	ClientId string  `json:"clientId"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List projects derived from clients
// @Tags Project
// @Produce json
// @Success 200 {array} ProjectDTO
// @Router /api/projects [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log.Debug("Listing projects")
	projects, err := h.service.List(r.Context())
	if err != nil {
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load projects", err.Error())
		return
	}
	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, ProjectToDTO(p))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// Get godoc
// @Summary Get a project by ID
// @Tags Project
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} ProjectDTO
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/projects/{projectId} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	projectId := mux.Vars(r)["projectId"]
	log.Debugf("Getting project %s", projectId)
	p, err := h.service.Get(r.Context(), projectId)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			rest.WriteError(w, http.StatusNotFound, err.Error(), "")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load project", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, ProjectToDTO(p))
}

func ProjectToDTO(p Project) ProjectDTO {
	return ProjectDTO{
		Id:       p.Id,
		Name:     p.Name,
		Budget:   p.Budget.InexactFloat64(),
		ClientId: p.ClientId,
	}
}
