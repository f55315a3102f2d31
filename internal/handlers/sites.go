package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/repository"
	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

type SitesHandler struct {
	sites  *service.SiteService
	logger *zap.Logger
}

func NewSitesHandler(sites *service.SiteService, logger *zap.Logger) *SitesHandler {
	return &SitesHandler{sites: sites, logger: logger}
}

func (h *SitesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.SiteFilter{
		Status: r.URL.Query().Get("status"),
		Domain: r.URL.Query().Get("domain"),
	}
	if raw := r.URL.Query().Get("instance"); raw != "" {
		instanceID, err := uuid.Parse(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid instance ID"})
			return
		}
		filter.InstanceID = &instanceID
	}

	sites, err := h.sites.FindAll(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (h *SitesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid site ID"})
		return
	}

	site, err := h.sites.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *SitesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateSiteInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	site, err := h.sites.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, site)
}

func (h *SitesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid site ID"})
		return
	}

	var in service.UpdateSiteInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	site, err := h.sites.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, site)
}

func (h *SitesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid site ID"})
		return
	}

	if err := h.sites.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SitesHandler) Expand(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid site ID"})
		return
	}

	expanded, err := h.sites.FindExpanded(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, expanded)
}

func (h *SitesHandler) FetchSiteInfo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid site ID"})
		return
	}

	// No authenticated principal yet; record the system as originator.
	info, err := h.sites.FetchSiteInfo(r.Context(), id, "system")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
