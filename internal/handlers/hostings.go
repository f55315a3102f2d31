package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

type HostingsHandler struct {
	hostings *service.HostingService
	logger   *zap.Logger
}

func NewHostingsHandler(hostings *service.HostingService, logger *zap.Logger) *HostingsHandler {
	return &HostingsHandler{hostings: hostings, logger: logger}
}

func (h *HostingsHandler) List(w http.ResponseWriter, r *http.Request) {
	hostings, err := h.hostings.FindAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hostings)
}

func (h *HostingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid hosting ID"})
		return
	}

	hosting, err := h.hostings.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hosting)
}

func (h *HostingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateHostingInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	hosting, err := h.hostings.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, hosting)
}

func (h *HostingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid hosting ID"})
		return
	}

	var in service.UpdateHostingInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	hosting, err := h.hostings.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hosting)
}

func (h *HostingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid hosting ID"})
		return
	}

	if err := h.hostings.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
