package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

type InstancesHandler struct {
	instances *service.InstanceService
	logger    *zap.Logger
}

func NewInstancesHandler(instances *service.InstanceService, logger *zap.Logger) *InstancesHandler {
	return &InstancesHandler{instances: instances, logger: logger}
}

func (h *InstancesHandler) List(w http.ResponseWriter, r *http.Request) {
	instances, err := h.instances.FindAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

func (h *InstancesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid instance ID"})
		return
	}

	instance, err := h.instances.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, instance)
}

func (h *InstancesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateInstanceInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	instance, err := h.instances.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, instance)
}

func (h *InstancesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid instance ID"})
		return
	}

	var in service.UpdateInstanceInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	instance, err := h.instances.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, instance)
}

func (h *InstancesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid instance ID"})
		return
	}

	if err := h.instances.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InstancesHandler) BindPort(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid instance ID"})
		return
	}

	var in service.BindPortInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.instances.BindPort(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *InstancesHandler) UnbindPort(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid instance ID"})
		return
	}
	portID, err := uuid.Parse(vars["portId"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid port ID"})
		return
	}

	result, err := h.instances.UnbindPort(r.Context(), id, portID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   fmt.Sprintf("Port %s has been unbound from instance %s", portID, id),
		"unboundAt": result.UnboundAt,
	})
}
