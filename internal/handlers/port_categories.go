package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

type PortCategoriesHandler struct {
	categories *service.PortCategoryService
	logger     *zap.Logger
}

func NewPortCategoriesHandler(categories *service.PortCategoryService, logger *zap.Logger) *PortCategoriesHandler {
	return &PortCategoriesHandler{categories: categories, logger: logger}
}

func (h *PortCategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.FindAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *PortCategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid port category ID"})
		return
	}

	category, err := h.categories.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *PortCategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreatePortCategoryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	category, err := h.categories.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *PortCategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid port category ID"})
		return
	}

	var in service.UpdatePortCategoryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	category, err := h.categories.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *PortCategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid port category ID"})
		return
	}

	if err := h.categories.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
