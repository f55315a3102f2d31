package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/models"
	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

type EnquiriesHandler struct {
	enquiries *service.EnquiryService
	logger    *zap.Logger
}

func NewEnquiriesHandler(enquiries *service.EnquiryService, logger *zap.Logger) *EnquiriesHandler {
	return &EnquiriesHandler{enquiries: enquiries, logger: logger}
}

func (h *EnquiriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateEnquiryInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	enquiry, err := h.enquiries.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Enquiry submitted successfully",
		"data":    enquiry,
	})
}

func (h *EnquiriesHandler) List(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.enquiries.FindAll(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.Enquiry{"data": enquiries})
}

func (h *EnquiriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid enquiry ID"})
		return
	}

	enquiry, err := h.enquiries.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if enquiry == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Enquiry with ID " + id.String() + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]*models.Enquiry{"data": enquiry})
}

// Delete pre-checks existence; the service's remove primitive treats absence
// as a no-op.
func (h *EnquiriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid enquiry ID"})
		return
	}

	enquiry, err := h.enquiries.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if enquiry == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Enquiry with ID " + id.String() + " not found"})
		return
	}

	if err := h.enquiries.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
