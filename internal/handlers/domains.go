package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/repository"
	"github.com/romanmmmelnyk/ms-backend/internal/service"
)

type DomainsHandler struct {
	domains *service.DomainService
	logger  *zap.Logger
}

func NewDomainsHandler(domains *service.DomainService, logger *zap.Logger) *DomainsHandler {
	return &DomainsHandler{domains: domains, logger: logger}
}

func (h *DomainsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.DomainFilter{
		Provider: r.URL.Query().Get("provider"),
	}
	if raw := r.URL.Query().Get("expiringInDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody{Message: "expiringInDays must be a non-negative integer"})
			return
		}
		filter.ExpiringInDays = days
	}

	domains, err := h.domains.FindAll(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, domains)
}

func (h *DomainsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid domain ID"})
		return
	}

	domain, err := h.domains.FindOne(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, domain)
}

func (h *DomainsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateDomainInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	domain, err := h.domains.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, domain)
}

func (h *DomainsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid domain ID"})
		return
	}

	var in service.UpdateDomainInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	domain, err := h.domains.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, domain)
}

func (h *DomainsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid domain ID"})
		return
	}

	if err := h.domains.Remove(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *DomainsHandler) Renew(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid domain ID"})
		return
	}

	receipt, err := h.domains.Renew(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}
