// Package handlers exposes the resource services over HTTP: one handler
// struct per resource, gorilla/mux path variables, JSON bodies. Error
// classification to status codes happens here and nowhere else.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/romanmmmelnyk/ms-backend/internal/apperr"
)

type errorBody struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Unclassified errors
// are logged and surface as an opaque 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.Error("unhandled error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Internal server error"})
		return
	}

	switch appErr.Kind {
	case apperr.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Message: appErr.Message})
	case apperr.KindBadRequest:
		writeJSON(w, http.StatusBadRequest, errorBody{Message: appErr.Message})
	case apperr.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorBody{Message: appErr.Message, Fields: appErr.Fields})
	default:
		logger.Error("internal error", zap.Error(appErr))
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: appErr.Message})
	}
}
