package handlers

import (
	"context"
	"net/http"
)

type scopeKey struct{}

// RequireScope annotates the request with the permission scope the endpoint
// declares (e.g. "domains:write"). No guard enforces it yet; the annotation
// records the contract for when authentication lands.
func RequireScope(scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), scopeKey{}, scope)
		next(w, r.WithContext(ctx))
	}
}

// ScopeOf returns the scope annotation on the request, if any.
func ScopeOf(r *http.Request) string {
	scope, _ := r.Context().Value(scopeKey{}).(string)
	return scope
}
