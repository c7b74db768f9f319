// File: internal/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/voxai/voxai-sql/internal/middleware"
	"github.com/voxai/voxai-sql/internal/services"
	"github.com/voxai/voxai-sql/internal/services/dbconn"
)

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service-layer errors onto HTTP statuses. Anything
// unrecognized becomes a generic 500 so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, err error) {
	var svcErr *services.ServiceError
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch svcErr.Type {
		case services.ErrTypeValidation,
			services.ErrTypeNoActiveDatabase,
			services.ErrTypeMissingSchema,
			services.ErrTypeConnection:
			status = http.StatusBadRequest
		case services.ErrTypeNotFound:
			status = http.StatusNotFound
		case services.ErrTypeUpstream:
			status = http.StatusBadGateway
		case services.ErrTypeExecution:
			status = http.StatusInternalServerError
		}

		payload := map[string]string{"error": svcErr.Message}
		if svcErr.Reason != "" {
			payload["reason"] = svcErr.Reason
		}
		writeJSON(w, status, payload)
		return
	}

	var connErr *dbconn.ConnError
	if errors.As(err, &connErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  connErr.Message,
			"reason": string(connErr.Reason),
		})
		return
	}

	writeError(w, "Internal server error", http.StatusInternalServerError)
}

// currentUserID reads the authenticated user from the request context.
func currentUserID(w http.ResponseWriter, r *http.Request) (bson.ObjectID, bool) {
	userID, ok := middleware.UserIDFromContext(r)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return bson.ObjectID{}, false
	}
	return userID, true
}

// pathObjectID parses a hex ObjectID route variable.
func pathObjectID(w http.ResponseWriter, raw string) (bson.ObjectID, bool) {
	id, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		writeError(w, "Invalid ID in URL", http.StatusBadRequest)
		return bson.ObjectID{}, false
	}
	return id, true
}
