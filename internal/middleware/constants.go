// File: internal/middleware/constants.go
package middleware

import (
	"net/http"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// contextKey keeps middleware context values collision-free.
type contextKey string

const UserIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user's ID, if the request
// passed through the JWT middleware.
func UserIDFromContext(r *http.Request) (bson.ObjectID, bool) {
	id, ok := r.Context().Value(UserIDKey).(bson.ObjectID)
	return id, ok
}
