// File: internal/middleware/recovery.go
package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/voxai/voxai-sql/internal/services"
)

// RecoverPanic converts handler panics into a 500 response instead of
// killing the connection.
func RecoverPanic(logger services.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered",
						"path", r.URL.Path, "cause", fmt.Sprint(err))

					w.Header().Set("Connection", "close")
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Something went wrong on our end.",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
