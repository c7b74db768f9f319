// File: internal/handlers/database_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/voxai/voxai-sql/internal/domain"
	"github.com/voxai/voxai-sql/internal/observability"
	"github.com/voxai/voxai-sql/internal/services"
)

type DatabaseHandler struct {
	DatabaseService *services.DatabaseService
	ChatService     *services.ChatService
	Metrics         *observability.Metrics
}

func NewDatabaseHandler(ds *services.DatabaseService, cs *services.ChatService, metrics *observability.Metrics) *DatabaseHandler {
	return &DatabaseHandler{DatabaseService: ds, ChatService: cs, Metrics: metrics}
}

type databaseRequest struct {
	DBName   string `json:"dbName"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *databaseRequest) toDomain() *domain.Database {
	return &domain.Database{
		DBName:   req.DBName,
		Host:     req.Host,
		Port:     req.Port,
		Username: req.Username,
		Password: req.Password,
	}
}

// AddDatabase registers a new external database for the user.
func (h *DatabaseHandler) AddDatabase(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req databaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.DatabaseService.AddDatabase(r.Context(), userID, req.toDomain())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// GetAllDatabases lists the user's registered databases.
func (h *DatabaseHandler) GetAllDatabases(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	records, err := h.DatabaseService.GetUserDatabases(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve databases", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetActiveDatabase returns the currently connected registration. Clients
// poll this endpoint, so having no connection is reported as a 200 with a
// null body field rather than an error.
func (h *DatabaseHandler) GetActiveDatabase(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	record, err := h.DatabaseService.GetActiveDatabase(r.Context(), userID)
	if err != nil {
		var svcErr *services.ServiceError
		if errors.As(err, &svcErr) && svcErr.Type == services.ErrTypeNoActiveDatabase {
			writeJSON(w, http.StatusOK, map[string]interface{}{"activeDatabase": nil})
			return
		}
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"activeDatabase": record})
}

// ConnectDatabase opens a live connection and introspects the schema.
func (h *DatabaseHandler) ConnectDatabase(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	databaseID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	record, err := h.DatabaseService.Connect(r.Context(), userID, databaseID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// DisconnectDatabase closes the live connection for a registration.
func (h *DatabaseHandler) DisconnectDatabase(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	databaseID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.DatabaseService.Disconnect(r.Context(), userID, databaseID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Database disconnected."})
}

// ExecuteQuery runs an ad-hoc SQL string against a registered database.
func (h *DatabaseHandler) ExecuteQuery(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	databaseID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req struct {
		Query  string `json:"query"`
		ChatID string `json:"chatId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" || req.ChatID == "" {
		writeError(w, "SQL query and chatId are required in the request body.", http.StatusBadRequest)
		return
	}
	chatID, ok := pathObjectID(w, req.ChatID)
	if !ok {
		return
	}
	if _, err := h.ChatService.GetChatByID(r.Context(), userID, chatID); err != nil {
		writeServiceError(w, err)
		return
	}

	result, err := h.DatabaseService.ExecuteQuery(r.Context(), userID, databaseID, req.Query)
	h.Metrics.ObserveSQLQuery(err)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Query executed successfully",
		"columns":      result.Columns,
		"queryResults": result.Rows,
	})
}

// UpdateDatabase replaces a registration's stored details.
func (h *DatabaseHandler) UpdateDatabase(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	databaseID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req databaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	record, err := h.DatabaseService.UpdateDatabase(r.Context(), userID, databaseID, req.toDomain())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// DeleteDatabase removes a registration.
func (h *DatabaseHandler) DeleteDatabase(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	databaseID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.DatabaseService.DeleteDatabase(r.Context(), userID, databaseID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
