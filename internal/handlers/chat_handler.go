// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/voxai/voxai-sql/internal/services"
)

type ChatHandler struct {
	ChatService *services.ChatService
}

func NewChatHandler(cs *services.ChatService) *ChatHandler {
	return &ChatHandler{ChatService: cs}
}

// CreateChat starts a new conversation, optionally seeded with messages.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		Messages []services.IncomingMessage `json:"messages"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	chat, err := h.ChatService.CreateChat(r.Context(), userID, req.Messages)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

// GetUserChats retrieves all chats for the authenticated user.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	chats, err := h.ChatService.GetUserChats(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// GetChat retrieves a single chat with its full transcript.
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathObjectID(w, mux.Vars(r)["chatId"])
	if !ok {
		return
	}

	chat, err := h.ChatService.GetChatByID(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// AddMessage processes one incoming message and returns everything the
// round produced: the updated chat plus the SQL or AI reply.
func (h *ChatHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req struct {
		ChatID string `json:"chatId"`
		Text   string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		writeError(w, "chatId and text are required", http.StatusBadRequest)
		return
	}
	chatID, ok := pathObjectID(w, req.ChatID)
	if !ok {
		return
	}

	result, err := h.ChatService.AddMessage(r.Context(), userID, chatID, req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetTitle returns the chat title, generating one if still pending.
func (h *ChatHandler) GetTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathObjectID(w, mux.Vars(r)["chatId"])
	if !ok {
		return
	}

	title, err := h.ChatService.GetOrGenerateTitle(r.Context(), userID, chatID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"title": title})
}

// UpdateTitle overwrites the chat title.
func (h *ChatHandler) UpdateTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	chatID, ok := pathObjectID(w, mux.Vars(r)["chatId"])
	if !ok {
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	chat, err := h.ChatService.UpdateTitle(r.Context(), userID, chatID, req.Title)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}
