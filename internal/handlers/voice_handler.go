// File: internal/handlers/voice_handler.go
package handlers

import (
	"io"
	"net/http"

	"github.com/voxai/voxai-sql/internal/services"
)

// maxAudioUploadBytes caps voice note uploads at 15 MB.
const maxAudioUploadBytes = 15 << 20

type VoiceHandler struct {
	TranslationService *services.TranslationService
}

func NewVoiceHandler(ts *services.TranslationService) *VoiceHandler {
	return &VoiceHandler{TranslationService: ts}
}

// Transcribe accepts a multipart audio upload and returns the recognized
// text. The client decides what to do with it; nothing is stored.
func (h *VoiceHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUserID(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAudioUploadBytes)
	if err := r.ParseMultipartForm(maxAudioUploadBytes); err != nil {
		writeError(w, "Invalid multipart upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, "An audio file is required in the 'audio' field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		writeError(w, "Could not read audio upload", http.StatusBadRequest)
		return
	}

	text, err := h.TranslationService.Transcribe(r.Context(), audio, header.Filename)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"transcription": text})
}
