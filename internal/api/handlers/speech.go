package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/repaso-app/repaso-backend/internal/document"
	"github.com/repaso-app/repaso-backend/internal/speech"
)

type SpeechHandler struct {
	engine *speech.Engine
	docSvc *document.Service
}

func NewSpeechHandler(engine *speech.Engine, docSvc *document.Service) *SpeechHandler {
	return &SpeechHandler{engine: engine, docSvc: docSvc}
}

// Speak converts request text to audio, serving from the cache when the
// same text/voice pair was synthesized before.
func (h *SpeechHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speech.SynthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	h.synthesize(w, r, req)
}

// SpeakDocument synthesizes a stored document's text.
func (h *SpeechHandler) SpeakDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid document ID"})
		return
	}

	var req speech.SynthesizeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	text, err := h.docSvc.ContentForSpeech(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}
	req.Text = text

	h.synthesize(w, r, req)
}

func (h *SpeechHandler) synthesize(w http.ResponseWriter, r *http.Request, req speech.SynthesizeRequest) {
	audio, err := h.engine.Synthesize(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, speech.ErrEmptyText):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text required"})
		case errors.Is(err, speech.ErrSynthesisFailed):
			// Provider outage: distinct from a store failure on purpose.
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}
