package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"minigram/internal/httputil"
	"minigram/internal/model"
	"minigram/internal/service"
)

// AIHandler serves Gemini-backed caption generation.
type AIHandler struct {
	ai *service.AIService
}

func NewAIHandler(ai *service.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

// GenerateCaption handles POST /api/ai/generate-caption
func (h *AIHandler) GenerateCaption(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.ImageDescription) == "" {
		httputil.WriteBadRequest(w, "Image description is required")
		return
	}

	caption, err := h.ai.GenerateCaption(r.Context(), req.ImageDescription, req.Base64Image)
	if err != nil {
		log.Printf("[AIHandler] GenerateCaption failed: %v", err)
		httputil.WriteInternalError(w, "Error generating caption")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Caption generated successfully", httputil.M{"caption": caption})
}

// GenerateSuggestions handles POST /api/ai/generate-suggestions
func (h *AIHandler) GenerateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateSuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.ImageDescription) == "" {
		httputil.WriteBadRequest(w, "Image description is required")
		return
	}

	suggestions, err := h.ai.GenerateSuggestions(r.Context(), req.ImageDescription)
	if err != nil {
		log.Printf("[AIHandler] GenerateSuggestions failed: %v", err)
		httputil.WriteInternalError(w, "Error generating suggestions")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Caption suggestions generated successfully", httputil.M{"suggestions": suggestions})
}

// GenerateHashtags handles POST /api/ai/generate-hashtags
func (h *AIHandler) GenerateHashtags(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateHashtagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Caption) == "" {
		httputil.WriteBadRequest(w, "Caption is required")
		return
	}

	hashtags, err := h.ai.GenerateHashtags(r.Context(), req.Caption)
	if err != nil {
		log.Printf("[AIHandler] GenerateHashtags failed: %v", err)
		httputil.WriteInternalError(w, "Error generating hashtags")
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, "Hashtags generated successfully", httputil.M{"hashtags": hashtags})
}
