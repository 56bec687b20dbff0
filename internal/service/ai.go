package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"minigram/internal/config"
	"minigram/internal/model"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// AIService proxies caption generation to the Gemini generateContent API.
type AIService struct {
	apiKey  string
	modelID string
	baseURL string
	client  *http.Client
}

func NewAIService(cfg *config.Config) *AIService {
	return &AIService{
		apiKey:  cfg.GeminiAPIKey,
		modelID: cfg.GeminiModel,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether an API key is configured.
func (s *AIService) Enabled() bool {
	return s.apiKey != ""
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateCaption produces a single caption for the described image. The
// optional base64 image is sent alongside the prompt when provided.
func (s *AIService) GenerateCaption(ctx context.Context, imageDescription, base64Image string) (string, error) {
	prompt := fmt.Sprintf(`Generate a creative, engaging Instagram caption for an image with the following description: %q.
The caption should:
- Be catchy and engaging
- Include relevant hashtags (2-5)
- Be appropriate for social media
- Be 50-150 characters including hashtags
Return only the caption, nothing else.`, imageDescription)

	parts := []geminiPart{{Text: prompt}}
	if base64Image != "" {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: "image/jpeg",
			Data:     base64Image,
		}})
	}

	text, err := s.generateContent(ctx, parts)
	if err != nil {
		return "", err
	}

	caption := strings.TrimSpace(text)
	if caption == "" {
		return "", model.ErrAIUnavailable
	}
	return caption, nil
}

var listNumbering = regexp.MustCompile(`^\d+\.\s*`)

// GenerateSuggestions produces three distinct caption options.
func (s *AIService) GenerateSuggestions(ctx context.Context, imageDescription string) ([]string, error) {
	prompt := fmt.Sprintf(`Generate 3 different creative and engaging Instagram captions for an image with the following description: %q.
Each caption should:
- Be catchy and engaging
- Include relevant hashtags (2-3)
- Be appropriate for social media
- Be unique and different from each other

Format the response as a numbered list (1. Caption, 2. Caption, 3. Caption). Return only the captions, nothing else.`, imageDescription)

	text, err := s.generateContent(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	suggestions := []string{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = listNumbering.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			suggestions = append(suggestions, line)
		}
	}
	return suggestions, nil
}

// GenerateHashtags produces hashtags for an existing caption.
func (s *AIService) GenerateHashtags(ctx context.Context, caption string) ([]string, error) {
	prompt := fmt.Sprintf(`Based on this Instagram caption, generate 10-15 relevant hashtags that would help increase visibility:
%q

Return only the hashtags separated by spaces, starting with # (e.g., #hashtag1 #hashtag2). No numbering or other text.`, caption)

	text, err := s.generateContent(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	hashtags := []string{}
	for _, token := range strings.Fields(text) {
		if strings.HasPrefix(token, "#") {
			hashtags = append(hashtags, strings.ToLower(token))
		}
	}
	return hashtags, nil
}

func (s *AIService) generateContent(ctx context.Context, parts []geminiPart) (string, error) {
	if !s.Enabled() {
		return "", model.ErrAINotConfigured
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.modelID, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("[AIService] Gemini request failed: %v", err)
		return "", model.ErrAIUnavailable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("[AIService] Gemini returned status=%d body=%s", resp.StatusCode, respBody)
		return "", model.ErrAIUnavailable
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", model.ErrAIUnavailable
	}

	var out strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		out.WriteString(part.Text)
	}
	return out.String(), nil
}
