package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minigram/internal/model"
)

// fakeGemini returns a test server that answers every generateContent call
// with the given text, and records the last request body.
func fakeGemini(t *testing.T, text string, lastBody *geminiRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if lastBody != nil {
			if err := json.NewDecoder(r.Body).Decode(lastBody); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": text}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestAIService(baseURL string) *AIService {
	return &AIService{
		apiKey:  "test-key",
		modelID: "gemini-2.0-flash",
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestAIService_GenerateCaption(t *testing.T) {
	var body geminiRequest
	srv := fakeGemini(t, "  Golden hour vibes #sunset #beach  ", &body)
	defer srv.Close()

	svc := newTestAIService(srv.URL)

	caption, err := svc.GenerateCaption(context.Background(), "a beach at sunset", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caption != "Golden hour vibes #sunset #beach" {
		t.Errorf("caption = %q, want trimmed response text", caption)
	}

	if len(body.Contents) != 1 || len(body.Contents[0].Parts) != 1 {
		t.Fatalf("request should carry a single text part, got %+v", body)
	}
	if !strings.Contains(body.Contents[0].Parts[0].Text, "a beach at sunset") {
		t.Error("prompt should include the image description")
	}
}

func TestAIService_GenerateCaption_WithImage(t *testing.T) {
	var body geminiRequest
	srv := fakeGemini(t, "caption", &body)
	defer srv.Close()

	svc := newTestAIService(srv.URL)

	if _, err := svc.GenerateCaption(context.Background(), "desc", "aGVsbG8="); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(body.Contents[0].Parts) != 2 {
		t.Fatalf("expected prompt part plus image part, got %d parts", len(body.Contents[0].Parts))
	}
	img := body.Contents[0].Parts[1].InlineData
	if img == nil || img.Data != "aGVsbG8=" {
		t.Errorf("image part = %+v, want the base64 payload", img)
	}
}

func TestAIService_GenerateSuggestions_StripsNumbering(t *testing.T) {
	srv := fakeGemini(t, "1. First caption #fun\n2. Second caption #cool\n\n3. Third caption #nice\n", nil)
	defer srv.Close()

	svc := newTestAIService(srv.URL)

	suggestions, err := svc.GenerateSuggestions(context.Background(), "desc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"First caption #fun", "Second caption #cool", "Third caption #nice"}
	if len(suggestions) != len(want) {
		t.Fatalf("suggestions = %v, want %v", suggestions, want)
	}
	for i := range want {
		if suggestions[i] != want[i] {
			t.Errorf("suggestions[%d] = %q, want %q", i, suggestions[i], want[i])
		}
	}
}

func TestAIService_GenerateHashtags_FiltersAndLowercases(t *testing.T) {
	srv := fakeGemini(t, "Here you go: #Sunset #BEACH waves #ocean\n#Travel", nil)
	defer srv.Close()

	svc := newTestAIService(srv.URL)

	hashtags, err := svc.GenerateHashtags(context.Background(), "beach day")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"#sunset", "#beach", "#ocean", "#travel"}
	if len(hashtags) != len(want) {
		t.Fatalf("hashtags = %v, want %v", hashtags, want)
	}
	for i := range want {
		if hashtags[i] != want[i] {
			t.Errorf("hashtags[%d] = %q, want %q", i, hashtags[i], want[i])
		}
	}
}

func TestAIService_NotConfigured(t *testing.T) {
	svc := &AIService{client: http.DefaultClient}

	_, err := svc.GenerateCaption(context.Background(), "desc", "")
	if !errors.Is(err, model.ErrAINotConfigured) {
		t.Errorf("error = %v, want %v", err, model.ErrAINotConfigured)
	}
}

func TestAIService_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := newTestAIService(srv.URL)

	_, err := svc.GenerateHashtags(context.Background(), "caption")
	if !errors.Is(err, model.ErrAIUnavailable) {
		t.Errorf("error = %v, want %v", err, model.ErrAIUnavailable)
	}
}
