package model

import "errors"

// GenerateCaptionRequest asks for one caption for an image description.
// Base64Image is optional raw JPEG/PNG data to ground the caption.
type GenerateCaptionRequest struct {
	ImageDescription string `json:"imageDescription"`
	Base64Image      string `json:"base64Image,omitempty"`
}

// GenerateSuggestionsRequest asks for several alternative captions.
type GenerateSuggestionsRequest struct {
	ImageDescription string `json:"imageDescription"`
}

// GenerateHashtagsRequest asks for hashtags matching an existing caption.
type GenerateHashtagsRequest struct {
	Caption string `json:"caption"`
}

// AI errors
var (
	ErrAINotConfigured = errors.New("generative api key not configured")
	ErrAIUnavailable   = errors.New("generative service unavailable")
)
