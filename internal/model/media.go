package model

import "errors"

// UploadResult describes a stored media object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Media constraints
const (
	MaxImageSizeBytes = 10 * 1024 * 1024 // 10MB
	MaxImageDimension = 1080             // longest edge after normalization
	ImageFolder       = "images"
	ContentTypeJPEG   = "image/jpeg"
	ImageCacheControl = "public, max-age=31536000"
)

// Media errors
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowedImageType reports whether the content type is an accepted upload.
func IsAllowedImageType(contentType string) bool {
	return allowedImageTypes[contentType]
}
