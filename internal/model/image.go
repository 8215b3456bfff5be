package model

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoImage is returned when an extraction is requested without image data.
var ErrNoImage = eris.New("no image provided")

// ErrUnsupportedImage is returned for data that is not a supported image encoding.
var ErrUnsupportedImage = eris.New("unsupported image encoding")

// SupportedMediaTypes are the image encodings accepted by the vision service.
var SupportedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Image is a business card photograph.
type Image struct {
	Data      []byte
	MediaType string
}

// NewImage wraps raw image bytes, sniffing the media type from the content.
func NewImage(data []byte) (Image, error) {
	if len(data) == 0 {
		return Image{}, ErrNoImage
	}
	mediaType := http.DetectContentType(data)
	if !SupportedMediaTypes[mediaType] {
		return Image{}, eris.Wrapf(ErrUnsupportedImage, "detected %s", mediaType)
	}
	return Image{Data: data, MediaType: mediaType}, nil
}

// DecodeImage accepts a base64 string or a "data:image/...;base64," URL.
func DecodeImage(encoded string) (Image, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return Image{}, ErrNoImage
	}

	if strings.HasPrefix(encoded, "data:") {
		comma := strings.Index(encoded, ",")
		if comma < 0 || !strings.Contains(encoded[:comma], ";base64") {
			return Image{}, eris.Wrap(ErrUnsupportedImage, "malformed data URL")
		}
		encoded = encoded[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return Image{}, eris.Wrap(ErrUnsupportedImage, "invalid base64")
		}
	}
	return NewImage(data)
}

// Base64 returns the standard base64 encoding of the image data.
func (img Image) Base64() string {
	return base64.StdEncoding.EncodeToString(img.Data)
}

// DataURL returns the image as a data URL.
func (img Image) DataURL() string {
	return "data:" + img.MediaType + ";base64," + img.Base64()
}
