// Package ocr provides the text-recognition engines behind the OCR stages of
// the extraction cascade.
package ocr

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
)

// ErrDisabled is returned by the engine used when OCR is turned off.
var ErrDisabled = eris.New("ocr: disabled")

// Engine extracts raw text from a card image.
type Engine interface {
	ExtractText(ctx context.Context, img model.Image) (string, error)
	Close() error
}

// NewEngine creates the Engine selected by cfg.Provider.
func NewEngine(cfg config.OCRConfig, retry config.RetryConfig) (Engine, error) {
	switch cfg.Provider {
	case "tesseract", "":
		idle := time.Duration(cfg.IdleTimeoutSecs) * time.Second
		return NewPool(NewTesseractFactory(cfg.Languages), idle), nil
	case "mistral":
		if cfg.Mistral.Key == "" {
			return nil, eris.New("ocr: mistral provider requires ocr.mistral.key")
		}
		m := NewMistralOCR(cfg.Mistral.Key, cfg.Mistral.Model)
		if cfg.Mistral.BaseURL != "" {
			m.endpoint = cfg.Mistral.BaseURL
		}
		m.retry = resilience.FromRetryConfig(retry, "mistral", "ocr")
		return m, nil
	case "none":
		return disabled{}, nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", cfg.Provider)
	}
}

type disabled struct{}

func (disabled) ExtractText(context.Context, model.Image) (string, error) { return "", ErrDisabled }

func (disabled) Close() error { return nil }
