package ocr

import (
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"
)

// tesseract wraps one gosseract client. A client is not safe for concurrent
// use; the Pool serializes calls.
type tesseract struct {
	client *gosseract.Client
}

// NewTesseractFactory returns a Factory creating Tesseract recognizers for
// the given languages (default "eng").
func NewTesseractFactory(languages []string) Factory {
	return func() (Recognizer, error) {
		c := gosseract.NewClient()
		if len(languages) > 0 {
			if err := c.SetLanguage(languages...); err != nil {
				_ = c.Close()
				return nil, eris.Wrap(err, "ocr: set tesseract languages")
			}
		}
		return &tesseract{client: c}, nil
	}
}

func (t *tesseract) Recognize(data []byte) (string, error) {
	if err := t.client.SetImageFromBytes(data); err != nil {
		return "", eris.Wrap(err, "ocr: set tesseract image")
	}
	text, err := t.client.Text()
	if err != nil {
		return "", eris.Wrap(err, "ocr: tesseract recognize")
	}
	return strings.TrimSpace(text), nil
}

func (t *tesseract) Close() error {
	return t.client.Close()
}
