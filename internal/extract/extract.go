// Package extract runs the contact extraction cascade: a vision model, then
// OCR text structured by a text model, then deterministic rules over the OCR
// text. Collaborator failures are logged and absorbed; only input errors and
// context cancellation reach the caller.
package extract

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/contact"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/parse"
	"github.com/sells-group/cardscan/internal/rules"
)

// DefaultMaxContacts caps multi-contact results.
const DefaultMaxContacts = 4

// VisionService reads a card image and replies with free-form text that
// should contain the contact JSON.
type VisionService interface {
	ExtractFromImage(ctx context.Context, img model.Image, instruction string) (string, error)
}

// TextService structures recognized card text.
type TextService interface {
	Complete(ctx context.Context, text, instruction string) (string, error)
}

// OCREngine recognizes the plain text of an image.
type OCREngine interface {
	ExtractText(ctx context.Context, img model.Image) (string, error)
}

// Options configures an Extractor.
type Options struct {
	// MaxContacts caps ExtractMulti results. Default: 4.
	MaxContacts int
}

// Extractor runs the extraction cascade. A nil collaborator disables its
// stage. An Extractor is safe for concurrent use.
type Extractor struct {
	vision VisionService
	text   TextService
	ocr    OCREngine
	opts   Options
}

// New creates an Extractor.
func New(vision VisionService, text TextService, ocr OCREngine, opts Options) *Extractor {
	if opts.MaxContacts <= 0 {
		opts.MaxContacts = DefaultMaxContacts
	}
	return &Extractor{vision: vision, text: text, ocr: ocr, opts: opts}
}

// ExtractFromText runs the rule-based extractor on text that is already
// available. Blank text yields an empty field set.
func (e *Extractor) ExtractFromText(rawText string) model.FieldSet {
	if strings.TrimSpace(rawText) == "" {
		return model.FieldSet{}
	}
	return rules.Extract(rawText)
}

// ExtractMulti returns up to MaxContacts contacts from an image that may show
// several cards.
func (e *Extractor) ExtractMulti(ctx context.Context, img model.Image) (*model.MultiContactResult, error) {
	if len(img.Data) == 0 {
		return nil, model.ErrNoImage
	}

	start := time.Now()
	res := &model.MultiContactResult{RequestID: uuid.NewString()}
	log := zap.L().With(zap.String("request_id", res.RequestID), zap.String("mode", "multi"))

	if e.vision != nil {
		reply, err := e.vision.ExtractFromImage(ctx, img, multiContactPrompt)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warn("extract: vision failed", zap.String("stage", "vision"), zap.Error(err))
		default:
			if contacts := e.visionContacts(reply); len(contacts) > 0 {
				res.Contacts = contacts
				res.RawText = reply
				res.Method = model.MethodVision
				return e.finishMulti(log, res, start), nil
			}
			log.Warn("extract: vision reply held no valid contact", zap.String("stage", "vision"))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := e.recognize(ctx, img)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn("extract: ocr failed", zap.String("stage", "ocr_rules"), zap.Error(err))
		res.Method = model.MethodNone
		return e.finishMulti(log, res, start), nil
	}

	res.RawText = text
	res.Contacts = rules.Segment(text, e.opts.MaxContacts)
	res.Method = model.MethodOCRRules
	if len(res.Contacts) == 0 {
		res.Method = model.MethodNone
	}
	return e.finishMulti(log, res, start), nil
}

// visionContacts reads a multi-contact reply: a single gate-valid object
// wins, otherwise the gate-valid entries of a list.
func (e *Extractor) visionContacts(reply string) []model.FieldSet {
	if !parse.IsList(reply) {
		if fs, err := parse.Contact(reply); err == nil && contact.IsValid(fs) {
			return []model.FieldSet{fs}
		}
	}
	sets, err := parse.Contacts(reply)
	if err != nil {
		return nil
	}
	return contact.FilterValid(sets, e.opts.MaxContacts)
}

func (e *Extractor) finishMulti(log *zap.Logger, res *model.MultiContactResult, start time.Time) *model.MultiContactResult {
	if res.Contacts == nil {
		res.Contacts = []model.FieldSet{}
	}
	res.DurationMs = time.Since(start).Milliseconds()
	log.Info("extract: done",
		zap.String("method", string(res.Method)),
		zap.Int("contacts", len(res.Contacts)),
		zap.Int64("duration_ms", res.DurationMs),
	)
	return res
}

func (e *Extractor) recognize(ctx context.Context, img model.Image) (string, error) {
	if e.ocr == nil {
		return "", errNoOCR
	}
	return e.ocr.ExtractText(ctx, img)
}
