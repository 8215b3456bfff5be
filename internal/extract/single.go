package extract

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/contact"
	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/parse"
	"github.com/sells-group/cardscan/internal/rules"
)

var errNoOCR = eris.New("extract: no ocr engine configured")

// stage is a step of the single-contact cascade.
type stage int

const (
	stageVision stage = iota
	stageOCRTextModel
	stageOCRRules
	stageDone
)

func (s stage) String() string {
	switch s {
	case stageVision:
		return "vision"
	case stageOCRTextModel:
		return "ocr_text_model"
	case stageOCRRules:
		return "ocr_rules"
	case stageDone:
		return "done"
	default:
		return "unknown"
	}
}

// singleRun holds the working state of one ExtractSingle call.
type singleRun struct {
	e   *Extractor
	img model.Image
	log *zap.Logger

	// partial is a vision result that did not pass the gate.
	partial    *model.FieldSet
	visionText string
	ocrText    string

	fields model.FieldSet
	raw    string
	method model.Method
}

// ExtractSingle extracts one contact from a card image. Stage failures fall
// through to the next stage; the returned error is non-nil only for missing
// input or a cancelled context.
func (e *Extractor) ExtractSingle(ctx context.Context, img model.Image) (*model.ExtractionResult, error) {
	if len(img.Data) == 0 {
		return nil, model.ErrNoImage
	}

	start := time.Now()
	reqID := uuid.NewString()
	r := &singleRun{
		e:   e,
		img: img,
		log: zap.L().With(zap.String("request_id", reqID), zap.String("mode", "single")),
	}

	st := stageVision
	for st != stageDone {
		if err := ctx.Err(); err != nil {
			r.log.Info("extract: abandoned", zap.Stringer("stage", st), zap.Error(err))
			return nil, err
		}

		var err error
		switch st {
		case stageVision:
			st, err = r.vision(ctx)
		case stageOCRTextModel:
			st, err = r.ocrTextModel(ctx)
		case stageOCRRules:
			st = r.ocrRules()
		}
		if err != nil {
			return nil, err
		}
	}

	res := &model.ExtractionResult{
		RequestID:  reqID,
		Fields:     r.fields,
		RawText:    r.raw,
		Method:     r.method,
		DurationMs: time.Since(start).Milliseconds(),
	}
	r.log.Info("extract: done",
		zap.String("method", string(res.Method)),
		zap.Int("fields", res.Fields.Filled()),
		zap.Int64("duration_ms", res.DurationMs),
	)
	return res, nil
}

// failed logs an absorbed stage failure. It returns the context error when
// the failure was caused by cancellation.
func (r *singleRun) failed(ctx context.Context, st stage, msg string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	r.log.Warn(msg, zap.Stringer("stage", st), zap.Error(err))
	return nil
}

func (r *singleRun) vision(ctx context.Context) (stage, error) {
	if r.e.vision == nil {
		return stageOCRTextModel, nil
	}

	reply, err := r.e.vision.ExtractFromImage(ctx, r.img, singleContactPrompt)
	if err != nil {
		return stageOCRTextModel, r.failed(ctx, stageVision, "extract: vision failed", err)
	}
	r.visionText = reply

	fs, err := parse.Contact(reply)
	if err != nil {
		return stageOCRTextModel, r.failed(ctx, stageVision, "extract: vision reply unparseable", err)
	}

	if contact.IsValid(fs) {
		r.fields, r.raw, r.method = fs, reply, model.MethodVision
		return stageDone, nil
	}
	if !fs.IsEmpty() {
		r.partial = &fs
		r.log.Debug("extract: partial vision result", zap.Int("fields", fs.Filled()))
	}
	return stageOCRTextModel, nil
}

func (r *singleRun) ocrTextModel(ctx context.Context) (stage, error) {
	text, err := r.e.recognize(ctx, r.img)
	if err != nil {
		if err := r.failed(ctx, stageOCRTextModel, "extract: ocr failed", err); err != nil {
			return stageDone, err
		}
		r.ocrFailed()
		return stageDone, nil
	}
	r.ocrText = text

	if strings.TrimSpace(text) == "" || r.e.text == nil {
		return stageOCRRules, nil
	}

	reply, err := r.e.text.Complete(ctx, text, textContactPrompt)
	if err != nil {
		return stageOCRRules, r.failed(ctx, stageOCRTextModel, "extract: text model failed", err)
	}
	fs, err := parse.Contact(reply)
	if err != nil {
		return stageOCRRules, r.failed(ctx, stageOCRTextModel, "extract: text model reply unparseable", err)
	}

	r.finish(fs, model.MethodOCRTextModel)
	return stageDone, nil
}

func (r *singleRun) ocrRules() stage {
	if strings.TrimSpace(r.ocrText) == "" {
		r.ocrFailed()
		return stageDone
	}
	r.finish(rules.Extract(r.ocrText), model.MethodOCRRules)
	return stageDone
}

// ocrFailed settles the run when OCR produced nothing: the remembered vision
// partial if there is one, otherwise an empty field set.
func (r *singleRun) ocrFailed() {
	if r.partial != nil {
		r.fields, r.raw, r.method = *r.partial, r.visionText, model.MethodVision
		return
	}
	r.fields, r.raw, r.method = model.FieldSet{}, r.ocrText, model.MethodNone
}

// finish merges an OCR-derived result under the vision partial, if any.
func (r *singleRun) finish(fs model.FieldSet, m model.Method) {
	r.raw = r.ocrText
	if r.partial == nil {
		r.fields, r.method = fs, m
		return
	}
	r.fields = contact.Normalize(contact.Merge(*r.partial, fs))
	r.method = model.ComposeMethod(model.MethodVision, m)
}
