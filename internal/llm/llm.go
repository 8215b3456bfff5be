// Package llm provides the vision and text-completion services used by the
// extraction cascade. Both send one message per call through pkg/anthropic
// under a per-call timeout, retry transient failures, and share a circuit
// breaker per service.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/pkg/anthropic"
)

// ErrEmptyReply is returned when the model answers with no text.
var ErrEmptyReply = eris.New("llm: empty reply")

const systemPrompt = `You read business cards and return the contact details they contain.
Reply with JSON only, no prose and no code fences. Use exactly these keys:
name, title, company, phone, email, website, address, linkedin, instagram, twitter.
Use an empty string for anything not printed on the card. Never guess or invent values.`

// DefaultTimeout bounds a single model call when Options.Timeout is unset.
const DefaultTimeout = 45 * time.Second

// Options configures a model-backed service.
type Options struct {
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	Retry     resilience.RetryConfig
	// Breaker is shared by every call of the service. Nil disables it.
	Breaker *resilience.CircuitBreaker
}

type caller struct {
	client anthropic.Client
	opts   Options
	stage  string
	system []anthropic.SystemBlock
}

func newCaller(client anthropic.Client, opts Options, stage string) caller {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 1024
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return caller{
		client: client,
		opts:   opts,
		stage:  stage,
		system: anthropic.BuildCachedSystemBlocks(systemPrompt),
	}
}

func (c caller) send(ctx context.Context, msg anthropic.Message) (string, error) {
	req := anthropic.MessageRequest{
		Model:     c.opts.Model,
		MaxTokens: c.opts.MaxTokens,
		System:    c.system,
		Messages:  []anthropic.Message{msg},
	}

	attempt := func(ctx context.Context) (*anthropic.MessageResponse, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
		resp, err := c.client.CreateMessage(callCtx, req)
		if err != nil {
			return nil, classify(err)
		}
		return resp, nil
	}

	var (
		resp *anthropic.MessageResponse
		err  error
	)
	if c.opts.Breaker != nil {
		resp, err = resilience.Call(ctx, c.opts.Breaker, c.opts.Retry, attempt)
	} else {
		resp, err = resilience.DoVal(ctx, c.opts.Retry, attempt)
	}
	if err != nil {
		return "", eris.Wrapf(err, "llm: %s", c.stage)
	}

	resp.Usage.LogCost(c.opts.Model, c.stage)

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		zap.L().Debug("llm: empty reply",
			zap.String("stage", c.stage),
			zap.String("stop_reason", resp.StopReason),
		)
		return "", ErrEmptyReply
	}
	return text, nil
}

// classify marks retryable API statuses as transient.
func classify(err error) error {
	if code := anthropic.StatusCode(err); code != 0 && resilience.IsTransientHTTPStatus(code) {
		return resilience.NewTransientError(err, code)
	}
	return err
}

// Vision extracts contact text from card images.
type Vision struct {
	caller
}

// NewVision returns a vision service backed by client.
func NewVision(client anthropic.Client, opts Options) *Vision {
	return &Vision{caller: newCaller(client, opts, "vision")}
}

// ExtractFromImage sends img with instruction and returns the model's reply.
func (v *Vision) ExtractFromImage(ctx context.Context, img model.Image, instruction string) (string, error) {
	if len(img.Data) == 0 {
		return "", model.ErrNoImage
	}
	return v.send(ctx, anthropic.Message{
		Role:    "user",
		Content: instruction,
		Images:  []anthropic.Image{{MediaType: img.MediaType, Data: img.Base64()}},
	})
}

// Text structures OCR output with a text-only model.
type Text struct {
	caller
}

// NewText returns a text-completion service backed by client.
func NewText(client anthropic.Client, opts Options) *Text {
	return &Text{caller: newCaller(client, opts, "text")}
}

// Complete sends instruction followed by text and returns the model's reply.
func (t *Text) Complete(ctx context.Context, text, instruction string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", eris.New("llm: no text to complete")
	}
	return t.send(ctx, anthropic.Message{
		Role:    "user",
		Content: instruction + "\n\nCard text:\n" + text,
	})
}
