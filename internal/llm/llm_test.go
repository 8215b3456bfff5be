package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cardscan/internal/model"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/pkg/anthropic"
	anthropicmocks "github.com/sells-group/cardscan/pkg/anthropic/mocks"
)

var cardImage = model.Image{Data: []byte("\xff\xd8\xff\xe0card"), MediaType: "image/jpeg"}

func fastOptions() Options {
	return Options{
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 512,
		Timeout:   time.Second,
		Retry:     resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond},
	}
}

func reply(text string) *anthropic.MessageResponse {
	return &anthropic.MessageResponse{
		Content: []anthropic.ContentBlock{{Type: "text", Text: text}},
		Usage:   anthropic.TokenUsage{InputTokens: 100, OutputTokens: 20},
	}
}

func TestVision_ExtractFromImage(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		if req.Model != "claude-sonnet-4-5-20250929" || req.MaxTokens != 512 {
			return false
		}
		if len(req.System) != 1 || req.System[0].CacheControl == nil {
			return false
		}
		if len(req.Messages) != 1 || len(req.Messages[0].Images) != 1 {
			return false
		}
		img := req.Messages[0].Images[0]
		return img.MediaType == "image/jpeg" &&
			img.Data == cardImage.Base64() &&
			req.Messages[0].Content == "extract one contact"
	})).Return(reply(`  {"name":"Jane Doe"}  `), nil).Once()

	v := NewVision(client, fastOptions())
	text, err := v.ExtractFromImage(context.Background(), cardImage, "extract one contact")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Jane Doe"}`, text)
}

func TestVision_EmptyImage(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	_, err := NewVision(client, fastOptions()).ExtractFromImage(context.Background(), model.Image{}, "x")
	assert.ErrorIs(t, err, model.ErrNoImage)
}

func TestVision_RetriesTransientThenSucceeds(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, resilience.NewTransientError(errors.New("overloaded"), 529)).Once()
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(reply(`{"email":"a@b.co"}`), nil).Once()

	text, err := NewVision(client, fastOptions()).ExtractFromImage(context.Background(), cardImage, "x")
	require.NoError(t, err)
	assert.Equal(t, `{"email":"a@b.co"}`, text)
}

func TestVision_PermanentErrorNotRetried(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("invalid x-api-key")).Once()

	_, err := NewVision(client, fastOptions()).ExtractFromImage(context.Background(), cardImage, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm: vision")
}

func TestVision_EmptyReply(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).Return(reply("   "), nil).Once()

	_, err := NewVision(client, fastOptions()).ExtractFromImage(context.Background(), cardImage, "x")
	assert.ErrorIs(t, err, ErrEmptyReply)
}

func TestVision_PerCallTimeout(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(func(ctx context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 500*time.Millisecond)
			return reply("{}"), nil
		}).Once()

	_, err := NewVision(client, fastOptions()).ExtractFromImage(context.Background(), cardImage, "x")
	require.NoError(t, err)
}

func TestVision_BreakerOpens(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("invalid x-api-key")).Twice()

	opts := fastOptions()
	opts.Breaker = resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: 2,
		ResetTimeout:     time.Minute,
	})
	v := NewVision(client, opts)

	for i := 0; i < 2; i++ {
		_, err := v.ExtractFromImage(context.Background(), cardImage, "x")
		require.Error(t, err)
	}
	_, err := v.ExtractFromImage(context.Background(), cardImage, "x")
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
}

func TestText_Complete(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	client.On("CreateMessage", mock.Anything, mock.MatchedBy(func(req anthropic.MessageRequest) bool {
		return len(req.Messages) == 1 &&
			len(req.Messages[0].Images) == 0 &&
			req.Messages[0].Content == "structure this\n\nCard text:\nJane Doe\njane@acme.com"
	})).Return(reply(`{"name":"Jane Doe","email":"jane@acme.com"}`), nil).Once()

	text, err := NewText(client, fastOptions()).Complete(context.Background(), "  Jane Doe\njane@acme.com \n", "structure this")
	require.NoError(t, err)
	assert.Contains(t, text, "jane@acme.com")
}

func TestText_EmptyInput(t *testing.T) {
	client := anthropicmocks.NewMockClient(t)
	_, err := NewText(client, fastOptions()).Complete(context.Background(), " \n ", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}

func TestClassify(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, classify(plain))
}

func TestNewCallerDefaults(t *testing.T) {
	c := newCaller(nil, Options{}, "text")
	assert.Equal(t, int64(1024), c.opts.MaxTokens)
	assert.Equal(t, DefaultTimeout, c.opts.Timeout)
	require.Len(t, c.system, 1)
	assert.Contains(t, c.system[0].Text, "linkedin, instagram, twitter")
}
