package main

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cardscan/internal/config"
	"github.com/sells-group/cardscan/internal/extract"
	"github.com/sells-group/cardscan/internal/llm"
	"github.com/sells-group/cardscan/internal/ocr"
	"github.com/sells-group/cardscan/internal/resilience"
	"github.com/sells-group/cardscan/pkg/anthropic"
)

// extractEnv holds the extractor and the resources behind it.
type extractEnv struct {
	Extractor *extract.Extractor
	OCR       ocr.Engine
	Breakers  *resilience.ServiceBreakers
}

// Close releases the OCR engine.
func (e *extractEnv) Close() {
	if e.OCR != nil {
		if err := e.OCR.Close(); err != nil {
			zap.L().Warn("close ocr engine", zap.Error(err))
		}
	}
}

// initExtractor validates configuration for mode and wires the model
// services, the OCR engine and the extractor. Callers should defer
// env.Close().
func initExtractor(c *config.Config, mode string) (*extractEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	for model, p := range c.Pricing.Anthropic {
		anthropic.SetPricing(model, anthropic.Pricing{
			Input:         p.Input,
			Output:        p.Output,
			CacheWriteMul: p.CacheWriteMul,
			CacheReadMul:  p.CacheReadMul,
		})
	}

	env := &extractEnv{
		Breakers: resilience.NewServiceBreakers(resilience.FromCircuitConfig(c.Circuit)),
	}

	engine, err := ocr.NewEngine(c.OCR, c.Retry)
	if err != nil {
		return nil, eris.Wrap(err, "init ocr engine")
	}
	env.OCR = engine

	var (
		vision extract.VisionService
		text   extract.TextService
	)
	if c.UsesModel() {
		client := anthropic.NewClient(c.Anthropic.Key,
			anthropic.WithBaseURL(c.Anthropic.BaseURL),
			anthropic.WithRateLimit(c.Anthropic.RequestsPerSecond),
		)
		if !c.Extract.DisableVision {
			vision = llm.NewVision(client, modelOptions(c, env.Breakers, c.Anthropic.VisionModel, "vision"))
		}
		if !c.Extract.DisableTextModel {
			text = llm.NewText(client, modelOptions(c, env.Breakers, c.Anthropic.TextModel, "text"))
		}
	}

	var ocrEngine extract.OCREngine
	if c.OCR.Provider != "none" {
		ocrEngine = engine
	}

	env.Extractor = extract.New(vision, text, ocrEngine, extract.Options{
		MaxContacts: c.Extract.MaxContacts,
	})

	zap.L().Info("extractor ready",
		zap.Bool("vision", vision != nil),
		zap.Bool("text_model", text != nil),
		zap.String("ocr_provider", c.OCR.Provider),
	)
	return env, nil
}

func modelOptions(c *config.Config, breakers *resilience.ServiceBreakers, model, service string) llm.Options {
	return llm.Options{
		Model:     model,
		MaxTokens: c.Anthropic.MaxTokens,
		Timeout:   c.Extract.ModelTimeout(),
		Retry:     resilience.FromRetryConfig(c.Retry, service, "create_message"),
		Breaker:   breakers.Get(service),
	}
}
