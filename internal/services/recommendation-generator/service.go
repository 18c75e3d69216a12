package recommendationgenerator

import (
	"bytes"
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	apperrors "product-recommender/internal/common/errors"
	httpclient "product-recommender/internal/common/http"
	"product-recommender/internal/common/llm"
	"product-recommender/internal/common/logger"
	"product-recommender/internal/common/observability"
)

const ServiceName = "recommendation-generator"

// Generator renders one prompt set and hands it to the language model.
type Generator struct {
	prompts PromptSet
	model   llm.TextCompletion
	obs     *observability.Observability
	logger  logger.Logger
}

func NewGenerator(prompts PromptSet, model llm.TextCompletion, obs *observability.Observability, log logger.Logger) *Generator {
	return &Generator{
		prompts: prompts,
		model:   model,
		obs:     obs,
		logger: log.With(map[string]interface{}{
			"service": ServiceName,
			"prompts": prompts.Name,
		}),
	}
}

// Generate returns the model's raw completion. It makes exactly one model call and never retries.
func (g *Generator) Generate(ctx context.Context, fields map[string]any) (string, error) {
	ctx, span := g.obs.StartSpan(ctx, "recommendation.generate", attribute.String("prompts", g.prompts.Name))
	defer span.End()

	messages, err := g.render(fields)
	if err != nil {
		span.RecordError(err)
		return "", apperrors.NewPromptRenderFailedError(err)
	}

	start := time.Now()
	text, err := g.model.Complete(ctx, messages)
	if err != nil {
		span.RecordError(err)
		g.logger.Error("language model call failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, httpclient.ErrTimeout) {
			return "", apperrors.NewLLMTimeoutError(err)
		}
		return "", apperrors.NewLLMGenerationFailedError(err)
	}

	g.logger.Info("recommendations generated", map[string]interface{}{
		"duration":   time.Since(start).String(),
		"textLength": len(text),
	})
	return text, nil
}

func (g *Generator) render(fields map[string]any) ([]llm.Message, error) {
	var system, user bytes.Buffer
	if err := g.prompts.System.Execute(&system, fields); err != nil {
		return nil, err
	}
	if err := g.prompts.User.Execute(&user, fields); err != nil {
		return nil, err
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system.String()},
		{Role: llm.RoleUser, Content: user.String()},
	}, nil
}
