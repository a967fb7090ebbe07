// Package genai adapts the Gemini API to the report text generator port.
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/terraincognita07/lunara/internal/logger"
)

var ErrEmptyResponse = errors.New("model returned no text")

type Generator struct {
	log      *logger.Logger
	client   *genai.Client
	timeout  time.Duration
	generate func(ctx context.Context, model string, prompt string) (string, error)
}

func NewGenerator(ctx context.Context, apiKey string, log *logger.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing genai api key")
	}
	if log == nil {
		log = logger.Nop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	generator := &Generator{
		log:     log.With("service", "GenAIGenerator"),
		client:  client,
		timeout: 90 * time.Second,
	}
	generator.generate = func(ctx context.Context, model string, prompt string) (string, error) {
		response, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return response.Text(), nil
	}
	return generator, nil
}

func (generator *Generator) GenerateText(ctx context.Context, prompt string, model string) (string, error) {
	if generator.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, generator.timeout)
		defer cancel()
	}

	started := time.Now()
	text, err := generator.generate(ctx, model, prompt)
	if err != nil {
		return "", fmt.Errorf("genai generate content: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}

	generator.log.Debug("generated analysis", "model", model, "elapsed", time.Since(started), "chars", len(text))
	return text, nil
}
