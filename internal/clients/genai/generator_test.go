package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/terraincognita07/lunara/internal/logger"
)

func TestNewGeneratorRequiresAPIKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), " ", nil); err == nil {
		t.Fatal("expected missing api key error")
	}
}

func TestGeneratorGenerateText(t *testing.T) {
	var gotModel, gotPrompt string
	generator := &Generator{
		log: logger.Nop(),
		generate: func(_ context.Context, model string, prompt string) (string, error) {
			gotModel, gotPrompt = model, prompt
			return "\n  Estradiol looks typical.  \n", nil
		},
	}

	text, err := generator.GenerateText(context.Background(), "analyze", "gemini-2.0-flash")
	if err != nil {
		t.Fatalf("GenerateText() unexpected error: %v", err)
	}
	if text != "Estradiol looks typical." {
		t.Fatalf("unexpected text %q", text)
	}
	if gotModel != "gemini-2.0-flash" || gotPrompt != "analyze" {
		t.Fatalf("unexpected request model=%q prompt=%q", gotModel, gotPrompt)
	}
}

func TestGeneratorGenerateTextErrors(t *testing.T) {
	failing := &Generator{log: logger.Nop(), generate: func(context.Context, string, string) (string, error) {
		return "", errors.New("429 resource exhausted")
	}}
	if _, err := failing.GenerateText(context.Background(), "p", "m"); err == nil {
		t.Fatal("expected wrapped client error")
	}

	empty := &Generator{log: logger.Nop(), generate: func(context.Context, string, string) (string, error) {
		return "   ", nil
	}}
	if _, err := empty.GenerateText(context.Background(), "p", "m"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}
