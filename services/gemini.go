package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiCompleter implements TextCompleter on top of the Google Gemini API.
// Both the expansion and generation stages share one client; the model name
// and temperature come from the pipeline configuration per call.
type GeminiCompleter struct {
	client *genai.Client
}

func NewGeminiCompleter(client *genai.Client) *GeminiCompleter {
	return &GeminiCompleter{client: client}
}

func (g *GeminiCompleter) Complete(ctx context.Context, model string, temperature float64, prompt string) (string, error) {
	temp := float32(temperature)
	result, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: &temp,
	})
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned an empty response")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}
