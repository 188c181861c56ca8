package summary

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-1.5-flash"

	maxPromptContent = 6000
)

// Gemini generates summaries with a Google Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cmp.Or(model, DefaultModel),
	}, nil
}

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.3)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(300)

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	text := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	if text == "" {
		return "", fmt.Errorf("empty summary from Gemini")
	}
	return text, nil
}

func buildPrompt(req Request) string {
	content := strings.Join(strings.Fields(req.Content), " ")
	if runes := []rune(content); len(runes) > maxPromptContent {
		content = string(runes[:maxPromptContent]) + " [TRUNCATED]"
	}

	return fmt.Sprintf(`Please provide a concise 1-minute summary of this news article. Focus on the key facts, main points, and essential information that someone could read in about 60 seconds.

Title: %s
Source: %s

Article Content:
%s

Guidelines for summary:
- Keep it to 3-4 sentences maximum (150-200 words)
- Focus on who, what, when, where, why, and how
- Include the most important facts and outcomes
- Maintain neutral, journalistic tone
- Start with the most important information
- Only return the summary text, no additional commentary

Summary:`, req.Title, cmp.Or(req.Source, "News Article"), content)
}
