package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// callGemini Gemini 后端：走 google genai SDK 的一次性 GenerateContent
func callGemini(ctx context.Context, cfg *Config, systemPrompt, userTask string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("gemini client init: %w", err)
	}

	temperature := fixedTemperature
	maxTokens := int32(fixedMaxTokens)

	genCfg := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: maxTokens,
	}
	if systemPrompt != "" {
		genCfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: systemPrompt}}}
	}

	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: userTask}}}}

	resp, err := client.Models.GenerateContent(ctx, cfg.Model, contents, genCfg)
	if err != nil {
		return "", err
	}
	return extractGeminiText(resp), nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var parts []string
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				parts = append(parts, p.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
