package llm

import (
	"context"
	"fmt"

	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"
)

// callOpenAI OpenAI 后端：走 eino 的 openai ChatModel，按调用构造
func callOpenAI(ctx context.Context, cfg *Config, systemPrompt, userTask string) (string, error) {
	temperature := fixedTemperature
	maxTokens := fixedMaxTokens

	cm, err := openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat model init: %w", err)
	}

	msg, err := cm.Generate(ctx, []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userTask),
	})
	if err != nil {
		return "", err
	}
	if msg == nil {
		return "", nil
	}
	return msg.Content, nil
}
