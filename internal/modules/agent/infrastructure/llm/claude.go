package llm

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/smithy-go/auth/bearer"
)

// bedrockConverseAPI 抽象 Bedrock runtime 接口，便于测试注入
type bedrockConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// newBedrockClient 按调用构造 Bedrock 客户端（API Key 以 bearer token 注入）
var newBedrockClient = func(ctx context.Context, cfg *Config) (bedrockConverseAPI, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithBearerAuthTokenProvider(
			bearer.StaticTokenProvider{Token: bearer.Token{Value: cfg.APIKey}},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}

// callClaude Claude 后端：走 Bedrock Converse API
func callClaude(ctx context.Context, cfg *Config, systemPrompt, userTask string) (string, error) {
	client, err := newBedrockClient(ctx, cfg)
	if err != nil {
		return "", err
	}

	temperature := fixedTemperature
	maxTokens := int32(fixedMaxTokens)

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(cfg.Model),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: userTask},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(maxTokens),
			Temperature: aws.Float32(temperature),
		},
	}

	output, err := client.Converse(ctx, input)
	if err != nil {
		return "", err
	}

	return extractBedrockText(output), nil
}

func extractBedrockText(output *bedrockruntime.ConverseOutput) string {
	if output == nil {
		return ""
	}
	msg, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	text := ""
	for _, block := range msg.Value.Content {
		if tb, ok := block.(*types.ContentBlockMemberText); ok {
			text += tb.Value
		}
	}
	return text
}
