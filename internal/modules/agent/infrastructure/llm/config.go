package llm

import (
	"os"
	"strings"

	appconfig "OpsLink/internal/config"
	"OpsLink/internal/modules/agent/domain/entity"
)

// 默认密钥环境变量名（Agent 的 api_key_ref 或配置文件可覆盖）
const (
	defaultOpenAIKeyEnv = "OPENAI_API_KEY"
	defaultClaudeKeyEnv = "AWS_BEARER_TOKEN_BEDROCK"
	defaultGeminiKeyEnv = "GEMINI_API_KEY"
)

// 默认模型名（provider 级固定常量，Agent 可显式覆盖）
const (
	defaultOpenAIModel = "gpt-4o"
	defaultClaudeModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	defaultGeminiModel = "gemini-2.0-flash"
)

// Config 单次调度用的 LLM 配置（派生值，不落库）
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Region   string
}

// SecretResolver 进程配置中的密钥查询能力（缺失是正常结果，不是异常）
type SecretResolver interface {
	Resolve(name string) (string, bool)
}

// EnvResolver 基于环境变量的默认实现
type EnvResolver struct{}

func (EnvResolver) Resolve(name string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(strings.TrimSpace(name)))
	if v == "" {
		return "", false
	}
	return v, true
}

// BuildConfig 从 Agent 记录构造调度配置
//
// 失败收敛：密钥无法解析时返回 nil，调用方必须视同调度失败处理，
// 绝不在无密钥的情况下发起网络调用。
// 未知 provider 会原样传递，由 Dispatcher 返回结构化错误（不触网）。
func BuildConfig(ag *entity.Agent, conf appconfig.LLMConfig, resolver SecretResolver) *Config {
	if ag == nil || resolver == nil {
		return nil
	}

	provider := strings.ToLower(strings.TrimSpace(ag.LLMProvider))
	if provider == "" {
		return nil
	}

	var pc appconfig.ProviderConfig
	var keyEnv, model string

	switch provider {
	case entity.ProviderOpenAI:
		pc = conf.OpenAI
		keyEnv = defaultOpenAIKeyEnv
		model = defaultOpenAIModel
	case entity.ProviderClaude:
		pc = conf.Claude
		keyEnv = defaultClaudeKeyEnv
		model = defaultClaudeModel
	case entity.ProviderGemini:
		pc = conf.Gemini
		keyEnv = defaultGeminiKeyEnv
		model = defaultGeminiModel
	default:
		// 未知 provider：不做密钥解析，由 Dispatch 产出结构化错误
		return &Config{Provider: provider}
	}

	if strings.TrimSpace(pc.APIKeyEnv) != "" {
		keyEnv = strings.TrimSpace(pc.APIKeyEnv)
	}
	if strings.TrimSpace(ag.APIKeyRef) != "" {
		keyEnv = strings.TrimSpace(ag.APIKeyRef)
	}

	apiKey, ok := resolver.Resolve(keyEnv)
	if !ok {
		return nil
	}

	if strings.TrimSpace(pc.DefaultModel) != "" {
		model = strings.TrimSpace(pc.DefaultModel)
	}
	if strings.TrimSpace(ag.LLMModel) != "" {
		model = strings.TrimSpace(ag.LLMModel)
	}

	return &Config{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
		BaseURL:  strings.TrimSpace(pc.BaseURL),
		Region:   strings.TrimSpace(pc.Region),
	}
}
