package llm

import (
	"testing"

	appconfig "OpsLink/internal/config"
	"OpsLink/internal/modules/agent/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func TestBuildConfigMissingKeyReturnsNil(t *testing.T) {
	ag := &entity.Agent{Name: "Sales", Role: "sales", LLMProvider: entity.ProviderOpenAI}

	cfg := BuildConfig(ag, appconfig.LLMConfig{}, mapResolver{})

	assert.Nil(t, cfg)
}

func TestBuildConfigDefaults(t *testing.T) {
	ag := &entity.Agent{Name: "Sales", Role: "sales", LLMProvider: entity.ProviderOpenAI}

	cfg := BuildConfig(ag, appconfig.LLMConfig{}, mapResolver{"OPENAI_API_KEY": "sk-1"})

	require.NotNil(t, cfg)
	assert.Equal(t, entity.ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-1", cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
}

func TestBuildConfigAgentOverridesWin(t *testing.T) {
	ag := &entity.Agent{
		Name:        "Sales",
		Role:        "sales",
		LLMProvider: "OpenAI", // 大小写不敏感
		LLMModel:    "gpt-4o-mini",
		APIKeyRef:   "SALES_OPENAI_KEY",
	}
	conf := appconfig.LLMConfig{
		OpenAI: appconfig.ProviderConfig{APIKeyEnv: "TENANT_OPENAI_KEY", DefaultModel: "gpt-4.1"},
	}

	cfg := BuildConfig(ag, conf, mapResolver{
		"TENANT_OPENAI_KEY": "tenant-key",
		"SALES_OPENAI_KEY":  "agent-key",
	})

	require.NotNil(t, cfg)
	// Agent 级 api_key_ref 覆盖配置文件的 apiKeyEnv
	assert.Equal(t, "agent-key", cfg.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
}

func TestBuildConfigProviderConfigFallback(t *testing.T) {
	ag := &entity.Agent{Name: "Ops", Role: "ops", LLMProvider: entity.ProviderClaude}
	conf := appconfig.LLMConfig{
		Claude: appconfig.ProviderConfig{DefaultModel: "anthropic.claude-3-haiku", Region: "eu-west-1"},
	}

	cfg := BuildConfig(ag, conf, mapResolver{"AWS_BEARER_TOKEN_BEDROCK": "br-1"})

	require.NotNil(t, cfg)
	assert.Equal(t, "anthropic.claude-3-haiku", cfg.Model)
	assert.Equal(t, "eu-west-1", cfg.Region)
}

func TestBuildConfigUnknownProviderPassesThrough(t *testing.T) {
	ag := &entity.Agent{Name: "X", Role: "x", LLMProvider: "llama"}

	// 未知 provider 不解析密钥，原样传给 Dispatcher 产出结构化错误
	cfg := BuildConfig(ag, appconfig.LLMConfig{}, mapResolver{})

	require.NotNil(t, cfg)
	assert.Equal(t, "llama", cfg.Provider)
	assert.Empty(t, cfg.APIKey)
}

func TestBuildConfigEmptyProvider(t *testing.T) {
	ag := &entity.Agent{Name: "X", Role: "x"}

	assert.Nil(t, BuildConfig(ag, appconfig.LLMConfig{}, mapResolver{"OPENAI_API_KEY": "k"}))
	assert.Nil(t, BuildConfig(nil, appconfig.LLMConfig{}, mapResolver{}))
}
