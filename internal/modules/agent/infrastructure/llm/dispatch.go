package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

// 固定采样参数：本层不支持按调用调整
const (
	fixedTemperature float32 = 0.7
	fixedMaxTokens           = 2048
)

const defaultDispatchTimeout = 60 * time.Second

// Reply LLM 调度的归一化结果：三个后端统一成一种形状
type Reply struct {
	Content string
	Err     error
}

// Dispatcher LLM 调度接口（service 层依赖它，测试用假实现替换）
type Dispatcher interface {
	Dispatch(ctx context.Context, cfg *Config, systemPrompt, userTask string) Reply
}

// providerCaller 单个后端的调用函数，返回可提取的文本
type providerCaller func(ctx context.Context, cfg *Config, systemPrompt, userTask string) (string, error)

type dispatcher struct {
	timeout time.Duration

	// 按 provider 注入，测试可替换
	openai providerCaller
	claude providerCaller
	gemini providerCaller
}

// NewDispatcher 创建默认调度器（真实后端）
func NewDispatcher(timeoutSeconds int) Dispatcher {
	timeout := defaultDispatchTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &dispatcher{
		timeout: timeout,
		openai:  callOpenAI,
		claude:  callClaude,
		gemini:  callGemini,
	}
}

// Dispatch 发送一次非流式请求并归一化结果
//
// 任何 SDK/传输层异常都在这里转换为 Reply.Err，不允许逃逸。
// 超时按普通调度错误处理，错误形状与其它失败一致。
func (d *dispatcher) Dispatch(ctx context.Context, cfg *Config, systemPrompt, userTask string) (reply Reply) {
	if cfg == nil {
		return Reply{Err: fmt.Errorf("llm config is nil")}
	}

	var call providerCaller
	switch strings.ToLower(cfg.Provider) {
	case entity.ProviderOpenAI:
		call = d.openai
	case entity.ProviderClaude:
		call = d.claude
	case entity.ProviderGemini:
		call = d.gemini
	default:
		return Reply{Err: fmt.Errorf("unsupported llm provider: %s", cfg.Provider)}
	}

	defer func() {
		if r := recover(); r != nil {
			zlog.Error("llm dispatch panic", zap.Any("panic", r), zap.String("provider", cfg.Provider))
			reply = Reply{Err: fmt.Errorf("llm dispatch panic: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	content, err := call(ctx, cfg, systemPrompt, userTask)
	if err != nil {
		return Reply{Err: err}
	}
	if strings.TrimSpace(content) == "" {
		return Reply{Err: fmt.Errorf("No response from %s", cfg.Provider)}
	}
	return Reply{Content: content}
}
