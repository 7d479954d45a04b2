package service

import (
	"context"
	"encoding/json"
	"time"

	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/domain/repository"
	"OpsLink/internal/modules/agent/infrastructure/mq"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

// InteractionLogger 交互日志（编排层视角是 fire-and-forget：
// 写日志失败绝不使路由调用失败）
type InteractionLogger interface {
	Record(ctx context.Context, agentId, input, output string, dispatchErr error)
}

// InteractionEvent Kafka 扇出的事件载荷
type InteractionEvent struct {
	AgentId   string    `json:"agent_id"`
	Input     string    `json:"input"`
	Output    string    `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type interactionLoggerImpl struct {
	logRepo   repository.AgentLogRepository
	publisher mq.Publisher // 可为 nil（Kafka 未配置）
	topic     string
}

// NewInteractionLogger 创建交互日志服务；publisher 可为 nil
func NewInteractionLogger(logRepo repository.AgentLogRepository, publisher mq.Publisher, topic string) InteractionLogger {
	return &interactionLoggerImpl{
		logRepo:   logRepo,
		publisher: publisher,
		topic:     topic,
	}
}

func (l *interactionLoggerImpl) Record(ctx context.Context, agentId, input, output string, dispatchErr error) {
	errMsg := ""
	if dispatchErr != nil {
		errMsg = dispatchErr.Error()
	}

	lg := &entity.AgentLog{
		AgentId:   agentId,
		Input:     input,
		Output:    output,
		Error:     errMsg,
		CreatedAt: time.Now(),
	}
	if err := l.logRepo.Append(ctx, lg); err != nil {
		zlog.Error("agent log append failed", zap.Error(err), zap.String("agent_id", agentId))
	}

	if l.publisher == nil || l.topic == "" {
		return
	}

	payload, err := json.Marshal(InteractionEvent{
		AgentId:   agentId,
		Input:     input,
		Output:    output,
		Error:     errMsg,
		Timestamp: lg.CreatedAt,
	})
	if err != nil {
		zlog.Error("interaction event marshal failed", zap.Error(err))
		return
	}
	if _, err := l.publisher.Publish(ctx, mq.Message{
		Topic: l.topic,
		Key:   []byte(agentId),
		Value: payload,
	}); err != nil {
		zlog.Error("interaction event publish failed", zap.Error(err), zap.String("agent_id", agentId))
	}
}
