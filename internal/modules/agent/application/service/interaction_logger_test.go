package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/infrastructure/mq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLogRepo struct {
	logs      []*entity.AgentLog
	appendErr error
}

func (f *fakeLogRepo) Append(ctx context.Context, lg *entity.AgentLog) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.logs = append(f.logs, lg)
	return nil
}

func (f *fakeLogRepo) ListByAgent(ctx context.Context, agentId string, limit, offset int) ([]*entity.AgentLog, error) {
	return f.logs, nil
}

type fakePublisher struct {
	published  []mq.Message
	publishErr error
}

func (f *fakePublisher) Publish(ctx context.Context, msg mq.Message) (mq.PublishResult, error) {
	if f.publishErr != nil {
		return mq.PublishResult{}, f.publishErr
	}
	f.published = append(f.published, msg)
	return mq.PublishResult{Partition: 0, Offset: int64(len(f.published))}, nil
}

func (f *fakePublisher) Close() error { return nil }

func TestRecordPersistsLog(t *testing.T) {
	repo := &fakeLogRepo{}
	logger := NewInteractionLogger(repo, nil, "")

	logger.Record(context.Background(), "A0001", "task in", "answer out", nil)

	require.Len(t, repo.logs, 1)
	assert.Equal(t, "A0001", repo.logs[0].AgentId)
	assert.Equal(t, "task in", repo.logs[0].Input)
	assert.Equal(t, "answer out", repo.logs[0].Output)
	assert.Empty(t, repo.logs[0].Error)
}

func TestRecordCapturesDispatchError(t *testing.T) {
	repo := &fakeLogRepo{}
	logger := NewInteractionLogger(repo, nil, "")

	logger.Record(context.Background(), "A0001", "task in", "", errors.New("provider timeout"))

	require.Len(t, repo.logs, 1)
	assert.Equal(t, "provider timeout", repo.logs[0].Error)
	assert.Empty(t, repo.logs[0].Output)
}

func TestRecordPublishesEvent(t *testing.T) {
	repo := &fakeLogRepo{}
	pub := &fakePublisher{}
	logger := NewInteractionLogger(repo, pub, "agent.interactions")

	logger.Record(context.Background(), "A0001", "task in", "answer out", nil)

	require.Len(t, pub.published, 1)
	assert.Equal(t, "agent.interactions", pub.published[0].Topic)
	assert.Equal(t, []byte("A0001"), pub.published[0].Key)

	var ev InteractionEvent
	require.NoError(t, json.Unmarshal(pub.published[0].Value, &ev))
	assert.Equal(t, "A0001", ev.AgentId)
	assert.Equal(t, "answer out", ev.Output)
	assert.Empty(t, ev.Error)
}

func TestRecordToleratesPublishFailure(t *testing.T) {
	repo := &fakeLogRepo{}
	pub := &fakePublisher{publishErr: errors.New("broker down")}
	logger := NewInteractionLogger(repo, pub, "agent.interactions")

	// 发布失败只记日志，持久化照常
	logger.Record(context.Background(), "A0001", "task in", "answer out", nil)

	require.Len(t, repo.logs, 1)
	assert.Empty(t, pub.published)
}

func TestRecordToleratesAppendFailure(t *testing.T) {
	repo := &fakeLogRepo{appendErr: errors.New("db down")}
	pub := &fakePublisher{}
	logger := NewInteractionLogger(repo, pub, "agent.interactions")

	logger.Record(context.Background(), "A0001", "task in", "answer out", nil)

	// 落库失败不阻断事件扇出
	assert.Len(t, pub.published, 1)
}
