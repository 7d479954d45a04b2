package service

import (
	"context"
	"errors"
	"testing"

	appconfig "OpsLink/internal/config"
	agentEntity "OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/infrastructure/llm"
	"OpsLink/internal/modules/sop/domain/entity"
	"OpsLink/pkg/xerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSOPRepo struct {
	docs    map[string]*entity.SOPDocument
	created []*entity.SOPDocument
	updates map[string]map[string]interface{}
}

func newFakeSOPRepo() *fakeSOPRepo {
	return &fakeSOPRepo{
		docs:    map[string]*entity.SOPDocument{},
		updates: map[string]map[string]interface{}{},
	}
}

func (f *fakeSOPRepo) CreateSOP(ctx context.Context, doc *entity.SOPDocument) error {
	f.created = append(f.created, doc)
	f.docs[doc.DocId] = doc
	return nil
}

func (f *fakeSOPRepo) GetSOPByID(ctx context.Context, docId, companyId string) (*entity.SOPDocument, error) {
	doc := f.docs[docId]
	if doc == nil || doc.CompanyId != companyId {
		return nil, nil
	}
	return doc, nil
}

func (f *fakeSOPRepo) ListSOPs(ctx context.Context, companyId string, limit, offset int) ([]*entity.SOPDocument, error) {
	var out []*entity.SOPDocument
	for _, d := range f.docs {
		if d.CompanyId == companyId {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeSOPRepo) UpdateSOP(ctx context.Context, docId string, updates map[string]interface{}) error {
	f.updates[docId] = updates
	return nil
}

func (f *fakeSOPRepo) DeleteSOP(ctx context.Context, docId string) error {
	delete(f.docs, docId)
	return nil
}

type fakeAgentRepo struct {
	agent *agentEntity.Agent
}

func (f *fakeAgentRepo) CreateAgent(ctx context.Context, ag *agentEntity.Agent) error { return nil }

func (f *fakeAgentRepo) GetAgentByRole(ctx context.Context, companyId, role string) (*agentEntity.Agent, error) {
	return f.agent, nil
}

func (f *fakeAgentRepo) ListAgents(ctx context.Context, companyId string, limit, offset int) ([]*agentEntity.Agent, error) {
	return nil, nil
}

func (f *fakeAgentRepo) ListRoles(ctx context.Context, companyId string) ([]string, error) {
	return nil, nil
}

func (f *fakeAgentRepo) UpdateAgent(ctx context.Context, agentId, companyId string, updates map[string]interface{}) error {
	return nil
}

func (f *fakeAgentRepo) DisableAgent(ctx context.Context, agentId, companyId string) error {
	return nil
}

type fakeDispatcher struct {
	reply   llm.Reply
	prompts []string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, cfg *llm.Config, systemPrompt, userTask string) llm.Reply {
	f.prompts = append(f.prompts, userTask)
	return f.reply
}

type mapResolver map[string]string

func (m mapResolver) Resolve(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func writerAgent() *agentEntity.Agent {
	return &agentEntity.Agent{
		AgentId:     "Achief",
		Role:        "chief",
		Name:        "Chief",
		LLMProvider: agentEntity.ProviderOpenAI,
		Status:      agentEntity.AgentStatusActive,
	}
}

func newTestSOPService(repo *fakeSOPRepo, agentRepo *fakeAgentRepo, d llm.Dispatcher) SOPService {
	return NewSOPService(repo, agentRepo, nil, d, appconfig.LLMConfig{}, mapResolver{"OPENAI_API_KEY": "sk-1"},
		appconfig.RagConfig{DefaultAgentRole: "chief"})
}

func TestNextVersion(t *testing.T) {
	assert.Equal(t, "1.1", NextVersion("1.0"))
	assert.Equal(t, "1.2", NextVersion("1.1"))
	assert.Equal(t, "2.0", NextVersion("1.9"))
	assert.Equal(t, "3.1", NextVersion("3.0"))
	// 脏数据按 1.0 起步
	assert.Equal(t, "1.1", NextVersion("abc"))
	assert.Equal(t, "1.1", NextVersion(""))
}

func TestGenerateSOPCreatesDraft(t *testing.T) {
	repo := newFakeSOPRepo()
	d := &fakeDispatcher{reply: llm.Reply{Content: "# Onboarding SOP\n..."}}
	svc := newTestSOPService(repo, &fakeAgentRepo{agent: writerAgent()}, d)

	doc, err := svc.GenerateSOP(context.Background(), "T0001", "U0001", "Onboarding", "customer onboarding", entity.AudienceEmployee, "", false)

	require.NoError(t, err)
	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, entity.SOPStatusDraft, doc.Status)
	assert.Equal(t, "# Onboarding SOP\n...", doc.Content)
	assert.Equal(t, "U0001", doc.CreatedBy)
	require.Len(t, d.prompts, 1)
	// 分节提示词包含全部固定章节
	for _, section := range []string{"Purpose", "Scope", "Responsibilities", "Procedure", "References", "Revision History", "Approval"} {
		assert.Contains(t, d.prompts[0], section)
	}
}

func TestGenerateSOPRejectsUnknownAudience(t *testing.T) {
	svc := newTestSOPService(newFakeSOPRepo(), &fakeAgentRepo{agent: writerAgent()}, &fakeDispatcher{})

	_, err := svc.GenerateSOP(context.Background(), "T0001", "U0001", "T", "topic", "robots", "", false)

	require.Error(t, err)
}

func TestGenerateSOPDispatchFailure(t *testing.T) {
	d := &fakeDispatcher{reply: llm.Reply{Err: errors.New("timeout")}}
	repo := newFakeSOPRepo()
	svc := newTestSOPService(repo, &fakeAgentRepo{agent: writerAgent()}, d)

	_, err := svc.GenerateSOP(context.Background(), "T0001", "U0001", "T", "topic", entity.AudienceClient, "", false)

	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestPublishSOP(t *testing.T) {
	repo := newFakeSOPRepo()
	repo.docs["S0001"] = &entity.SOPDocument{DocId: "S0001", CompanyId: "T0001", Status: entity.SOPStatusDraft}
	svc := newTestSOPService(repo, &fakeAgentRepo{agent: writerAgent()}, &fakeDispatcher{})

	doc, err := svc.PublishSOP(context.Background(), "S0001", "T0001", "U0009")

	require.NoError(t, err)
	assert.Equal(t, entity.SOPStatusPublished, doc.Status)
	assert.Equal(t, "U0009", doc.ApprovedBy)
	require.NotNil(t, doc.PublishedAt)

	updates := repo.updates["S0001"]
	require.NotNil(t, updates)
	assert.Equal(t, entity.SOPStatusPublished, updates["status"])
}

func TestPublishSOPNotFound(t *testing.T) {
	svc := newTestSOPService(newFakeSOPRepo(), &fakeAgentRepo{agent: writerAgent()}, &fakeDispatcher{})

	_, err := svc.PublishSOP(context.Background(), "S-missing", "T0001", "U0001")

	assert.ErrorIs(t, err, xerr.ErrNotFound)
}

func TestCreateSOPVersionRoundTrip(t *testing.T) {
	repo := newFakeSOPRepo()
	repo.docs["S0001"] = &entity.SOPDocument{
		DocId:     "S0001",
		CompanyId: "T0001",
		Title:     "Onboarding",
		Version:   "1.0",
		Content:   "old content",
		Audience:  entity.AudienceEmployee,
		Topic:     "customer onboarding",
		Status:    entity.SOPStatusPublished,
		CreatedBy: "U0001",
	}
	svc := newTestSOPService(repo, &fakeAgentRepo{agent: writerAgent()}, &fakeDispatcher{})

	doc, err := svc.CreateSOPVersion(context.Background(), "S0001", "T0001", "U0002", "new content")

	require.NoError(t, err)
	assert.NotEqual(t, "S0001", doc.DocId)
	assert.Equal(t, "1.1", doc.Version)
	assert.Equal(t, entity.SOPStatusDraft, doc.Status)
	assert.Equal(t, "new content", doc.Content)
	assert.Equal(t, "customer onboarding", doc.Topic)
	assert.Equal(t, entity.AudienceEmployee, doc.Audience)
	assert.Equal(t, "U0002", doc.CreatedBy)
	// 原文档不被改动
	assert.Equal(t, "1.0", repo.docs["S0001"].Version)
}

func TestDeleteSOPPermission(t *testing.T) {
	repo := newFakeSOPRepo()
	repo.docs["S0001"] = &entity.SOPDocument{DocId: "S0001", CompanyId: "T0001", CreatedBy: "U0001"}
	svc := newTestSOPService(repo, &fakeAgentRepo{agent: writerAgent()}, &fakeDispatcher{})

	// 非创建者且非管理员
	err := svc.DeleteSOP(context.Background(), "S0001", "T0001", "U0002", false)
	assert.ErrorIs(t, err, xerr.ErrForbidden)

	// 管理员可删
	err = svc.DeleteSOP(context.Background(), "S0001", "T0001", "U0002", true)
	require.NoError(t, err)
	assert.Nil(t, repo.docs["S0001"])
}
