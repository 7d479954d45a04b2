package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	appconfig "OpsLink/internal/config"
	agentEntity "OpsLink/internal/modules/agent/domain/entity"
	"OpsLink/internal/modules/agent/infrastructure/llm"
	"OpsLink/internal/modules/rag/domain/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	name  string
	items []source.Item
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(ctx context.Context, companyId, query string) ([]source.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeAgentRepo struct {
	agent *agentEntity.Agent
	err   error
}

func (f *fakeAgentRepo) CreateAgent(ctx context.Context, ag *agentEntity.Agent) error { return nil }

func (f *fakeAgentRepo) GetAgentByRole(ctx context.Context, companyId, role string) (*agentEntity.Agent, error) {
	return f.agent, f.err
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
	reply llm.Reply
	tasks []string
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, cfg *llm.Config, systemPrompt, userTask string) llm.Reply {
	f.tasks = append(f.tasks, userTask)
	return f.reply
}

type mapResolver map[string]string

func (m mapResolver) Resolve(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

func summarizerAgent() *agentEntity.Agent {
	return &agentEntity.Agent{
		AgentId:     "Achief",
		Role:        "chief",
		Name:        "Chief",
		LLMProvider: agentEntity.ProviderOpenAI,
		Status:      agentEntity.AgentStatusActive,
	}
}

func newTestSearch(sources []source.Source, repo *fakeAgentRepo, d llm.Dispatcher) SearchService {
	return NewSearchService(sources, repo, d, appconfig.LLMConfig{}, mapResolver{"OPENAI_API_KEY": "sk-1"},
		appconfig.RagConfig{DefaultAgentRole: "chief"})
}

func TestSearchPartialSourceFailure(t *testing.T) {
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs, items: []source.Item{{Id: "d1", Title: "Pricing", Content: "pricing policy"}}},
		&fakeSource{name: source.SourceWiki, err: errors.New("wiki unreachable")},
		&fakeSource{name: source.SourceInternal, items: []source.Item{{Id: "i1", Title: "Playbook", Content: "pricing playbook"}}},
	}
	d := &fakeDispatcher{reply: llm.Reply{Content: "summary text"}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: summarizerAgent()}, d)

	out := svc.Search(context.Background(), "T0001", "pricing", "")

	require.True(t, out.Success)
	require.Len(t, out.Results, 2)
	for _, r := range out.Results {
		assert.NotEqual(t, source.SourceWiki, r.Source)
	}
	assert.Equal(t, "summary text", out.Summary)
}

func TestSearchStableTieBreakBySourceOrder(t *testing.T) {
	// 所有条目同分（都完整命中），顺序应保持源枚举顺序
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs, items: []source.Item{{Id: "d1", Content: "budget"}}},
		&fakeSource{name: source.SourceWiki, items: []source.Item{{Id: "w1", Content: "budget"}}},
		&fakeSource{name: source.SourceInternal, items: []source.Item{{Id: "i1", Content: "budget"}}},
	}
	d := &fakeDispatcher{reply: llm.Reply{Content: "s"}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: summarizerAgent()}, d)

	out := svc.Search(context.Background(), "T0001", "budget", "")

	require.True(t, out.Success)
	require.Len(t, out.Results, 3)
	assert.Equal(t, "d1", out.Results[0].Id)
	assert.Equal(t, "w1", out.Results[1].Id)
	assert.Equal(t, "i1", out.Results[2].Id)
}

func TestSearchSortsDescending(t *testing.T) {
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs, items: []source.Item{
			{Id: "half", Content: "quarterly only"},
			{Id: "full", Content: "quarterly budget review"},
			{Id: "none", Content: "unrelated"},
		}},
	}
	d := &fakeDispatcher{reply: llm.Reply{Content: "s"}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: summarizerAgent()}, d)

	out := svc.Search(context.Background(), "T0001", "quarterly budget", "")

	require.True(t, out.Success)
	require.Len(t, out.Results, 3)
	assert.Equal(t, "full", out.Results[0].Id)
	assert.Equal(t, 1.0, out.Results[0].RelevanceScore)
	assert.Equal(t, "half", out.Results[1].Id)
	assert.Equal(t, 0.5, out.Results[1].RelevanceScore)
	assert.Equal(t, "none", out.Results[2].Id)
	assert.Equal(t, 0.0, out.Results[2].RelevanceScore)
}

func TestSearchEmptyResults(t *testing.T) {
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs},
	}
	d := &fakeDispatcher{reply: llm.Reply{Content: "s"}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: summarizerAgent()}, d)

	out := svc.Search(context.Background(), "T0001", "nothing here", "")

	require.True(t, out.Success)
	assert.Empty(t, out.Results)
	assert.Equal(t, "No matching documents were found across the connected sources.", out.Summary)
	// 空结果不做摘要调度
	assert.Empty(t, d.tasks)
}

func TestSearchAgentNotFound(t *testing.T) {
	svc := newTestSearch(nil, &fakeAgentRepo{}, &fakeDispatcher{})

	out := svc.Search(context.Background(), "T0001", "q", "")

	assert.False(t, out.Success)
	assert.Equal(t, "No agent found for role 'chief'", out.Error)
}

func TestSearchSummaryFailureSwallowed(t *testing.T) {
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs, items: []source.Item{{Id: "d1", Content: "policy"}}},
	}
	d := &fakeDispatcher{reply: llm.Reply{Err: errors.New("rate limited")}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: summarizerAgent()}, d)

	out := svc.Search(context.Background(), "T0001", "policy", "")

	require.True(t, out.Success)
	require.Len(t, out.Results, 1)
	assert.Empty(t, out.Summary)
}

func TestSearchNoProviderSkipsSummary(t *testing.T) {
	ag := summarizerAgent()
	ag.LLMProvider = ""
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs, items: []source.Item{{Id: "d1", Content: "policy"}}},
	}
	d := &fakeDispatcher{reply: llm.Reply{Content: "should not appear"}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: ag}, d)

	out := svc.Search(context.Background(), "T0001", "policy", "")

	require.True(t, out.Success)
	assert.Empty(t, out.Summary)
	assert.Empty(t, d.tasks)
}

func TestSearchSummaryUsesTopFive(t *testing.T) {
	items := make([]source.Item, 7)
	for i := range items {
		items[i] = source.Item{Id: string(rune('a' + i)), Title: "T" + string(rune('a'+i)), Content: "report"}
	}
	sources := []source.Source{
		&fakeSource{name: source.SourceDocs, items: items},
	}
	d := &fakeDispatcher{reply: llm.Reply{Content: "s"}}
	svc := newTestSearch(sources, &fakeAgentRepo{agent: summarizerAgent()}, d)

	out := svc.Search(context.Background(), "T0001", "report", "")

	require.True(t, out.Success)
	require.Len(t, d.tasks, 1)
	assert.Equal(t, 5, strings.Count(d.tasks[0], "[DOCS]"))
}

func TestScoreRelevance(t *testing.T) {
	assert.Equal(t, 1.0, ScoreRelevance("", "anything")) // list-all 透传
	assert.Equal(t, 1.0, ScoreRelevance("budget", "the annual BUDGET report"))
	assert.Equal(t, 0.0, ScoreRelevance("budget", "sales figures"))
	assert.Equal(t, 0.5, ScoreRelevance("annual budget", "budget only"))

	for _, content := range []string{"", "x", "annual budget review for the year"} {
		s := ScoreRelevance("annual budget review", content)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}
