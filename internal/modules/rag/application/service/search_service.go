package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	appconfig "OpsLink/internal/config"
	agentEntity "OpsLink/internal/modules/agent/domain/entity"
	agentRepository "OpsLink/internal/modules/agent/domain/repository"
	"OpsLink/internal/modules/agent/infrastructure/llm"
	"OpsLink/internal/modules/rag/application/dto/respond"
	"OpsLink/internal/modules/rag/domain/source"
	"OpsLink/pkg/redis"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

const (
	summaryTopN  = 5
	emptySummary = "No matching documents were found across the connected sources."
)

// SearchService RAG 聚合检索服务
type SearchService interface {
	// Search 聚合检索：三路内容源并发查询，合并打分排序，可选 LLM 摘要
	Search(ctx context.Context, companyId, query, agentRole string) respond.SearchRespond
}

type searchServiceImpl struct {
	sources    []source.Source // 按 source.EnumOrder 排列
	agentRepo  agentRepository.AgentRepository
	dispatcher llm.Dispatcher
	llmConf    appconfig.LLMConfig
	resolver   llm.SecretResolver
	ragConf    appconfig.RagConfig
}

// NewSearchService 创建聚合检索服务。sources 的顺序即枚举顺序，
// 决定同分结果的稳定排序。
func NewSearchService(
	sources []source.Source,
	agentRepo agentRepository.AgentRepository,
	dispatcher llm.Dispatcher,
	llmConf appconfig.LLMConfig,
	resolver llm.SecretResolver,
	ragConf appconfig.RagConfig,
) SearchService {
	if resolver == nil {
		resolver = llm.EnvResolver{}
	}
	return &searchServiceImpl{
		sources:    sources,
		agentRepo:  agentRepo,
		dispatcher: dispatcher,
		llmConf:    llmConf,
		resolver:   resolver,
		ragConf:    ragConf,
	}
}

func (s *searchServiceImpl) Search(ctx context.Context, companyId, query, agentRole string) respond.SearchRespond {
	query = strings.TrimSpace(query)

	role := strings.TrimSpace(agentRole)
	if role == "" {
		role = s.ragConf.DefaultAgentRole
	}

	// 摘要用的Agent解析失败是整个检索的硬失败
	ag, err := s.agentRepo.GetAgentByRole(ctx, companyId, role)
	if err != nil {
		zlog.Error("rag agent lookup failed", zap.Error(err), zap.String("role", role))
		return respond.SearchRespond{Error: fmt.Sprintf("failed to look up agent for role '%s': %v", role, err)}
	}
	if ag == nil {
		return respond.SearchRespond{Error: fmt.Sprintf("No agent found for role '%s'", role)}
	}

	// 缓存命中直接返回（尽力而为，Redis 未连接时跳过）
	cacheKey := fmt.Sprintf("rag:search:%s:%s:%s", companyId, role, query)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		return cached
	}

	results := s.fanOut(ctx, companyId, query)

	if len(results) == 0 {
		out := respond.SearchRespond{
			Success: true,
			Results: []respond.SearchResult{},
			Summary: emptySummary,
		}
		s.cacheSet(ctx, cacheKey, out)
		return out
	}

	summary := s.summarize(ctx, ag, query, results)

	out := respond.SearchRespond{
		Success: true,
		Results: results,
		Summary: summary,
	}
	s.cacheSet(ctx, cacheKey, out)
	return out
}

// fanOut 三路并发查询，all-settled 合并：单源失败只吞掉并记日志，
// 该源贡献零结果。写回固定槽位保证合并顺序 = 枚举顺序，
// 稳定排序后同分结果因此有确定的先后。
func (s *searchServiceImpl) fanOut(ctx context.Context, companyId, query string) []respond.SearchResult {
	slots := make([][]source.Item, len(s.sources))

	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()
			items, err := src.Search(ctx, companyId, query)
			if err != nil {
				zlog.Error("rag source search failed", zap.Error(err), zap.String("source", src.Name()))
				return
			}
			slots[i] = items
		}(i, src)
	}
	wg.Wait()

	var merged []respond.SearchResult
	for i, items := range slots {
		name := s.sources[i].Name()
		for _, it := range items {
			merged = append(merged, respond.SearchResult{
				Id:             it.Id,
				Title:          it.Title,
				Content:        it.Content,
				Source:         name,
				URL:            it.URL,
				LastModified:   it.LastModified,
				RelevanceScore: ScoreRelevance(query, it.Content),
			})
		}
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].RelevanceScore > merged[b].RelevanceScore
	})
	return merged
}

// ScoreRelevance 朴素包含率打分：查询按空白切词后小写，
// 统计在小写内容中以子串形式出现的词数，除以总词数。
// 空查询是 list-all 透传路径，按 1 计，避免除零。
func ScoreRelevance(query, content string) float64 {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return 1
	}

	haystack := strings.ToLower(content)
	matched := 0
	for _, w := range words {
		if strings.Contains(haystack, w) {
			matched++
		}
	}
	return float64(matched) / float64(len(words))
}

// summarize 可选 LLM 摘要：取前 5 条拼上下文，一次调度。
// 调度失败在这里吞掉（摘要留空），不影响检索成功。
func (s *searchServiceImpl) summarize(ctx context.Context, ag *agentEntity.Agent, query string, results []respond.SearchResult) string {
	if strings.TrimSpace(ag.LLMProvider) == "" {
		return ""
	}
	cfg := llm.BuildConfig(ag, s.llmConf, s.resolver)
	if cfg == nil {
		return ""
	}

	top := results
	if len(top) > summaryTopN {
		top = top[:summaryTopN]
	}
	var b strings.Builder
	for _, r := range top {
		fmt.Fprintf(&b, "[%s] %s: %s\n", strings.ToUpper(r.Source), r.Title, r.Content)
	}

	systemPrompt := ag.SystemPrompt
	if strings.TrimSpace(systemPrompt) == "" {
		systemPrompt = "You summarize internal knowledge search results for business users."
	}
	task := fmt.Sprintf("Summarize the following search results for the query %q:\n\n%s", query, b.String())

	reply := s.dispatcher.Dispatch(ctx, cfg, systemPrompt, task)
	if reply.Err != nil {
		zlog.Warn("rag summary dispatch failed", zap.Error(reply.Err), zap.String("provider", cfg.Provider))
		return ""
	}
	return reply.Content
}

func (s *searchServiceImpl) cacheTTL() time.Duration {
	if s.ragConf.CacheTTLSeconds > 0 {
		return time.Duration(s.ragConf.CacheTTLSeconds) * time.Second
	}
	return 60 * time.Second
}

func (s *searchServiceImpl) cacheGet(ctx context.Context, key string) (respond.SearchRespond, bool) {
	if !redis.IsConnected() {
		return respond.SearchRespond{}, false
	}
	raw, err := redis.Get(ctx, key)
	if err != nil || raw == "" {
		return respond.SearchRespond{}, false
	}
	var out respond.SearchRespond
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return respond.SearchRespond{}, false
	}
	return out, true
}

func (s *searchServiceImpl) cacheSet(ctx context.Context, key string, out respond.SearchRespond) {
	if !redis.IsConnected() {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := redis.Set(ctx, key, string(raw), s.cacheTTL()); err != nil {
		zlog.Warn("rag cache set failed", zap.Error(err))
	}
}
