package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"OpsLink/internal/config"
	agentEntity "OpsLink/internal/modules/agent/domain/entity"
	agentRepository "OpsLink/internal/modules/agent/domain/repository"
	"OpsLink/internal/modules/agent/infrastructure/llm"
	ragService "OpsLink/internal/modules/rag/application/service"
	"OpsLink/internal/modules/sop/domain/entity"
	"OpsLink/internal/modules/sop/domain/repository"
	"OpsLink/pkg/util"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"go.uber.org/zap"
)

// 生成SOP时最多附带的检索上下文条数
const sopContextTopN = 3

// versionIncrement SOP版本号步进
const versionIncrement = 0.1

// 按受众定制的写作指引
var audienceGuidance = map[string]string{
	entity.AudienceEmployee: "Write for internal employees. Use direct, actionable language and reference internal roles and tools where appropriate.",
	entity.AudienceClient:   "Write for external clients. Use polite, professional language, avoid internal jargon, and explain context where needed.",
	entity.AudienceAgent:    "Write for AI agents. Use unambiguous, step-by-step instructions with explicit inputs and outputs for each step.",
}

type SOPService interface {
	GenerateSOP(ctx context.Context, companyId, userId, title, topic, audience, agentRole string, includeContext bool) (*entity.SOPDocument, error)
	PublishSOP(ctx context.Context, docId, companyId, publisherId string) (*entity.SOPDocument, error)
	CreateSOPVersion(ctx context.Context, docId, companyId, callerId, newContent string) (*entity.SOPDocument, error)
	GetSOP(ctx context.Context, docId, companyId string) (*entity.SOPDocument, error)
	GetSOPList(ctx context.Context, companyId string, limit, offset int) ([]*entity.SOPDocument, error)
	DeleteSOP(ctx context.Context, docId, companyId, callerId string, isAdmin bool) error
}

type sopServiceImpl struct {
	sopRepo    repository.SOPRepository
	agentRepo  agentRepository.AgentRepository
	searchSvc  ragService.SearchService
	dispatcher llm.Dispatcher
	llmConf    config.LLMConfig
	resolver   llm.SecretResolver
	ragConf    config.RagConfig
}

func NewSOPService(
	sopRepo repository.SOPRepository,
	agentRepo agentRepository.AgentRepository,
	searchSvc ragService.SearchService,
	dispatcher llm.Dispatcher,
	llmConf config.LLMConfig,
	resolver llm.SecretResolver,
	ragConf config.RagConfig,
) SOPService {
	if resolver == nil {
		resolver = llm.EnvResolver{}
	}
	return &sopServiceImpl{
		sopRepo:    sopRepo,
		agentRepo:  agentRepo,
		searchSvc:  searchSvc,
		dispatcher: dispatcher,
		llmConf:    llmConf,
		resolver:   resolver,
		ragConf:    ragConf,
	}
}

// GenerateSOP 生成一份SOP草稿
//
// 组装分节提示词后仅调用一次LLM，不重试、不校验生成的markdown结构
func (s *sopServiceImpl) GenerateSOP(ctx context.Context, companyId, userId, title, topic, audience, agentRole string, includeContext bool) (*entity.SOPDocument, error) {
	title = strings.TrimSpace(title)
	topic = strings.TrimSpace(topic)
	audience = strings.ToLower(strings.TrimSpace(audience))
	if title == "" || topic == "" {
		return nil, xerr.ErrParam
	}
	if _, ok := audienceGuidance[audience]; !ok {
		return nil, xerr.New(xerr.BadRequest, "不支持的受众类型")
	}

	if agentRole == "" {
		agentRole = s.ragConf.DefaultAgentRole
	}
	ag, err := s.agentRepo.GetAgentByRole(ctx, companyId, agentRole)
	if err != nil {
		zlog.Error("sop generate agent lookup error", zap.String("role", agentRole), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if ag == nil || ag.LLMProvider == "" {
		return nil, xerr.New(xerr.BadRequest, "未找到可用的生成Agent")
	}
	cfg := llm.BuildConfig(ag, s.llmConf, s.resolver)
	if cfg == nil {
		return nil, xerr.New(xerr.BadRequest, "生成Agent缺少LLM凭证")
	}

	prompt := s.buildPrompt(ctx, companyId, title, topic, audience, includeContext)
	reply := s.dispatcher.Dispatch(ctx, cfg, sopSystemPrompt(ag), prompt)
	if reply.Err != nil {
		zlog.Error("sop generate dispatch error", zap.String("topic", topic), zap.Error(reply.Err))
		return nil, xerr.New(xerr.InternalServerError, "SOP生成失败")
	}

	doc := &entity.SOPDocument{
		DocId:     util.GenerateID("S"),
		CompanyId: companyId,
		Title:     title,
		Version:   "1.0",
		Content:   reply.Content,
		Audience:  audience,
		Topic:     topic,
		Status:    entity.SOPStatusDraft,
		CreatedBy: userId,
	}
	if err := s.sopRepo.CreateSOP(ctx, doc); err != nil {
		zlog.Error("sop create error", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return doc, nil
}

func sopSystemPrompt(ag *agentEntity.Agent) string {
	if strings.TrimSpace(ag.SystemPrompt) != "" {
		return ag.SystemPrompt
	}
	return "You are a standard operating procedure writer. Produce clear, well-structured markdown documents."
}

// buildPrompt 组装分节提示词，按需附带检索上下文
func (s *sopServiceImpl) buildPrompt(ctx context.Context, companyId, title, topic, audience string, includeContext bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a Standard Operating Procedure titled \"%s\" covering the topic: %s.\n\n", title, topic)
	b.WriteString("The document must contain the following sections, in order:\n")
	b.WriteString("1. Purpose\n")
	b.WriteString("2. Scope\n")
	b.WriteString("3. Responsibilities\n")
	b.WriteString("4. Procedure (numbered steps)\n")
	b.WriteString("5. References\n")
	b.WriteString("6. Revision History\n")
	b.WriteString("7. Approval\n\n")
	fmt.Fprintf(&b, "Audience guidance: %s\n", audienceGuidance[audience])

	if includeContext && s.searchSvc != nil {
		out := s.searchSvc.Search(ctx, companyId, topic, "")
		if out.Success && len(out.Results) > 0 {
			b.WriteString("\nRelevant context from company knowledge sources:\n")
			top := out.Results
			if len(top) > sopContextTopN {
				top = top[:sopContextTopN]
			}
			for _, r := range top {
				fmt.Fprintf(&b, "- [%s] %s: %s\n", strings.ToUpper(r.Source), r.Title, r.Content)
			}
		}
	}
	return b.String()
}

// PublishSOP 发布SOP
//
// 当前仅实现 draft→published 的跳转，pending_approval/approved 状态保留但无流转
func (s *sopServiceImpl) PublishSOP(ctx context.Context, docId, companyId, publisherId string) (*entity.SOPDocument, error) {
	doc, err := s.sopRepo.GetSOPByID(ctx, docId, companyId)
	if err != nil {
		zlog.Error("sop publish lookup error", zap.String("doc_id", docId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if doc == nil {
		return nil, xerr.ErrNotFound
	}

	now := time.Now()
	err = s.sopRepo.UpdateSOP(ctx, docId, map[string]interface{}{
		"status":       entity.SOPStatusPublished,
		"approved_by":  publisherId,
		"published_at": now,
	})
	if err != nil {
		zlog.Error("sop publish update error", zap.String("doc_id", docId), zap.Error(err))
		return nil, xerr.ErrServerError
	}

	doc.Status = entity.SOPStatusPublished
	doc.ApprovedBy = publisherId
	doc.PublishedAt = &now
	return doc, nil
}

// CreateSOPVersion 基于已有SOP创建新版本
//
// 新版本是一条新记录：版本号+0.1，状态回到draft，保留topic/audience
func (s *sopServiceImpl) CreateSOPVersion(ctx context.Context, docId, companyId, callerId, newContent string) (*entity.SOPDocument, error) {
	old, err := s.sopRepo.GetSOPByID(ctx, docId, companyId)
	if err != nil {
		zlog.Error("sop version lookup error", zap.String("doc_id", docId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if old == nil {
		return nil, xerr.ErrNotFound
	}

	doc := &entity.SOPDocument{
		DocId:     util.GenerateID("S"),
		CompanyId: companyId,
		Title:     old.Title,
		Version:   NextVersion(old.Version),
		Content:   newContent,
		Audience:  old.Audience,
		Topic:     old.Topic,
		Status:    entity.SOPStatusDraft,
		CreatedBy: callerId,
	}
	if err := s.sopRepo.CreateSOP(ctx, doc); err != nil {
		zlog.Error("sop version create error", zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return doc, nil
}

// NextVersion 版本号步进，格式固定为一位小数
func NextVersion(version string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(version), 64)
	if err != nil {
		v = 1.0
	}
	return fmt.Sprintf("%.1f", v+versionIncrement)
}

func (s *sopServiceImpl) GetSOP(ctx context.Context, docId, companyId string) (*entity.SOPDocument, error) {
	doc, err := s.sopRepo.GetSOPByID(ctx, docId, companyId)
	if err != nil {
		zlog.Error("sop get error", zap.String("doc_id", docId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	if doc == nil {
		return nil, xerr.ErrNotFound
	}
	return doc, nil
}

func (s *sopServiceImpl) GetSOPList(ctx context.Context, companyId string, limit, offset int) ([]*entity.SOPDocument, error) {
	docs, err := s.sopRepo.ListSOPs(ctx, companyId, limit, offset)
	if err != nil {
		zlog.Error("sop list error", zap.String("company_id", companyId), zap.Error(err))
		return nil, xerr.ErrServerError
	}
	return docs, nil
}

// DeleteSOP 删除SOP，仅创建者或管理员可操作
func (s *sopServiceImpl) DeleteSOP(ctx context.Context, docId, companyId, callerId string, isAdmin bool) error {
	doc, err := s.sopRepo.GetSOPByID(ctx, docId, companyId)
	if err != nil {
		zlog.Error("sop delete lookup error", zap.String("doc_id", docId), zap.Error(err))
		return xerr.ErrServerError
	}
	if doc == nil {
		return xerr.ErrNotFound
	}
	if !isAdmin && doc.CreatedBy != callerId {
		return xerr.ErrForbidden
	}

	if err := s.sopRepo.DeleteSOP(ctx, docId); err != nil {
		zlog.Error("sop delete error", zap.String("doc_id", docId), zap.Error(err))
		return xerr.ErrServerError
	}
	return nil
}
