package http

import (
	"strings"

	ragRequest "OpsLink/internal/modules/rag/application/dto/request"
	"OpsLink/internal/modules/rag/application/service"
	"OpsLink/pkg/back"
	"OpsLink/pkg/xerr"
	"OpsLink/pkg/zlog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler RAG 聚合检索与文档维护的HTTP Handler
type SearchHandler struct {
	searchSvc service.SearchService
	docSvc    service.DocumentService
}

func NewSearchHandler(searchSvc service.SearchService, docSvc service.DocumentService) *SearchHandler {
	return &SearchHandler{searchSvc: searchSvc, docSvc: docSvc}
}

// Search 聚合检索
//
// 路由: POST /rag/search
// 响应体始终是 SearchRespond，失败也在 body 里表达
func (h *SearchHandler) Search(c *gin.Context) {
	var req ragRequest.SearchRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error("rag search bind error", zap.Error(err))
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	result := h.searchSvc.Search(c.Request.Context(), companyId, req.Query, req.AgentRole)
	back.Success(c, result)
}

type createDocumentRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// CreateDocument 写入内部文档库
//
// 路由: POST /rag/createDocument
func (h *SearchHandler) CreateDocument(c *gin.Context) {
	var req createDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	doc, err := h.docSvc.CreateDocument(c.Request.Context(), companyId, req.Title, req.Content, req.URL)
	back.Result(c, doc, err)
}

type listDocumentRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// GetDocumentList 文档列表
//
// 路由: POST /rag/getDocumentList
func (h *SearchHandler) GetDocumentList(c *gin.Context) {
	var req listDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	docs, err := h.docSvc.GetDocumentList(c.Request.Context(), companyId, req.Limit, req.Offset)
	back.Result(c, docs, err)
}

type deleteDocumentRequest struct {
	DocId string `json:"doc_id" binding:"required"`
}

// DeleteDocument 删除文档（软删）
//
// 路由: POST /rag/deleteDocument
func (h *SearchHandler) DeleteDocument(c *gin.Context) {
	var req deleteDocumentRequest
	if err := c.BindJSON(&req); err != nil {
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	companyId := strings.TrimSpace(c.GetString("company_id"))
	if companyId == "" {
		back.Error(c, xerr.Unauthorized, "未登录")
		return
	}

	err := h.docSvc.DeleteDocument(c.Request.Context(), req.DocId, companyId)
	back.Result(c, nil, err)
}
