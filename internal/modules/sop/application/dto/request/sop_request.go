package request

// GenerateSOPRequest 生成SOP草稿
type GenerateSOPRequest struct {
	Title          string `json:"title" binding:"required"`
	Topic          string `json:"topic" binding:"required"`
	Audience       string `json:"audience" binding:"required"`
	AgentRole      string `json:"agent_role"`
	IncludeContext bool   `json:"include_context"`
}

// PublishSOPRequest 发布SOP
type PublishSOPRequest struct {
	DocId string `json:"doc_id" binding:"required"`
}

// CreateSOPVersionRequest 创建新版本
type CreateSOPVersionRequest struct {
	DocId   string `json:"doc_id" binding:"required"`
	Content string `json:"content" binding:"required"`
}

// GetSOPRequest 获取单份SOP
type GetSOPRequest struct {
	DocId string `json:"doc_id" binding:"required"`
}

// GetSOPListRequest SOP列表
type GetSOPListRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DeleteSOPRequest 删除SOP
type DeleteSOPRequest struct {
	DocId string `json:"doc_id" binding:"required"`
}
