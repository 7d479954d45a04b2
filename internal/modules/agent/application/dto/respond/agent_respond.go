package respond

import "time"

// AgentItem Agent列表项
type AgentItem struct {
	AgentId     string    `json:"agent_id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Description string    `json:"description"`
	LLMProvider string    `json:"llm_provider"`
	LLMModel    string    `json:"llm_model"`
	Status      int8      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// AgentListRespond Agent列表响应
type AgentListRespond struct {
	Agents []AgentItem `json:"agents"`
	Total  int         `json:"total"`
}

// AgentRolesRespond 可用角色响应
type AgentRolesRespond struct {
	Roles []string `json:"roles"`
}

// AgentLogItem 交互日志项
type AgentLogItem struct {
	LogId     string    `json:"log_id"`
	AgentId   string    `json:"agent_id"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AgentLogListRespond 交互日志列表响应
type AgentLogListRespond struct {
	Logs []AgentLogItem `json:"logs"`
}
