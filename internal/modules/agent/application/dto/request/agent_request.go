package request

type CreateAgentRequest struct {
	Name         string `json:"name" binding:"required"`
	Role         string `json:"role" binding:"required"`
	Description  string `json:"description"`
	SystemPrompt string `json:"system_prompt"`
	LLMProvider  string `json:"llm_provider" binding:"omitempty,oneof=openai claude gemini"`
	LLMModel     string `json:"llm_model"`
	APIKeyRef    string `json:"api_key_ref"`
}

type UpdateAgentRequest struct {
	AgentId      string  `json:"agent_id" binding:"required"`
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	SystemPrompt *string `json:"system_prompt"`
	LLMProvider  *string `json:"llm_provider"`
	LLMModel     *string `json:"llm_model"`
	APIKeyRef    *string `json:"api_key_ref"`
	Status       *int8   `json:"status"`
}

type RouteTaskRequest struct {
	Role string `json:"role" binding:"required"`
	Task string `json:"task" binding:"required"`
}

type GetAgentListRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type GetAgentLogsRequest struct {
	AgentId string `json:"agent_id" binding:"required"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}
