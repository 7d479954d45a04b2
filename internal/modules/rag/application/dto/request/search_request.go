package request

type SearchRequest struct {
	Query     string `json:"query"`
	AgentRole string `json:"agent_role"`
}
