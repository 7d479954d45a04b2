package respond

import "time"

// SearchResult 单条聚合检索结果（每次查询重算，不落库）
type SearchResult struct {
	Id             string     `json:"id"`
	Title          string     `json:"title"`
	Content        string     `json:"content"`
	Source         string     `json:"source"` // docs/wiki/internal
	URL            string     `json:"url,omitempty"`
	LastModified   *time.Time `json:"last_modified,omitempty"`
	RelevanceScore float64    `json:"relevance_score"` // [0,1]
}

// SearchRespond 聚合检索响应
type SearchRespond struct {
	Success bool           `json:"success"`
	Results []SearchResult `json:"results"`
	Summary string         `json:"summary,omitempty"`
	Error   string         `json:"error,omitempty"`
}
