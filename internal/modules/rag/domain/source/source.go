package source

import (
	"context"
	"time"
)

// 内容源封闭枚举。EnumOrder 是聚合与排序的确定性依据：
// 三路并发各自写回固定槽位，同分结果按此顺序稳定排列。
const (
	SourceDocs     = "docs"
	SourceWiki     = "wiki"
	SourceInternal = "internal"
)

// EnumOrder 源的固定枚举顺序
var EnumOrder = []string{SourceDocs, SourceWiki, SourceInternal}

// Item 单个源返回的条目（未打分）
type Item struct {
	Id           string
	Title        string
	Content      string
	URL          string
	LastModified *time.Time
}

// Source 内容源接口。凭证缺失的源返回空结果而非错误，属正常情况。
type Source interface {
	// Name 返回源的枚举名
	Name() string

	// Search 自由文本查询；空查询返回全部条目（list-all 路径）
	Search(ctx context.Context, companyId, query string) ([]Item, error)
}
