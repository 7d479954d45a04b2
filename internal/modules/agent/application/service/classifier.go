package service

import (
	"strings"
)

// DelegationClassifier 从 Chief 的分析文本中判定需要委派的专家角色
//
// 隔离成接口是为了后续能换成 embedding 相似度或结构化输出路由，
// 而不动编排层的控制流。
type DelegationClassifier interface {
	Classify(analysis string) []string
}

// 委派意图触发词（固定词表，全文粗匹配，不做邻近判断）
var delegationTriggers = []string{
	"delegate to",
	"ask the",
	"consult with",
	"hand off to",
	"bring in",
}

// 专家角色枚举（固定顺序，选中顺序以此为准，与文本出现顺序无关）
var specialistRoles = []string{
	"sales",
	"marketing",
	"technical",
	"finance",
	"support",
}

// KeywordClassifier 固定词表匹配实现
//
// 选中条件：角色名出现在文本中，且任一触发词也出现在文本中任意位置。
// 结果按 specialistRoles 的枚举顺序去重输出。
type KeywordClassifier struct{}

func NewKeywordClassifier() DelegationClassifier {
	return KeywordClassifier{}
}

func (KeywordClassifier) Classify(analysis string) []string {
	text := strings.ToLower(analysis)

	hasTrigger := false
	for _, trigger := range delegationTriggers {
		if strings.Contains(text, trigger) {
			hasTrigger = true
			break
		}
	}
	if !hasTrigger {
		return nil
	}

	var selected []string
	for _, role := range specialistRoles {
		if strings.Contains(text, role) {
			selected = append(selected, role)
		}
	}
	return selected
}
