package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRequiresTrigger(t *testing.T) {
	c := NewKeywordClassifier()

	// 角色名出现但没有触发词
	assert.Empty(t, c.Classify("Our sales and marketing numbers look fine."))
	// 触发词出现但没有角色名
	assert.Empty(t, c.Classify("I'll delegate to the right people."))
	assert.Empty(t, c.Classify(""))
}

func TestClassifyEnumerationOrder(t *testing.T) {
	c := NewKeywordClassifier()

	// 文本出现顺序是 marketing → sales，输出仍按枚举顺序
	roles := c.Classify("Bring in the marketing team first, then ask the sales folks.")
	assert.Equal(t, []string{"sales", "marketing"}, roles)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewKeywordClassifier()

	roles := c.Classify("I'll DELEGATE TO the Technical and FINANCE departments.")
	assert.Equal(t, []string{"technical", "finance"}, roles)
}

func TestClassifyDeduplicates(t *testing.T) {
	c := NewKeywordClassifier()

	roles := c.Classify("Consult with support. Support should also consult with support again.")
	assert.Equal(t, []string{"support"}, roles)
}

func TestClassifyAllTriggers(t *testing.T) {
	c := NewKeywordClassifier()

	for _, text := range []string{
		"delegate to the sales team",
		"ask the sales team",
		"consult with the sales team",
		"hand off to the sales team",
		"bring in the sales team",
	} {
		assert.Equal(t, []string{"sales"}, c.Classify(text), text)
	}
}
