package entity

import (
	"time"
)

const (
	AgentStatusActive   int8 = 1 // Agent启用
	AgentStatusInactive int8 = 0 // Agent停用
)

// LLM 后端封闭枚举（新增后端必须同时扩展 llm.Dispatcher 的分支）
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderGemini = "gemini"
)

// RoleChief 保留角色：命中后走委派流程而非直接调度
const RoleChief = "chief"

// Agent Agent配置表（按公司隔离，role 在公司内唯一）
type Agent struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	AgentId      string    `gorm:"column:agent_id;type:char(20);uniqueIndex;not null"`          // Agent唯一ID
	CompanyId    string    `gorm:"column:company_id;type:char(20);not null;uniqueIndex:uniq_agent_role"` // 所属公司
	Role         string    `gorm:"column:role;type:varchar(40);not null;uniqueIndex:uniq_agent_role"`    // 角色查找键（小写）
	Name         string    `gorm:"column:name;type:varchar(64);not null"`                       // 展示名称
	Description  string    `gorm:"column:description;type:varchar(255)"`                        // 描述
	SystemPrompt string    `gorm:"column:system_prompt;type:mediumtext"`                        // 系统Prompt
	LLMProvider  string    `gorm:"column:llm_provider;type:varchar(20)"`                        // openai/claude/gemini，空=未配置
	LLMModel     string    `gorm:"column:llm_model;type:varchar(64)"`                           // 显式模型名，空=取默认
	APIKeyRef    string    `gorm:"column:api_key_ref;type:varchar(64)"`                         // 密钥环境变量名引用
	Status       int8      `gorm:"column:status;type:tinyint;not null;default:1"`               // 1=active, 0=inactive
	CreatedAt    time.Time `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:datetime;not null"`
}

func (Agent) TableName() string {
	return "agent"
}

// AgentLog 交互日志表（append-only，调度后无条件写入，成败均记）
type AgentLog struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	LogId     string    `gorm:"column:log_id;type:char(20);uniqueIndex;not null"`
	AgentId   string    `gorm:"column:agent_id;type:char(20);not null;index:idx_agent_log_agent"`
	Input     string    `gorm:"column:input;type:mediumtext"`
	Output    string    `gorm:"column:output;type:mediumtext"`
	Error     string    `gorm:"column:error;type:varchar(512)"`
	CreatedAt time.Time `gorm:"column:created_at;type:datetime;not null"`
}

func (AgentLog) TableName() string {
	return "agent_log"
}
