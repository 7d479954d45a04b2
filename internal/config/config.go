package config

import (
	"log"
	"os"

	"github.com/BurntSushi/toml"
)

type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

type MysqlConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
}

type LogConfig struct {
	LogPath string `toml:"logPath"`
}

type JwtConfig struct {
	Key         string `toml:"key"`
	ExpireHours int    `toml:"expireHours"`
	Issuer      string `toml:"issuer"`
}

type RedisConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	Password     string `toml:"password"`
	DB           int    `toml:"db"`
	PoolSize     int    `toml:"poolSize"`
	MinIdleConns int    `toml:"minIdleConns"`
}

type KafkaConfig struct {
	Brokers          []string `toml:"brokers"`
	ClientID         string   `toml:"clientID"`
	InteractionTopic string   `toml:"interactionTopic"`
}

// ProviderConfig 单个 LLM 后端配置
// apiKeyEnv 是默认的密钥环境变量名，Agent 级的 api_key_ref 可覆盖
type ProviderConfig struct {
	APIKeyEnv    string `toml:"apiKeyEnv"`
	DefaultModel string `toml:"defaultModel"`
	BaseURL      string `toml:"baseURL"`
	Region       string `toml:"region"`
}

type LLMConfig struct {
	TimeoutSeconds int            `toml:"timeoutSeconds"`
	OpenAI         ProviderConfig `toml:"openai"`
	Claude         ProviderConfig `toml:"claude"`
	Gemini         ProviderConfig `toml:"gemini"`
}

// RagSourceConfig 外部内容源配置（凭证缺失=该源不贡献结果，属正常情况）
type RagSourceConfig struct {
	BaseURL     string `toml:"baseURL"`
	APIKeyEnv   string `toml:"apiKeyEnv"`
	TimeoutSecs int    `toml:"timeoutSeconds"`
}

type RagConfig struct {
	DefaultAgentRole string          `toml:"defaultAgentRole"`
	CacheTTLSeconds  int             `toml:"cacheTTLSeconds"`
	Docs             RagSourceConfig `toml:"docs"`
	Wiki             RagSourceConfig `toml:"wiki"`
}

type Config struct {
	MainConfig  `toml:"mainConfig"`
	MysqlConfig `toml:"mysqlConfig"`
	JwtConfig   `toml:"jwtConfig"`
	LogConfig   `toml:"logConfig"`
	RedisConfig `toml:"redisConfig"`
	KafkaConfig `toml:"kafkaConfig"`
	LLMConfig   `toml:"llmConfig"`
	RagConfig   `toml:"ragConfig"`
}

var config *Config

func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	configPath := os.Getenv("OPSLINK_CONFIG")
	if configPath == "" {
		configPath = "configs/config_local.toml"
	}
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		log.Printf("加载配置文件失败: %v, 尝试使用默认设置", err)
		return err
	}
	return nil
}

func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}
