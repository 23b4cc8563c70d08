package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig 定义了 HTTP 服务器的配置。
type ServerConfig struct {
	Address string `yaml:"address"` // 监听地址 (例如: ":8080")
}

// LoggerConfig 定义了日志系统的配置。
type LoggerConfig struct {
	Level string `yaml:"level"` // 日志级别 (例如: "info", "debug")
}

// AuthConfig 用于配置认证方法和相关设置。
type AuthConfig struct {
	JwtSecret string `yaml:"jwtSecret"` // JWT 密钥
	TokenTTL  int    `yaml:"tokenTTL"`  // JWT 令牌的有效期（秒）
}

// MySQLConfig 定义了 MySQL 数据库的连接配置。
type MySQLConfig struct {
	Address         string `yaml:"address"`         // MySQL 服务器地址
	Username        string `yaml:"username"`        // 用户名
	Password        string `yaml:"password"`        // 密码
	Database        string `yaml:"database"`        // 数据库名称
	MaxOpenConns    int    `yaml:"maxOpenConns"`    // 最大打开连接数
	MaxIdleConns    int    `yaml:"maxIdleConns"`    // 最大空闲连接数
	ConnMaxLifetime int    `yaml:"connMaxLifetime"` // 连接最大生命周期 (秒)
}

// RedisConfig 定义了 Redis 数据库的连接配置。
type RedisConfig struct {
	Address  string `yaml:"address"`  // Redis 服务器地址 (例如: "localhost:6379")
	Password string `yaml:"password"` // Redis 密码
	DB       int    `yaml:"db"`       // Redis 数据库编号
}

// MilvusConfig 定义了 Milvus 向量数据库的连接和集合配置。
type MilvusConfig struct {
	Address    string `yaml:"address"`    // Milvus 服务地址
	Collection string `yaml:"collection"` // 集合名称
	IndexType  string `yaml:"indexType"`  // 索引类型 (例如: "IVF_FLAT", "HNSW")
	Nlist      int    `yaml:"nlist"`      // IVF 索引的聚类数
}

// DatabasesConfig 聚合了所有数据库的连接配置。
type DatabasesConfig struct {
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Milvus MilvusConfig `yaml:"milvus"`
}

// LLMConfig 定义了大语言模型客户端的配置。
type LLMConfig struct {
	Provider    string  `yaml:"provider"`    // 提供商, "together" 或 "ollama"
	Model       string  `yaml:"model"`       // 模型名称
	APIKey      string  `yaml:"apiKey"`      // API 密钥 (可由环境变量 TOGETHER_API_KEY 覆盖)
	BaseURL     string  `yaml:"baseURL"`     // API 基准地址，为空时使用提供商默认值
	MaxTokens   int     `yaml:"maxTokens"`   // 单次生成的最大 token 数
	Temperature float32 `yaml:"temperature"` // 采样温度
}

// EmbeddingConfig 定义了文本嵌入模型的配置。
type EmbeddingConfig struct {
	Provider string `yaml:"provider"` // 提供商, "huggingface" 或 "ollama"
	Model    string `yaml:"model"`    // 模型名称 (例如: "sentence-transformers/all-MiniLM-L6-v2")
	APIKey   string `yaml:"apiKey"`   // API 密钥 (可由环境变量 HF_API_KEY 覆盖)
	BaseURL  string `yaml:"baseURL"`  // API 基准地址，为空时使用提供商默认值
	Dim      int    `yaml:"dim"`      // 嵌入向量维度，所有向量必须一致
}

// RAGConfig 定义了检索增强生成管道的配置。
type RAGConfig struct {
	Backend      string `yaml:"backend"`      // 向量索引后端, "milvus" 或 "memory"
	Splitter     string `yaml:"splitter"`     // 切分器, "character" 或 "token"
	ChunkSize    int    `yaml:"chunkSize"`    // 分块大小
	ChunkOverlap int    `yaml:"chunkOverlap"` // 相邻分块的重叠大小
	TopK         int    `yaml:"topK"`         // 检索返回的最近邻数量
	HistoryLimit int    `yaml:"historyLimit"` // 注入提示词的历史消息条数上限
}

// PricingConfig 定义了价格数据源和缓存的配置。
type PricingConfig struct {
	BaseURL        string `yaml:"baseURL"`        // 价格 API 基准地址
	APIKey         string `yaml:"apiKey"`         // 价格 API 密钥 (可由环境变量 COIN_API_KEY 覆盖)
	Asset          string `yaml:"asset"`          // 资产名称 (例如: "bitcoin")
	Currency       string `yaml:"currency"`       // 计价货币 (例如: "INR")
	TTLSeconds     int    `yaml:"ttlSeconds"`     // 缓存有效期（秒）
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // 单次请求超时（秒）
}

// KafkaConfig 定义了 Kafka 消息队列的连接配置。
type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"` // 是否启用事件发布
	Brokers []string `yaml:"brokers"` // Kafka Broker 地址列表
	Topic   string   `yaml:"topic"`   // 对话事件主题
}

// MinIOConfig 定义了 MinIO 对象存储的连接配置。
type MinIOConfig struct {
	Enabled   bool   `yaml:"enabled"`   // 是否在摄取文档时上传原始文件
	Endpoint  string `yaml:"endpoint"`  // MinIO 服务端点
	AccessKey string `yaml:"accessKey"` // 访问密钥
	SecretKey string `yaml:"secretKey"` // Secret 密钥
	Bucket    string `yaml:"bucket"`    // 默认存储桶名称
	Secure    bool   `yaml:"secure"`    // 是否使用HTTPS
}

// AppConfig 是应用的全局配置结构，对应 config.yaml。
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Logger    LoggerConfig    `yaml:"logger"`
	Auth      AuthConfig      `yaml:"auth"`
	Databases DatabasesConfig `yaml:"databases"`
	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	RAG       RAGConfig       `yaml:"rag"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	MinIO     MinIOConfig     `yaml:"minio"`
}

// LoadConfig 从指定路径读取并解析 YAML 配置文件。
// 敏感字段允许通过环境变量覆盖，避免将密钥写入配置文件。
func LoadConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖敏感配置。
	if v := os.Getenv("TOGETHER_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("HF_API_KEY"); v != "" {
		cfg.Embedding.APIKey = v
	}
	if v := os.Getenv("COIN_API_KEY"); v != "" {
		cfg.Pricing.APIKey = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JwtSecret = v
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults 为未设置的字段填充默认值。
func (c *AppConfig) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = 3600
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 150
	}
	if c.Embedding.Dim == 0 {
		c.Embedding.Dim = 384
	}
	if c.RAG.Backend == "" {
		c.RAG.Backend = "milvus"
	}
	if c.RAG.Splitter == "" {
		c.RAG.Splitter = "character"
	}
	if c.RAG.ChunkSize == 0 {
		c.RAG.ChunkSize = 500
	}
	if c.RAG.ChunkOverlap == 0 {
		c.RAG.ChunkOverlap = 50
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 3
	}
	if c.RAG.HistoryLimit == 0 {
		c.RAG.HistoryLimit = 20
	}
	if c.Pricing.Asset == "" {
		c.Pricing.Asset = "bitcoin"
	}
	if c.Pricing.Currency == "" {
		c.Pricing.Currency = "INR"
	}
	if c.Pricing.TTLSeconds == 0 {
		c.Pricing.TTLSeconds = 300
	}
	if c.Pricing.TimeoutSeconds == 0 {
		c.Pricing.TimeoutSeconds = 10
	}
	if c.Databases.Milvus.Collection == "" {
		c.Databases.Milvus.Collection = "bitcoin_docs"
	}
	if c.Databases.Milvus.IndexType == "" {
		c.Databases.Milvus.IndexType = "IVF_FLAT"
	}
	if c.Databases.Milvus.Nlist == 0 {
		c.Databases.Milvus.Nlist = 128
	}
}

// validate 检查启动前必须满足的配置约束。配置错误应当在启动时立刻失败。
func (c *AppConfig) validate() error {
	if c.Embedding.Dim <= 0 {
		return fmt.Errorf("配置错误: 嵌入维度必须为正数, 当前为 %d", c.Embedding.Dim)
	}
	if c.RAG.ChunkOverlap >= c.RAG.ChunkSize {
		return fmt.Errorf("配置错误: 分块重叠 (%d) 必须小于分块大小 (%d)", c.RAG.ChunkOverlap, c.RAG.ChunkSize)
	}
	return nil
}
