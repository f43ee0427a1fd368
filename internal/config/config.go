// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
// 配置文件中未被识别的键会被保留，但核心逻辑不使用它们。
type Config struct {
	Server           ServerConfig           `mapstructure:"server"`
	Database         DatabaseConfig         `mapstructure:"database"`
	Log              LogConfig              `mapstructure:"log"`
	JWT              JWTConfig              `mapstructure:"jwt"`
	Admin            AdminConfig            `mapstructure:"admin"`
	Kafka            KafkaConfig            `mapstructure:"kafka"`
	MinIO            MinIOConfig            `mapstructure:"minio"`
	MessageFilter    MessageFilterConfig    `mapstructure:"message_filter"`
	Learning         LearningConfig         `mapstructure:"learning"`
	StyleApplication StyleApplicationConfig `mapstructure:"style_application"`
	Import           ImportConfig           `mapstructure:"import"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
// Type 取值 sqlite 或 mysql，默认使用本地 sqlite 文件。
type DatabaseConfig struct {
	Type   string       `mapstructure:"type"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
	MySQL  MySQLConfig  `mapstructure:"mysql"`
	Redis  RedisConfig  `mapstructure:"redis"`
}

// SQLiteConfig 存储 SQLite 数据库的配置。
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。Addr 为空时不启用 Redis 缓存。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// JWTConfig 存储管理接口 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// AdminConfig 存储管理员登录凭据，PasswordHash 为 bcrypt 哈希。
type AdminConfig struct {
	Username     string `mapstructure:"username"`
	PasswordHash string `mapstructure:"password_hash"`
}

// KafkaConfig 存储 Kafka 消息接入相关的配置。
type KafkaConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// MinIOConfig 存储 MinIO 对象存储的配置，用于从对象存储拉取聊天记录文件。
type MinIOConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// MessageFilterConfig 存储消息过滤相关的配置。
type MessageFilterConfig struct {
	CommandPrefix     []string `mapstructure:"command_prefix"`
	MinMessageLength  int      `mapstructure:"min_message_length"`
	MaxDuplicateCount int      `mapstructure:"max_duplicate_count"`
	SensitiveWords    []string `mapstructure:"sensitive_words"`
	WhitelistUsers    []string `mapstructure:"whitelist_users"`
	BlacklistUsers    []string `mapstructure:"blacklist_users"`
}

// LearningConfig 存储风格学习相关的配置。
type LearningConfig struct {
	BatchSize            int     `mapstructure:"batch_size"`
	LearningInterval     int     `mapstructure:"learning_interval"`
	MaxCacheSize         int     `mapstructure:"max_cache_size"`
	StyleUpdateThreshold float64 `mapstructure:"style_update_threshold"`
}

// StyleApplicationConfig 存储风格应用相关的配置。
type StyleApplicationConfig struct {
	DefaultImitationLevel float64 `mapstructure:"default_imitation_level"`
	MaxHistoryLength      int     `mapstructure:"max_history_length"`
}

// ImportConfig 存储启动时自动导入聊天记录的配置，InitDir 为空时跳过。
type ImportConfig struct {
	InitDir   string `mapstructure:"init_dir"`
	UserID    string `mapstructure:"user_id"`
	UserName  string `mapstructure:"user_name"`
	SessionID string `mapstructure:"session_id"`
}

// setDefaults 写入各配置项的默认值，与插件历史默认行为保持一致。
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("database.type", "sqlite")
	viper.SetDefault("database.sqlite.path", "data/learning_data.db")

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	viper.SetDefault("jwt.access_token_expire_hours", 2)
	viper.SetDefault("jwt.refresh_token_expire_days", 7)

	viper.SetDefault("message_filter.command_prefix", []string{"!", "！", "/"})
	viper.SetDefault("message_filter.min_message_length", 2)
	viper.SetDefault("message_filter.max_duplicate_count", 3)

	viper.SetDefault("learning.batch_size", 20)
	viper.SetDefault("learning.learning_interval", 3600)
	viper.SetDefault("learning.max_cache_size", 1000)
	viper.SetDefault("learning.style_update_threshold", 0.7)

	viper.SetDefault("style_application.default_imitation_level", 0.7)
	viper.SetDefault("style_application.max_history_length", 50)

	viper.SetDefault("import.session_id", "import_session")
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
