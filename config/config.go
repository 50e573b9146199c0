package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port"`

	Line   LineConfig   `mapstructure:"line"`
	Notion NotionConfig `mapstructure:"notion"`
	AI     AIConfig     `mapstructure:"ai"`
	Admin  AdminConfig  `mapstructure:"admin"`

	MongoURI string `mapstructure:"MONGODB_URI"`
}

type LineConfig struct {
	ChannelSecret string `mapstructure:"LINE_CHANNEL_SECRET"`
	ChannelToken  string `mapstructure:"LINE_CHANNEL_TOKEN"`
}

type NotionConfig struct {
	APIKey   string        `mapstructure:"NOTION_API_KEY"`
	PageIDs  []string      `mapstructure:"page_ids"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type AIConfig struct {
	GeminiAPIKey string `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel  string `mapstructure:"gemini_model"`

	GroqAPIKey  string `mapstructure:"GROQ_API_KEY"`
	GroqModel   string `mapstructure:"groq_model"`
	GroqBaseURL string `mapstructure:"groq_base_url"`

	Temperature   float32       `mapstructure:"temperature"`
	Timeout       time.Duration `mapstructure:"timeout"`
	ReplyLanguage string        `mapstructure:"reply_language"`
}

type AdminConfig struct {
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"ADMIN_PASSWORD"`
	JWTSecret string `mapstructure:"JWT_SECRET_ADMIN"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	// Secrets always come from the environment, never from the yaml file.
	v.BindEnv("line.LINE_CHANNEL_SECRET", "LINE_CHANNEL_SECRET")
	v.BindEnv("line.LINE_CHANNEL_TOKEN", "LINE_CHANNEL_TOKEN")
	v.BindEnv("notion.NOTION_API_KEY", "NOTION_API_KEY")
	v.BindEnv("ai.GOOGLE_API_KEY", "GOOGLE_API_KEY")
	v.BindEnv("ai.GROQ_API_KEY", "GROQ_API_KEY")
	v.BindEnv("admin.ADMIN_PASSWORD", "ADMIN_PASSWORD")
	v.BindEnv("admin.JWT_SECRET_ADMIN", "JWT_SECRET_ADMIN")
	v.BindEnv("MONGODB_URI")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("notion.cache_ttl", 24*time.Hour)
	v.SetDefault("ai.gemini_model", "gemini-1.5-flash")
	v.SetDefault("ai.groq_model", "gemma2-9b-it")
	v.SetDefault("ai.groq_base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.temperature", 0.0)
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.reply_language", "Traditional Chinese (繁體中文)")
	v.SetDefault("admin.username", "admin")
}
