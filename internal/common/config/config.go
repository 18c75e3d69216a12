// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Backends accepted by catalog.backend.
const (
	CatalogBackendDummyJSON     = "dummyjson"
	CatalogBackendElasticsearch = "elasticsearch"
)

// LLM providers accepted by apis.llm.provider.
const (
	LLMProviderGroq   = "groq"
	LLMProviderGemini = "gemini"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Server        ServerConfig        `mapstructure:"server"`
	APIs          APIsConfig          `mapstructure:"apis"`
	Catalog       CatalogConfig       `mapstructure:"catalog"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int      `mapstructure:"port" validate:"gte=1,lte=65535"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	StaticDir       string   `mapstructure:"static_dir"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	LLM     LLMConfig     `mapstructure:"llm"`
	Weather WeatherConfig `mapstructure:"weather"`
}

type LLMConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=groq gemini"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model" validate:"required"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds

	// Temperature is sent to the groq provider only.
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
}

type WeatherConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	APIKey  string `mapstructure:"api_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// CatalogConfig selects and configures the product catalog backend.
type CatalogConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=dummyjson elasticsearch"`
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Index   string `mapstructure:"index"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

type DatabaseConfig struct {
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// RedisConfig is optional; an empty address disables caching.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig holds TTLs in seconds. Zero disables the corresponding cache.
type CacheConfig struct {
	CategoriesTTL int `mapstructure:"categories_ttl" validate:"gte=0"`
	WeatherTTL    int `mapstructure:"weather_ttl" validate:"gte=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetTTL converts seconds from config to time.Duration
func GetTTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
