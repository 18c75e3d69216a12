// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Load reads configs/config.yaml (searched from the working directory upwards a few levels),
// merges config.<APP_ENVIRONMENT>.yaml when present and applies environment overrides.
// appName is used when the file does not set app.name.
func Load(appName string) (*Config, error) {
	loadEnvFile()

	v := newViper(appName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path, appName string) (*Config, error) {
	loadEnvFile()

	v := newViper(appName)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func newViper(appName string) *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, appName)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			if expanded := os.ExpandEnv(strVal); expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper, appName string) {
	v.SetDefault("app.name", appName)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.port", 8000)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.static_dir", "static")
	v.SetDefault("server.read_timeout", 15000)
	v.SetDefault("server.write_timeout", 120000)
	v.SetDefault("server.shutdown_timeout", 30000)

	v.SetDefault("apis.llm.provider", LLMProviderGroq)
	v.SetDefault("apis.llm.base_url", "")
	v.SetDefault("apis.llm.api_key", "")
	v.SetDefault("apis.llm.model", "gemma2-9b-it")
	v.SetDefault("apis.llm.timeout", 60000)
	v.SetDefault("apis.llm.temperature", 0.7)

	v.SetDefault("apis.weather.base_url", "http://api.weatherapi.com")
	v.SetDefault("apis.weather.api_key", "")
	v.SetDefault("apis.weather.timeout", 5000)

	v.SetDefault("catalog.backend", CatalogBackendDummyJSON)
	v.SetDefault("catalog.base_url", "https://dummyjson.com")
	v.SetDefault("catalog.index", "products")
	v.SetDefault("catalog.timeout", 5000)

	v.SetDefault("database.elasticsearch.addresses", []string{})
	v.SetDefault("database.elasticsearch.username", "")
	v.SetDefault("database.elasticsearch.password", "")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)

	v.SetDefault("cache.categories_ttl", 3600)
	v.SetDefault("cache.weather_ttl", 600)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("observability.service_name", appName)
	v.SetDefault("observability.jaeger_endpoint", "")
}

// overrideEmptyConfig fills secrets from the provider-specific variables when still empty.
func overrideEmptyConfig(cfg *Config) {
	if cfg.APIs.LLM.APIKey == "" {
		switch cfg.APIs.LLM.Provider {
		case LLMProviderGroq:
			cfg.APIs.LLM.APIKey = os.Getenv("GROQ_API_KEY")
		case LLMProviderGemini:
			cfg.APIs.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if cfg.APIs.Weather.APIKey == "" {
		cfg.APIs.Weather.APIKey = os.Getenv("WEATHERAPI_API_KEY")
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = os.Getenv("REDIS_ADDRESS")
	}
}

func validateConfig(cfg *Config) error {
	if err := getValidator().Struct(cfg); err != nil {
		return err
	}
	if cfg.Catalog.Backend == CatalogBackendElasticsearch {
		if len(cfg.Database.Elasticsearch.Addresses) == 0 {
			return fmt.Errorf("database.elasticsearch.addresses is required for the elasticsearch catalog backend")
		}
		if cfg.Catalog.Index == "" {
			return fmt.Errorf("catalog.index is required for the elasticsearch catalog backend")
		}
	}
	return nil
}
