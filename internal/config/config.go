package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DB     DBConfig
	Server ServerConfig
	Redis  RedisConfig
	LLM    LLMConfig
	Cache  CacheConfig
	Logger LoggerConfig
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// LLMConfig configures the completion backend. APIKey is only read here and
// handed to the client at construction.
type LLMConfig struct {
	Provider      string
	APIKey        string
	Model         string
	BaseURL       string
	OllamaServer  string
	ChatTimeout   time.Duration
	QuizTimeout   time.Duration
	Temperature   float64
	ChatMaxTokens int
	QuizMaxTokens int
	HistoryLimit  int
}

type CacheConfig struct {
	QuizTTL time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 90)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 1521)
	v.SetDefault("db.user", "system")
	v.SetDefault("db.name", "FREEPDB1")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.ollama_server", "http://localhost:11434")
	v.SetDefault("llm.chat_timeout", 30)
	v.SetDefault("llm.quiz_timeout", 60)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.chat_max_tokens", 1000)
	v.SetDefault("llm.quiz_max_tokens", 2000)
	v.SetDefault("llm.history_limit", 10)

	v.SetDefault("cache.quiz_ttl", 600)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
}

// LoadConfig reads config.yaml from the working directory, ./config or ./configs
// and applies environment overrides. A missing file is not an error.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../configs")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("./configs")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Log the config file being used
	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	config := &Config{
		DB: DBConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  seconds(v, "server.read_timeout"),
			WriteTimeout: seconds(v, "server.write_timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(v.GetString("llm.provider")),
			APIKey:        v.GetString("llm.api_key"),
			Model:         v.GetString("llm.model"),
			BaseURL:       v.GetString("llm.base_url"),
			OllamaServer:  v.GetString("llm.ollama_server"),
			ChatTimeout:   seconds(v, "llm.chat_timeout"),
			QuizTimeout:   seconds(v, "llm.quiz_timeout"),
			Temperature:   v.GetFloat64("llm.temperature"),
			ChatMaxTokens: v.GetInt("llm.chat_max_tokens"),
			QuizMaxTokens: v.GetInt("llm.quiz_max_tokens"),
			HistoryLimit:  v.GetInt("llm.history_limit"),
		},
		Cache: CacheConfig{
			QuizTTL: seconds(v, "cache.quiz_ttl"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
	}

	// Override with environment variables if set
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.APIKey = openAIKey
	}
	if llmServer := os.Getenv("LLM_SERVER"); llmServer != "" {
		config.LLM.OllamaServer = llmServer
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		config.DB.DBName = dbname
	}
	if env := os.Getenv("APP_ENV"); env != "" {
		config.Logger.Env = env
	}

	return config
}

// seconds reads key as a whole number of seconds.
func seconds(v *viper.Viper, key string) time.Duration {
	return time.Duration(v.GetInt(key)) * time.Second
}

func (c *Config) GetDSN() string {
	// Oracle DSN format: user/password@host:port/service
	return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
		c.DB.User,
		c.DB.Password,
		c.DB.Host,
		c.DB.Port,
		c.DB.DBName,
	)
}
