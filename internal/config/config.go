package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreRedis    = "redis"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	Server     ServerConfig
	Log        LogConfig
	LLM        LLMConfig
	Interview  InterviewConfig
	Store      StoreConfig
	ChromePath string
}

type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	MaxAudioBytes   int
}

type LogConfig struct {
	Level  string
	Format string
}

type LLMConfig struct {
	Provider           string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	OpenAIModel        string
	GeminiAPIKey       string
	GeminiModel        string
	TranscribeModel    string
	TranscribeLanguage string
	Timeout            time.Duration
}

// InterviewConfig tunes prompt shape and sampling. It can be overridden from
// a YAML file, see LoadInterviewFile.
type InterviewConfig struct {
	QuestionCount       int     `yaml:"question_count"`
	HardQuestionCount   int     `yaml:"hard_question_count"`
	JobExcerptChars     int     `yaml:"job_excerpt_chars"`
	QuestionTemperature float32 `yaml:"question_temperature"`
	ScoringTemperature  float32 `yaml:"scoring_temperature"`
}

type StoreConfig struct {
	Kind        string
	DatabaseURL string
	SQLitePath  string
	RedisURL    string
}

// Load reads .env (if present), the environment and an optional YAML file
// named by path or CONFIG_FILE.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		iv, err := LoadInterviewFile(path, cfg.Interview)
		if err != nil {
			return nil, err
		}
		cfg.Interview = iv
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("PORT", 3000),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			MaxAudioBytes:   getEnvAsInt("MAX_AUDIO_BYTES", 25<<20),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		LLM: LLMConfig{
			Provider:           getEnv("LLM_PROVIDER", ProviderOpenAI),
			OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
			OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", ""),
			OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o"),
			GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
			GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			TranscribeModel:    getEnv("TRANSCRIBE_MODEL", "whisper-1"),
			TranscribeLanguage: getEnv("TRANSCRIBE_LANGUAGE", "en"),
			Timeout:            getEnvAsDuration("UPSTREAM_TIMEOUT", 60*time.Second),
		},
		Interview: InterviewConfig{
			QuestionCount:       getEnvAsInt("QUESTION_COUNT", 10),
			HardQuestionCount:   getEnvAsInt("HARD_QUESTION_COUNT", 3),
			JobExcerptChars:     getEnvAsInt("JOB_EXCERPT_CHARS", 500),
			QuestionTemperature: float32(getEnvAsFloat("QUESTION_TEMPERATURE", 0.8)),
			ScoringTemperature:  float32(getEnvAsFloat("SCORING_TEMPERATURE", 0.7)),
		},
		Store: StoreConfig{
			Kind:        getEnv("SESSION_STORE", StoreMemory),
			DatabaseURL: getEnv("DATABASE_URL", ""),
			SQLitePath:  getEnv("SQLITE_PATH", "sessions.db"),
			RedisURL:    getEnv("REDIS_URL", ""),
		},
		ChromePath: getEnv("CHROME_PATH", ""),
	}
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("PORT must be positive")
	}
	if err := c.Interview.Validate(); err != nil {
		return err
	}

	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}

	switch c.Store.Kind {
	case StoreMemory, StoreSQLite:
	case StorePostgres:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	case StoreRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.Store.Kind)
	}
	return nil
}

func (c InterviewConfig) Validate() error {
	if c.QuestionCount <= 0 {
		return fmt.Errorf("question_count must be greater than 0")
	}
	if c.HardQuestionCount < 0 || c.HardQuestionCount > c.QuestionCount {
		return fmt.Errorf("hard_question_count must be between 0 and question_count (%d)", c.QuestionCount)
	}
	if c.JobExcerptChars <= 0 {
		return fmt.Errorf("job_excerpt_chars must be greater than 0")
	}
	if c.QuestionTemperature <= 0 || c.QuestionTemperature > 2 {
		return fmt.Errorf("question_temperature must be in (0, 2]")
	}
	if c.ScoringTemperature <= 0 || c.ScoringTemperature > 2 {
		return fmt.Errorf("scoring_temperature must be in (0, 2]")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
