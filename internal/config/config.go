package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Oracle    OracleConfig
	Practice  PracticeConfig
	Sectional SectionalConfig
	Exam      ExamConfig
	Streak    StreakConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowOrigins []string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type OracleConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type PracticeConfig struct {
	InitialTier            string
	DefaultDurationMinutes int
}

type SectionalConfig struct {
	BlockSize     int
	PassThreshold float64
}

type ExamConfig struct {
	DefaultDurationMinutes int
}

// StreakConfig controls which completed session kinds advance the user's
// streak. The ledger applies the rule uniformly; call sites never decide.
type StreakConfig struct {
	QualifyingKinds []string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "6660"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowOrigins: getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGO_URI", ""),
			Database: getEnv("MONGO_DATABASE", "assessment_service"),
			Timeout:  getEnvAsDuration("MONGO_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", ""),
		},
		Oracle: OracleConfig{
			BaseURL: getEnv("ORACLE_BASE_URL", ""),
			APIKey:  getEnv("ORACLE_API_KEY", ""),
			Timeout: getEnvAsDuration("ORACLE_TIMEOUT", 15*time.Second),
		},
		Practice: PracticeConfig{
			InitialTier:            getEnv("PRACTICE_INITIAL_TIER", "very_easy"),
			DefaultDurationMinutes: getEnvAsInt("PRACTICE_DEFAULT_DURATION_MINUTES", 60),
		},
		Sectional: SectionalConfig{
			BlockSize:     getEnvAsInt("SECTIONAL_BLOCK_SIZE", 10),
			PassThreshold: getEnvAsFloat("SECTIONAL_PASS_THRESHOLD", 40.0),
		},
		Exam: ExamConfig{
			DefaultDurationMinutes: getEnvAsInt("EXAM_DEFAULT_DURATION_MINUTES", 30),
		},
		Streak: StreakConfig{
			QualifyingKinds: getEnvAsSlice("STREAK_QUALIFYING_KINDS", []string{"session", "live_session"}),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
