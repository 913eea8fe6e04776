package main

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port              string `json:"port"`
	LogLevel          string `json:"log_level"`
	LogPretty         bool   `json:"log_pretty"`
	BoardSize         int    `json:"board_size"`
	TickIntervalMs    int    `json:"tick_interval_ms"`
	AiCandidateRadius int    `json:"ai_candidate_radius"`
	AiCandidateLimit  int    `json:"ai_candidate_limit"`
	AiDefaultStrategy string `json:"ai_default_strategy"`
	AiWorkerEnabled   bool   `json:"ai_worker_enabled"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		Port:              "8080",
		LogLevel:          "info",
		LogPretty:         true,
		BoardSize:         9,
		TickIntervalMs:    50,
		AiCandidateRadius: DefaultCandidateRadius,
		AiCandidateLimit:  DefaultCandidateLimit,
		AiDefaultStrategy: StrategyMinimaxHard,
		AiWorkerEnabled:   true,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}

func (c Config) Validate() error {
	if err := UniformSize(c.BoardSize).Validate(); err != nil {
		return err
	}
	if c.AiCandidateRadius < 1 {
		return fmt.Errorf("ai_candidate_radius must be positive, got %d", c.AiCandidateRadius)
	}
	if c.AiCandidateLimit < 1 {
		return fmt.Errorf("ai_candidate_limit must be positive, got %d", c.AiCandidateLimit)
	}
	if c.TickIntervalMs < 1 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", c.TickIntervalMs)
	}
	return nil
}

func (c Config) CandidateLimits() CandidateLimits {
	return CandidateLimits{Radius: c.AiCandidateRadius, Limit: c.AiCandidateLimit}
}

// LoadConfig reads .env when present and applies environment overrides on
// top of base.
func LoadConfig(base Config) (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env")
	}
	cfg := base
	cfg.Port = GetEnv("PORT", cfg.Port)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogPretty = GetEnvAsBool("LOG_PRETTY", cfg.LogPretty)
	cfg.BoardSize = GetEnvAsInt("BOARD_SIZE", cfg.BoardSize)
	cfg.TickIntervalMs = GetEnvAsInt("TICK_INTERVAL_MS", cfg.TickIntervalMs)
	cfg.AiCandidateRadius = GetEnvAsInt("AI_CANDIDATE_RADIUS", cfg.AiCandidateRadius)
	cfg.AiCandidateLimit = GetEnvAsInt("AI_CANDIDATE_LIMIT", cfg.AiCandidateLimit)
	cfg.AiDefaultStrategy = GetEnv("AI_DEFAULT_STRATEGY", cfg.AiDefaultStrategy)
	cfg.AiWorkerEnabled = GetEnvAsBool("AI_WORKER_ENABLED", cfg.AiWorkerEnabled)
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer, using default")
		return defaultValue
	}
	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Bool("default", defaultValue).Msg("invalid boolean, using default")
		return defaultValue
	}
	return value
}
