package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/saharanepal/saharabot/internal/ollama"
)

// Config aggregates the configuration for the whole service.
type Config struct {
	Server ServerConfig
	AI     AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	// A bare value must be a port number; anything else fails here instead
	// of at listen time.
	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the generation backend: a local Ollama endpoint with a
// fixed generation policy and a bounded wait.
type AIConfig struct {
	BaseURL     string
	Model       string
	Temperature float64
	NumPredict  int
	Timeout     time.Duration
}

// NewChatModel builds the chat model instance the generation chain runs on.
func (c AIConfig) NewChatModel(_ context.Context) (model.ChatModel, error) {
	if _, err := url.Parse(c.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", c.BaseURL, err)
	}

	return ollama.NewClient(&ollama.Config{
		BaseURL:     c.BaseURL,
		Model:       c.Model,
		Timeout:     c.Timeout,
		Temperature: c.Temperature,
		NumPredict:  c.NumPredict,
	}), nil
}

func loadAIConfig() (AIConfig, error) {
	defaults := ollama.DefaultConfig()

	temperature, err := parseOptionalFloatEnv("OLLAMA_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	if temperature == nil {
		temperature = &defaults.Temperature
	}

	numPredict, err := parseOptionalIntEnv("OLLAMA_NUM_PREDICT")
	if err != nil {
		return AIConfig{}, err
	}
	if numPredict == nil {
		numPredict = &defaults.NumPredict
	}

	timeoutSeconds, err := parseOptionalIntEnv("OLLAMA_TIMEOUT")
	if err != nil {
		return AIConfig{}, err
	}
	timeout := defaults.Timeout
	if timeoutSeconds != nil && *timeoutSeconds > 0 {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return AIConfig{
		BaseURL:     getEnvOrDefault("OLLAMA_BASE_URL", defaults.BaseURL),
		Model:       getEnvOrDefault("OLLAMA_MODEL", defaults.Model),
		Temperature: *temperature,
		NumPredict:  *numPredict,
		Timeout:     timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
