// Package config provides environment-backed configuration for the SDR agent.
// All services read from here so defaults stay consistent; a .env file is
// loaded by the CLI entry point before this package is consulted.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds everything the SDR agent needs at runtime.
// Missing credentials are not an error at load time: steps that need them
// detect the gap at step entry and fail structurally without aborting the
// pipeline.
type Config struct {
	// Service
	Port        int
	UIClientURL string
	DatabaseURL string

	// LLM
	GeminiAPIKey string

	// Web research (optional; research degrades to the knowledge tier)
	SearchAPIKey string
	SearchCX     string

	// Telephony
	TelephonyAPIKey  string
	TelephonyAgentID string
	TelephonyPhoneID string
	TelephonyBaseURL string
	CallCooldown     time.Duration
	CallTimeout      time.Duration
	CallPollInterval time.Duration

	// Email
	SalesEmail    string
	FallbackEmail string

	// Deck generator collaborator
	DeckServiceURL string

	// Optional bearer-token auth for the run endpoints
	APISecret string
}

// Defaults mirror the deployed service layout.
const (
	defaultPort           = 8084
	defaultUIClientURL    = "http://localhost:8000"
	defaultDeckServiceURL = "http://localhost:8086"
	defaultCooldown       = time.Hour
	defaultCallTimeout    = 5 * time.Minute
	defaultPollInterval   = 5 * time.Second
)

// Load reads configuration from the environment.
func Load() *Config {
	return &Config{
		Port:             envInt("SDR_PORT", defaultPort),
		UIClientURL:      envString("UI_CLIENT_URL", defaultUIClientURL),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		SearchAPIKey:     os.Getenv("GOOGLE_SEARCH_API_KEY"),
		SearchCX:         os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
		TelephonyAPIKey:  os.Getenv("ELEVENLABS_API_KEY"),
		TelephonyAgentID: os.Getenv("ELEVENLABS_AGENT_ID"),
		TelephonyPhoneID: os.Getenv("ELEVENLABS_PHONE_NUMBER_ID"),
		TelephonyBaseURL: envString("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		CallCooldown:     envDuration("CALL_COOLDOWN", defaultCooldown),
		CallTimeout:      envDuration("CALL_TIMEOUT", defaultCallTimeout),
		CallPollInterval: envDuration("CALL_POLL_INTERVAL", defaultPollInterval),
		SalesEmail:       os.Getenv("SALES_EMAIL"),
		FallbackEmail:    os.Getenv("FALLBACK_EMAIL"),
		DeckServiceURL:   envString("DECK_SERVICE_URL", defaultDeckServiceURL),
		APISecret:        os.Getenv("SDR_API_SECRET"),
	}
}

// Validate checks that the configuration has usable values. Only values
// that would make the service itself unusable are hard errors; missing
// provider credentials degrade individual steps instead.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.CallCooldown < 0 {
		return fmt.Errorf("config error: call cooldown must be non-negative")
	}
	if c.CallTimeout <= 0 {
		return fmt.Errorf("config error: call timeout must be positive")
	}
	if c.CallPollInterval <= 0 {
		return fmt.Errorf("config error: call poll interval must be positive")
	}
	if c.CallPollInterval > c.CallTimeout {
		return fmt.Errorf("config error: poll interval exceeds call timeout")
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
