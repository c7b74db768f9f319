// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

// Config points the provider at the externally-hosted inference services.
// Each service is a small HTTP endpoint with its own JSON contract; this
// repository only consumes them, it does not implement them.
type Config struct {
	TitleBaseURL      string // text-to-title service
	NLToSQLBaseURL    string // NL-to-SQL translation service
	TranscribeBaseURL string // speech-to-text service

	Timeout time.Duration // transport timeout shared by all three
}

func (c *Config) Validate() error {
	if c.TitleBaseURL == "" {
		return fmt.Errorf("title service URL is required")
	}
	if c.NLToSQLBaseURL == "" {
		return fmt.Errorf("NL-to-SQL service URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		TitleBaseURL:      "http://127.0.0.1:5002",
		NLToSQLBaseURL:    "http://127.0.0.1:5003",
		TranscribeBaseURL: "http://127.0.0.1:5001",
		Timeout:           60 * time.Second,
	}
}
