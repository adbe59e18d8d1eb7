package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ClientConfig holds the connection settings for a cutthroat server.
type ClientConfig struct {
	// BaseURL is the HTTP origin of the server, without trailing slash.
	BaseURL string `yaml:"base_url"`
	// AckTimeoutMs bounds how long an action waits for its acknowledging
	// state push before failing.
	AckTimeoutMs int `yaml:"ack_timeout_ms"`
	// ReconnectInitialDelayMs is the first redial delay after a dropped
	// connection; the delay doubles per attempt up to ReconnectMaxDelayMs.
	ReconnectInitialDelayMs int `yaml:"reconnect_initial_delay_ms"`
	ReconnectMaxDelayMs     int `yaml:"reconnect_max_delay_ms"`
}

var (
	cfg      *ClientConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadClientConfig loads the client configuration from the given path.
func LoadClientConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read client config: %w", err)
			return
		}

		var c ClientConfig
		if err := yaml.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal client config: %w", err)
			return
		}
		c.applyDefaults()
		cfg = &c
	})
	return loadErr
}

// GetClientConfig returns the global client configuration, or defaults if
// none was loaded.
func GetClientConfig() *ClientConfig {
	if cfg == nil {
		c := ClientConfig{BaseURL: "http://localhost:8080"}
		c.applyDefaults()
		return &c
	}
	return cfg
}

func (c *ClientConfig) applyDefaults() {
	if c.AckTimeoutMs <= 0 {
		c.AckTimeoutMs = 5000
	}
	if c.ReconnectInitialDelayMs <= 0 {
		c.ReconnectInitialDelayMs = 1000
	}
	if c.ReconnectMaxDelayMs <= 0 {
		c.ReconnectMaxDelayMs = 5000
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
}

// AckTimeout returns the ack timeout as a duration.
func (c *ClientConfig) AckTimeout() time.Duration {
	return time.Duration(c.AckTimeoutMs) * time.Millisecond
}

// ReconnectInitialDelay returns the first redial delay as a duration.
func (c *ClientConfig) ReconnectInitialDelay() time.Duration {
	return time.Duration(c.ReconnectInitialDelayMs) * time.Millisecond
}

// ReconnectMaxDelay returns the redial delay cap as a duration.
func (c *ClientConfig) ReconnectMaxDelay() time.Duration {
	return time.Duration(c.ReconnectMaxDelayMs) * time.Millisecond
}

// WSBaseURL derives the WebSocket origin from BaseURL.
func (c *ClientConfig) WSBaseURL() string {
	switch {
	case strings.HasPrefix(c.BaseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.BaseURL, "https://")
	case strings.HasPrefix(c.BaseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.BaseURL, "http://")
	default:
		return c.BaseURL
	}
}
