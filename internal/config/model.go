package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellarbit/hubclient/internal/common"
	"github.com/stellarbit/hubclient/internal/hub"
	"github.com/stellarbit/hubclient/internal/sessions"
)

// Config represents the application configuration structure
type Config struct {
	Hub      HubConfig      `mapstructure:"hub"`
	Sessions SessionsConfig `mapstructure:"sessions"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type HubConfig struct {
	Endpoint  string `mapstructure:"endpoint" default:"http://localhost:3000/"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	Timeout   string `mapstructure:"timeout" default:"30s"` // Go or ISO 8601 duration
	UserAgent string `mapstructure:"user_agent"`
}

type SessionsConfig struct {
	Persist bool   `mapstructure:"persist" default:"true"`
	Path    string `mapstructure:"path" default:"~/.config/stellarbit"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" default:"info"`
	Format string `mapstructure:"format" default:"text"`
}

func (c *Config) SetHubEndpoint(endpoint string) error {
	parsedUrl, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid hub URL: %w", err)
	} else if len(parsedUrl.Scheme) == 0 || len(parsedUrl.Host) == 0 {
		return fmt.Errorf("invalid hub URL: %s", endpoint)
	}
	c.Hub.Endpoint = parsedUrl.String()
	return nil
}

func (c *Config) GetHubEndpoint() string {
	if len(c.Hub.Endpoint) == 0 {
		return hub.DefaultEndpoint
	}
	return c.Hub.Endpoint
}

// GetHubKey names the hub for session persistence.
func (c *Config) GetHubKey() string {
	return sessions.HubKey(c.GetHubEndpoint())
}

func (c *Config) HasCredentials() bool {
	return len(c.Hub.Username) > 0
}

func (c *Config) GetTimeout() time.Duration {
	if len(strings.TrimSpace(c.Hub.Timeout)) == 0 {
		return 0
	}
	timeout, err := common.ParseDuration(c.Hub.Timeout)
	if err != nil {
		logrus.WithError(err).Warnf("Ignoring invalid hub timeout: %s", c.Hub.Timeout)
		return 0
	}
	return timeout
}

// HubOptions converts the configuration into client options.
func (c *Config) HubOptions() hub.Options {
	return hub.Options{
		Endpoint:  c.GetHubEndpoint(),
		Username:  c.Hub.Username,
		Password:  c.Hub.Password,
		Timeout:   c.GetTimeout(),
		UserAgent: c.Hub.UserAgent,
	}
}

func (c *Config) NewSessionManager() *sessions.SessionManager {
	return sessions.NewSessionManager(c.Sessions.Path)
}
