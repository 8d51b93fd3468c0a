package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stellarbit/hubclient/internal/hub"
	"github.com/subosito/gotenv"
)

const envPrefix = "HUB"

var defaults = map[string]any{
	"hub.endpoint":   hub.DefaultEndpoint,
	"hub.username":   "",
	"hub.password":   "",
	"hub.timeout":    "30s",
	"hub.user_agent": "",

	"sessions.persist": true,
	"sessions.path":    "~/.config/stellarbit",

	"logging.level":  "info",
	"logging.format": "text",
}

// envAliases are accepted on top of the automatic HUB_<SECTION>_<KEY> names.
var envAliases = map[string][]string{
	"hub.endpoint":   {"HUB_ENDPOINT"},
	"hub.username":   {"HUB_USERNAME"},
	"hub.password":   {"HUB_PASSWORD"},
	"hub.timeout":    {"HUB_TIMEOUT"},
	"hub.user_agent": {"HUB_USER_AGENT"},
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	v := viper.New()
	applyDefaults(v)

	config, err := decode(v)
	if err != nil {
		// The defaults table is static, a failure here is a programming error
		panic(err)
	}
	return config
}

// Load reads .env, then config.yaml (configFile when given, otherwise the
// first one found on the search path), then HUB_ environment variables.
// Later sources win. Logging is configured from the result.
func Load(configFile string) (*Config, error) {

	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warnln("Failed to load .env file")
	}

	v := newViper(configFile)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}

	if err := config.Logging.Apply(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"file": v.ConfigFileUsed(),
		"hub":  config.GetHubEndpoint(),
	}).Debugln("Configuration loaded")

	return config, nil
}

func newViper(configFile string) *viper.Viper {
	v := viper.New()
	applyDefaults(v)

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, path := range searchPaths() {
			v.AddConfigPath(path)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		// Automatic name first so HUB_HUB_ENDPOINT keeps working
		names := append([]string{envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		_ = v.BindEnv(append([]string{key}, names...)...)
	}

	return v
}

func searchPaths() []string {
	paths := []string{".", "./config", "/etc/stellarbit"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "stellarbit"))
	}
	return paths
}

func applyDefaults(v *viper.Viper) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	return &config, nil
}
