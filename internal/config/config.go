package config

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// DefaultHost is the production Chit Chats API host. Point api.host at
// https://staging.chitchats.com to exercise the staging environment.
const DefaultHost = "https://chitchats.com"

// Config root configuration
type Config struct {
	API  APIConfig  `mapstructure:"api" json:"api"`
	HTTP HTTPConfig `mapstructure:"http" json:"http"`
	Log  LogConfig  `mapstructure:"log" json:"log"`
}

// APIConfig Chit Chats account settings
type APIConfig struct {
	Host        string `mapstructure:"host" json:"host"`
	ClientID    string `mapstructure:"client_id" json:"client_id"`
	AccessToken string `mapstructure:"access_token" json:"access_token"`
}

// HTTPConfig optional HTTP transport settings. An empty addr disables the
// HTTP listener; stdio is always available.
type HTTPConfig struct {
	Addr  string `mapstructure:"addr" json:"addr"`
	Token string `mapstructure:"token" json:"token"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	File  string `mapstructure:"file" json:"file"`
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Host: DefaultHost,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the chitchats-mcp config directory
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".chitchats-mcp")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load reads the config file at the default path when present and applies
// environment overrides. A missing file is not an error: environment
// variables alone are a complete configuration for this server.
func Load() (*Config, error) {
	return load(ConfigPath(), false)
}

// LoadFrom reads an explicit config file path, which must exist.
func LoadFrom(path string) (*Config, error) {
	return load(path, true)
}

func load(path string, mustExist bool) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("CHITCHATS")
	v.AutomaticEnv()
	bindEnvKeys(v)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if mustExist || !os.IsNotExist(err) {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.MatchName = func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		}
	}); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// bindEnvKeys registers the environment names viper should consult when a
// key is absent from the file. Unmarshal only sees bound env keys.
func bindEnvKeys(v *viper.Viper) {
	for key, env := range map[string]string{
		"api.host":         "CHITCHATS_API_HOST",
		"api.client_id":    "CHITCHATS_CLIENT_ID",
		"api.access_token": "CHITCHATS_ACCESS_TOKEN",
		"http.addr":        "CHITCHATS_HTTP_ADDR",
		"http.token":       "CHITCHATS_HTTP_TOKEN",
		"log.level":        "CHITCHATS_LOG_LEVEL",
		"log.file":         "CHITCHATS_LOG_FILE",
	} {
		_ = v.BindEnv(key, env)
	}
}

func normalizeKey(input string) string {
	input = strings.ReplaceAll(input, "_", "")
	input = strings.ReplaceAll(input, "-", "")
	return strings.ToLower(input)
}

// Save saves config to file. The file holds the access token, so it is
// written owner-only.
func Save(cfg *Config) error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Validate checks that the configuration values are usable. Missing
// credentials are deliberately not an error here: the tracking tool works
// without them and the API client fails closed per call.
func (c *Config) Validate() error {
	host := strings.TrimSpace(c.API.Host)
	if host == "" {
		host = DefaultHost
	}
	u, err := url.Parse(host)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.host must be an absolute URL, got %q", c.API.Host)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.host scheme must be http or https, got %q", u.Scheme)
	}
	c.API.Host = strings.TrimRight(host, "/")

	if addr := strings.TrimSpace(c.HTTP.Addr); addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("http.addr must be host:port, got %q", c.HTTP.Addr)
		}
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level == "" {
		c.Log.Level = "info"
	} else {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[level] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
		}
		c.Log.Level = level
	}

	return nil
}

// HasCredentials reports whether both the client id and the access token
// are configured.
func (c *Config) HasCredentials() bool {
	return strings.TrimSpace(c.API.ClientID) != "" && strings.TrimSpace(c.API.AccessToken) != ""
}
