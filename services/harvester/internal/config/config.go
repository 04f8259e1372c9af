package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for optional keys
const (
	DefaultFolder   = "Inbox"
	DefaultOutput   = "SPF_email_analysis.csv"
	DefaultLoginURL = "https://login.microsoftonline.com"
	DefaultGraphURL = "https://graph.microsoft.com/v1.0"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

// Credentials identify the app registration used for the client-credentials grant
type Credentials struct {
	TenantID     string `mapstructure:"tenant_id"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
}

type AuthConfig struct {
	LoginURL string `mapstructure:"login_url"`
}

type GraphConfig struct {
	APIURL string `mapstructure:"api_url"`
}

type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

type ArchiveConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// Config is built once at startup and handed to every stage
type Config struct {
	Credentials `mapstructure:",squash"`

	Mailbox string `mapstructure:"mailbox"`
	Folder  string `mapstructure:"folder"`
	Output  string `mapstructure:"output"`

	Auth     AuthConfig     `mapstructure:"auth"`
	Graph    GraphConfig    `mapstructure:"graph"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Database DatabaseConfig `mapstructure:"database"`
}

// SetDefaults registers the default value of every optional key on v
func SetDefaults(v *viper.Viper) {
	// Required keys get empty defaults so AutomaticEnv values reach Unmarshal.
	for _, key := range []string{"tenant_id", "client_id", "client_secret", "mailbox"} {
		v.SetDefault(key, "")
	}
	v.SetDefault("folder", DefaultFolder)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("auth.login_url", DefaultLoginURL)
	v.SetDefault("graph.api_url", DefaultGraphURL)
	v.SetDefault("http.timeout", DefaultTimeout)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.development", false)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("database.url", "")
}

// Load unmarshals v into a Config. It does not validate.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Auth.LoginURL = strings.TrimRight(cfg.Auth.LoginURL, "/")
	cfg.Graph.APIURL = strings.TrimRight(cfg.Graph.APIURL, "/")
	return cfg, nil
}

// Validate checks the keys needed for a harvest run and reports all missing ones
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		key   string
		value string
	}{
		{"tenant_id", c.TenantID},
		{"client_id", c.ClientID},
		{"client_secret", c.ClientSecret},
		{"mailbox", c.Mailbox},
		{"folder", c.Folder},
		{"output", c.Output},
		{"auth.login_url", c.Auth.LoginURL},
		{"graph.api_url", c.Graph.APIURL},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.key)
		}
	}
	if c.Archive.Enabled && c.Database.URL == "" {
		missing = append(missing, "database.url")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative, got %s", c.HTTP.Timeout)
	}
	return nil
}
