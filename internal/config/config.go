package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "HARVESTER"

// Config is the runtime configuration of the harvester.
type Config struct {
	URLsFile       string
	PublishersFile string
	PublishTimeout time.Duration
	HTTP           HTTPConfig
	Log            LogConfig
}

// HTTPConfig configures the shared feed client.
type HTTPConfig struct {
	Timeout             time.Duration
	ConnectTimeout      time.Duration
	UserAgent           string
	MaxIdleConnsPerHost int
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// Load resolves configuration from flags, HARVESTER_* environment variables
// (a .env file is honoured when present), an optional YAML config file and
// built-in defaults, in that order of precedence.
func Load(args []string) (Config, error) {
	flags := pflag.NewFlagSet("harvester", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to a YAML config file")
	flags.String("urls", "urls.txt", "line-delimited file of feed URLs")
	flags.String("publishers", "", "publishers file (YAML or JSON)")
	flags.Duration("publish-timeout", 10*time.Second, "deadline for one event delivery to one publisher")
	flags.Duration("timeout", 60*time.Second, "overall per-request timeout")
	flags.Duration("connect-timeout", 10*time.Second, "connect timeout")
	flags.String("log-level", "info", "log level")
	flags.String("log-format", "console", "log format: console or json")

	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("parse flags: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"urls_file":            "urls",
		"publishers_file":      "publishers",
		"publish_timeout":      "publish-timeout",
		"http.timeout":         "timeout",
		"http.connect_timeout": "connect-timeout",
		"log.level":            "log-level",
		"log.format":           "log-format",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	if path := strings.TrimSpace(*configFile); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		URLsFile:       strings.TrimSpace(v.GetString("urls_file")),
		PublishersFile: strings.TrimSpace(v.GetString("publishers_file")),
		PublishTimeout: v.GetDuration("publish_timeout"),
		HTTP: HTTPConfig{
			Timeout:             v.GetDuration("http.timeout"),
			ConnectTimeout:      v.GetDuration("http.connect_timeout"),
			UserAgent:           strings.TrimSpace(v.GetString("http.user_agent")),
			MaxIdleConnsPerHost: v.GetInt("http.max_idle_conns_per_host"),
		},
		Log: LogConfig{
			Level:  strings.TrimSpace(v.GetString("log.level")),
			Format: strings.TrimSpace(v.GetString("log.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("urls_file", "urls.txt")
	v.SetDefault("publishers_file", "")
	v.SetDefault("publish_timeout", 10*time.Second)
	v.SetDefault("http.timeout", 60*time.Second)
	v.SetDefault("http.connect_timeout", 10*time.Second)
	v.SetDefault("http.user_agent", "podcast-harvester/1.0")
	v.SetDefault("http.max_idle_conns_per_host", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks that required fields are usable.
func (c Config) Validate() error {
	if c.URLsFile == "" {
		return errors.New("urls_file is required")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("publish_timeout must be positive, got %s", c.PublishTimeout)
	}
	if c.HTTP.ConnectTimeout <= 0 {
		return fmt.Errorf("http.connect_timeout must be positive, got %s", c.HTTP.ConnectTimeout)
	}
	return nil
}
