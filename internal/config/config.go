// Package config loads pageobj settings from defaults, an optional config
// file, PAGEOBJ_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. PAGEOBJ_BASE_URL
const EnvPrefix = "PAGEOBJ"

// Driver names accepted by the driver key
const (
	DriverRod        = "rod"
	DriverPlaywright = "playwright"
)

type Config struct {
	BaseURL   string          `mapstructure:"base_url" yaml:"base_url"`
	Driver    string          `mapstructure:"driver" yaml:"driver"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Timeouts  TimeoutConfig   `mapstructure:"timeouts" yaml:"timeouts"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Artifacts ArtifactsConfig `mapstructure:"artifacts" yaml:"artifacts"`
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
}

// BrowserConfig holds launch settings shared by both drivers.
type BrowserConfig struct {
	Headless   bool   `mapstructure:"headless" yaml:"headless"`
	Width      int    `mapstructure:"width" yaml:"width"`
	Height     int    `mapstructure:"height" yaml:"height"`
	Bin        string `mapstructure:"bin" yaml:"bin"`
	ProfileDir string `mapstructure:"profile_dir" yaml:"profile_dir"`
}

type TimeoutConfig struct {
	Visibility time.Duration `mapstructure:"visibility" yaml:"visibility"`
	Navigation time.Duration `mapstructure:"navigation" yaml:"navigation"`
	// Case bounds a whole registered case; zero disables the limit.
	Case time.Duration `mapstructure:"case" yaml:"case"`
}

// AuthConfig locates the credentials and the persisted session.
type AuthConfig struct {
	StateFile string `mapstructure:"state_file" yaml:"state_file"`
	Username  string `mapstructure:"username" yaml:"-"`
	Password  string `mapstructure:"password" yaml:"-"`
}

type ArtifactsConfig struct {
	Dir      string `mapstructure:"dir" yaml:"dir"`
	MaxWidth uint   `mapstructure:"max_width" yaml:"max_width"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig names the console color of each level.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://panjiachen.github.io")
	v.SetDefault("driver", DriverRod)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.width", 1280)
	v.SetDefault("browser.height", 720)
	v.SetDefault("browser.bin", "")
	v.SetDefault("browser.profile_dir", "")

	// -- Timeouts --
	v.SetDefault("timeouts.visibility", "10s")
	v.SetDefault("timeouts.navigation", "30s")
	v.SetDefault("timeouts.case", "2m")

	// -- Auth --
	v.SetDefault("auth.state_file", ".auth/user.json")
	v.SetDefault("auth.username", "")
	v.SetDefault("auth.password", "")

	// -- Artifacts --
	v.SetDefault("artifacts.dir", "artifacts")
	v.SetDefault("artifacts.max_width", 800)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pageobj")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Credentials keep the variable names the suite has always used.
	_ = v.BindEnv("auth.username", EnvPrefix+"_AUTH_USERNAME", "USER_NAME")
	_ = v.BindEnv("auth.password", EnvPrefix+"_AUTH_PASSWORD", "PASSWORD")
	return v
}

// Default returns the configuration made of defaults only.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load reads path (if non-empty) into v and returns the validated result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url is required"))
	}
	switch c.Driver {
	case DriverRod, DriverPlaywright:
	default:
		errs = append(errs, fmt.Errorf("driver must be %q or %q, got %q", DriverRod, DriverPlaywright, c.Driver))
	}
	if c.Timeouts.Visibility <= 0 {
		errs = append(errs, errors.New("timeouts.visibility must be positive"))
	}
	if c.Timeouts.Navigation <= 0 {
		errs = append(errs, errors.New("timeouts.navigation must be positive"))
	}
	if c.Timeouts.Case < 0 {
		errs = append(errs, errors.New("timeouts.case must not be negative"))
	}
	if c.Browser.Width <= 0 || c.Browser.Height <= 0 {
		errs = append(errs, errors.New("browser.width and browser.height must be positive"))
	}
	return errors.Join(errs...)
}

// HasCredentials reports whether both username and password are set
func (a AuthConfig) HasCredentials() bool {
	return a.Username != "" && a.Password != ""
}
