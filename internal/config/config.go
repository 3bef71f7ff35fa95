package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const configFileBase = "bethel_config"

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" env:"BETHEL_ADDR" env-default:":8080" validate:"required"`
}

// StorageConfig selects the backing store
type StorageConfig struct {
	Driver      string `yaml:"driver" env:"BETHEL_STORAGE_DRIVER" env-default:"postgres" validate:"oneof=postgres memory"`
	DatabaseURL string `yaml:"databaseURL" env:"DATABASE_URL" validate:"required_if=Driver postgres"`
}

// AdminConfig holds the shared admin password and session cookie settings.
// Secrets are read from the environment only.
type AdminConfig struct {
	Password      string        `yaml:"-" env:"BETHEL_ADMIN_PASSWORD"`
	SessionSecret string        `yaml:"-" env:"BETHEL_SESSION_SECRET"`
	SessionTTL    time.Duration `yaml:"sessionTTL" env:"BETHEL_SESSION_TTL" env-default:"12h" validate:"min=1m"`
	SecureCookie  bool          `yaml:"secureCookie" env:"BETHEL_SECURE_COOKIE"`
}

// CalendarConfig controls date labels and the default service days
type CalendarConfig struct {
	Locale      string `yaml:"locale" env:"BETHEL_LOCALE" env-default:"ko" validate:"oneof=ko en"`
	ServiceDays string `yaml:"serviceDays" env-default:"FREQ=WEEKLY;BYDAY=SU" validate:"required"`
}

// SheetsConfig points schedule publishing at a spreadsheet
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheetID" env:"BETHEL_SPREADSHEET_ID"`
	CredentialsPath string `yaml:"credentialsPath" env:"GOOGLE_APPLICATION_CREDENTIALS" validate:"required_with=SpreadsheetID"`
}

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Admin    AdminConfig    `yaml:"admin"`
	Calendar CalendarConfig `yaml:"calendar"`
	Sheets   SheetsConfig   `yaml:"sheets"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads the configuration for an environment. It reads
// bethel_config.<env>.yaml, falling back to bethel_config.yaml, from the current
// directory and then the user's home directory. When no file exists the
// configuration comes from the environment alone.
func LoadWithEnv(env string) (*Config, error) {
	path, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}
	if path == "" {
		return LoadFromEnv()
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the configuration from a YAML file, applies environment
// overrides and validates the result
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(&cfg)
}

// LoadFromEnv builds the configuration from environment variables and defaults
func LoadFromEnv() (*Config, error) {
	return finish(&Config{})
}

func finish(cfg *Config) (*Config, error) {
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.Calendar.ServiceDays); err != nil {
		return fmt.Errorf("invalid rrule in calendar.serviceDays: %w", err)
	}

	return nil
}

// ValidateServer checks the settings only the HTTP server needs
func (c *Config) ValidateServer() error {
	var errs []error
	if c.Admin.Password == "" {
		errs = append(errs, errors.New("BETHEL_ADMIN_PASSWORD must be set"))
	}
	if len(c.Admin.SessionSecret) < 32 {
		errs = append(errs, errors.New("BETHEL_SESSION_SECRET must be at least 32 characters"))
	}
	return errors.Join(errs...)
}

// PublishingEnabled reports whether schedule publishing to Sheets is configured
func (c *Config) PublishingEnabled() bool {
	return c.Sheets.SpreadsheetID != ""
}

// findConfigFile returns "" without error when no config file exists
func findConfigFile(env string) (string, error) {
	var names []string
	if env != "" {
		names = append(names, fmt.Sprintf("%s.%s.yaml", configFileBase, env))
	}
	names = append(names, configFileBase+".yaml")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{".", homeDir} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", nil
}
