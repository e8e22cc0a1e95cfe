package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/event-planner/pkg/core/shiftgrid"
)

const (
	configFilePrefix = "event_planner_config"
	envPrefix        = "EVENT_PLANNER"
	defaultAddr      = ":8080"
)

// ShiftOverride sets the default shift end time for events on dates matching an RRule
type ShiftOverride struct {
	RRule   string `yaml:"rrule" validate:"required"`
	EndTime string `yaml:"endTime" validate:"required,hhmm"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// TicketingConfig configures the ticketing integration; the token comes from Secrets
type TicketingConfig struct {
	BaseURL string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
}

// SocialConfig configures the social media integration; the token comes from Secrets
type SocialConfig struct {
	BaseURL   string `yaml:"baseURL,omitempty" validate:"omitempty,url"`
	AccountID string `yaml:"accountID,omitempty" validate:"required_with=BaseURL"`
}

// Secrets are read from EVENT_PLANNER_* environment variables, never from the config file
type Secrets struct {
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	TicketingToken string `envconfig:"TICKETING_TOKEN"`
	SocialToken    string `envconfig:"SOCIAL_TOKEN"`
}

// Config represents the application configuration
type Config struct {
	Timezone        string          `yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	DefaultEndTime  string          `yaml:"defaultEndTime,omitempty" validate:"omitempty,hhmm"`
	ShiftOverrides  []ShiftOverride `yaml:"shiftOverrides,omitempty" validate:"dive"`
	PlanningSheetID string          `yaml:"planningSheetID,omitempty"`
	GmailUserID     string          `yaml:"gmailUserID,omitempty"`
	GmailSender     string          `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	Server          ServerConfig    `yaml:"server,omitempty"`
	Ticketing       TicketingConfig `yaml:"ticketing,omitempty"`
	Social          SocialConfig    `yaml:"social,omitempty"`

	Secrets Secrets `yaml:"-"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return shiftgrid.IsValidTimeOfDay(fl.Field().String())
	})
}

// LoadWithEnv loads .env, the config file for env and the secrets from the environment.
// For example, env="test" looks for "event_planner_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		return nil, err
	}

	if err := LoadSecrets(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadSecrets fills cfg.Secrets from EVENT_PLANNER_* environment variables
func LoadSecrets(cfg *Config) error {
	if err := envconfig.Process(envPrefix, &cfg.Secrets); err != nil {
		return fmt.Errorf("failed to read secrets from environment: %w", err)
	}
	return nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.ShiftOverrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in shiftOverrides[%d]: %w", i, err)
		}
	}

	return nil
}

// EndTimeOverrides converts the configured shift overrides for the shift grid
func (c *Config) EndTimeOverrides() ([]shiftgrid.EndTimeOverride, error) {
	overrides := make([]shiftgrid.EndTimeOverride, 0, len(c.ShiftOverrides))
	for i, o := range c.ShiftOverrides {
		override, err := shiftgrid.NewEndTimeOverride(o.RRule, o.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid shiftOverrides[%d]: %w", i, err)
		}
		overrides = append(overrides, override)
	}
	return overrides, nil
}

// Location returns the configured timezone, or UTC
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ServerAddr returns the HTTP listen address
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return defaultAddr
	}
	return c.Server.Addr
}

// findConfigFile searches for the env's config file in the current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := configFilePrefix + ".yaml"
	if env != "" {
		configFileName = configFilePrefix + "." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", configFileName)
}
