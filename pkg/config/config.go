package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	xdgAppName = "gantta"
	configName = "config"
	configType = "yaml"
	envPrefix  = "GANTTA"

	DefaultCalendar = "Gantt"
	DefaultOutput   = "index.html"
)

// Config holds the user settings. Flags bound to the same keys override it.
type Config struct {
	Calendar     string `mapstructure:"calendar"`
	Format       string `mapstructure:"format"`
	Output       string `mapstructure:"output"`
	IncludeToday bool   `mapstructure:"include_today"`
	Title        string `mapstructure:"title"`
	LogLevel     string `mapstructure:"log_level"`
	PlotlyCDN    string `mapstructure:"plotly_cdn"`
}

// Dir returns ~/.config/gantta.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+"."+configType), nil
}

// New returns a viper instance with defaults, the GANTTA_ environment
// prefix and the user config directory on its search path. Values from a
// .env file in the working directory are loaded into the environment first.
func New() *viper.Viper {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	v := viper.New()
	v.SetDefault("calendar", DefaultCalendar)
	v.SetDefault("format", "html")
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("include_today", false)
	v.SetDefault("title", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("plotly_cdn", "")

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	if dir, err := Dir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file if present and decodes the merged settings.
// A missing file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	return &cfg, nil
}

// SaveCalendar persists the default calendar name to the config file.
// Only the keys already stored in the file and "calendar" are written;
// defaults, bound flags and environment values stay out of it.
func SaveCalendar(v *viper.Viper, name string) (string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType(configType)
	if _, err := os.Stat(path); err == nil {
		if err := file.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file: %w", err)
		}
	}
	file.Set("calendar", name)
	if err := file.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	v.Set("calendar", name)
	return path, nil
}
