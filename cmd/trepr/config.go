package main

import (
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//config bundles the options that can be set in the config file and overridden by flags
type config struct {
	Workers        int     `yaml:"workers" validate:"gte=1,lte=1024"`
	MemoryFraction float64 `yaml:"memory_fraction" validate:"gt=0,lte=1"`
	//OutFolderPath defaults to "<measurement>-results" in the current directory
	OutFolderPath string `yaml:"out_folder_path"`
	MetricsFile   string `yaml:"metrics_file"`
	LogLevel      string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string `yaml:"log_format" validate:"oneof=text json"`
	PlotWidth     int    `yaml:"plot_width" validate:"gte=100,lte=10000"`
	PlotHeight    int    `yaml:"plot_height" validate:"gte=100,lte=10000"`
}

func defaultConfig() config {
	return config{
		Workers:        runtime.NumCPU(),
		MemoryFraction: 0.5,
		LogLevel:       "info",
		LogFormat:      "text",
		PlotWidth:      800,
		PlotHeight:     600,
	}
}

var validate = validator.New()

//loadConfig reads path on top of the defaults. An empty path only returns the defaults
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config file")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config file %v", path)
	}
	return cfg, nil
}

func (c config) validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

func (c config) logger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
