package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"popdash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dashboard DashboardConfig
	Logging   LoggingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig describes where the dataset lives and how to read it
type DataConfig struct {
	File     string
	Sheet    string
	Encoding string
	CacheTTL time.Duration
	Columns  ColumnConfig
}

// ColumnConfig holds the header labels of the three dataset columns
type ColumnConfig struct {
	Region     string `yaml:"region"`
	Year       string `yaml:"year"`
	Population string `yaml:"population"`
}

// DashboardConfig holds presentation settings
type DashboardConfig struct {
	Title          string
	Caption        string
	SidebarHeader  string
	DefaultRegions []string
	ShowSummary    bool
	EnableExport   bool
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// overlay is the optional YAML file named by DASHBOARD_CONFIG
type overlay struct {
	Title          string       `yaml:"title"`
	Caption        string       `yaml:"caption"`
	SidebarHeader  string       `yaml:"sidebar_header"`
	DefaultRegions []string     `yaml:"default_regions"`
	Columns        ColumnConfig `yaml:"columns"`
}

const (
	EncodingUTF8     = "utf-8"
	EncodingShiftJIS = "shift_jis"
)

// Defaults for the e-Stat prefecture population table
const (
	DefaultTitle         = "都道府県別 人口推移データ分析"
	DefaultCaption       = "出典: 政府統計の総合窓口(e-Stat)より作成"
	DefaultSidebarHeader = "表示設定"
	DefaultRegionColumn  = "都道府県"
	DefaultYearColumn    = "西暦"
	DefaultPopColumn     = "人口"
)

var defaultRegions = []string{"東京都", "大阪府", "北海道"}

// Load reads configuration from environment variables, applies the optional
// YAML overlay and validates the result
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Data:      *loadDataConfig(),
		Dashboard: *loadDashboardConfig(),
		Logging:   *loadLoggingConfig(),
	}

	if path := os.Getenv("DASHBOARD_CONFIG"); path != "" {
		if err := applyOverlayFile(config, path); err != nil {
			return nil, errors.Wrap(err, "failed to load dashboard overlay")
		}
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:     getEnvOrDefault("DATA_FILE", "data.csv"),
		Sheet:    getEnvOrDefault("DATA_SHEET", ""),
		Encoding: strings.ToLower(getEnvOrDefault("INPUT_ENCODING", EncodingUTF8)),
		CacheTTL: getEnvDurationOrDefault("DATASET_CACHE_TTL", 0),
		Columns: ColumnConfig{
			Region:     getEnvOrDefault("REGION_COLUMN", DefaultRegionColumn),
			Year:       getEnvOrDefault("YEAR_COLUMN", DefaultYearColumn),
			Population: getEnvOrDefault("POPULATION_COLUMN", DefaultPopColumn),
		},
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		Title:          DefaultTitle,
		Caption:        DefaultCaption,
		SidebarHeader:  DefaultSidebarHeader,
		DefaultRegions: getEnvListOrDefault("DEFAULT_REGIONS", defaultRegions),
		ShowSummary:    getEnvBoolOrDefault("SHOW_SUMMARY", true),
		EnableExport:   getEnvBoolOrDefault("ENABLE_EXPORT", true),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}
}

func applyOverlayFile(config *Config, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return applyOverlay(config, content)
}

// applyOverlay merges non-empty YAML values over the env-derived config
func applyOverlay(config *Config, content []byte) error {
	var o overlay
	if err := yaml.Unmarshal(content, &o); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}

	if o.Title != "" {
		config.Dashboard.Title = o.Title
	}
	if o.Caption != "" {
		config.Dashboard.Caption = o.Caption
	}
	if o.SidebarHeader != "" {
		config.Dashboard.SidebarHeader = o.SidebarHeader
	}
	if len(o.DefaultRegions) > 0 {
		config.Dashboard.DefaultRegions = o.DefaultRegions
	}
	if o.Columns.Region != "" {
		config.Data.Columns.Region = o.Columns.Region
	}
	if o.Columns.Year != "" {
		config.Data.Columns.Year = o.Columns.Year
	}
	if o.Columns.Population != "" {
		config.Data.Columns.Population = o.Columns.Population
	}
	return nil
}

func validateConfig(config *Config) error {
	if strings.TrimSpace(config.Data.File) == "" {
		return errors.ConfigInvalid("DATA_FILE is required")
	}
	switch config.Data.Encoding {
	case EncodingUTF8, "utf8", EncodingShiftJIS, "sjis":
	default:
		return errors.ConfigInvalid("INPUT_ENCODING must be utf-8 or shift_jis")
	}

	cols := config.Data.Columns
	if cols.Region == "" || cols.Year == "" || cols.Population == "" {
		return errors.ConfigInvalid("column labels must not be empty")
	}
	if cols.Region == cols.Year || cols.Region == cols.Population || cols.Year == cols.Population {
		return errors.ConfigInvalid("column labels must be distinct")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	if config.Data.CacheTTL < 0 {
		return errors.ConfigInvalid("DATASET_CACHE_TTL must not be negative")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
