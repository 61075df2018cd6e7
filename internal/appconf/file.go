package appconf

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerFile is the server section of a YAML config file.
type ServerFile struct {
	Port           int      `yaml:"port" validate:"gte=0,lte=65535"`
	Env            string   `yaml:"env" validate:"omitempty,oneof=development test production"`
	ApiKeys        []string `yaml:"api-keys" validate:"dive,required"`
	RateLimit      int      `yaml:"rate-limit" validate:"gte=0"`
	AllowedOrigins []string `yaml:"allowed-origins" validate:"dive,url"`
	LogLevel       string   `yaml:"log-level" validate:"omitempty,oneof=debug info warn warning error"`
}

// DataFile is the data section of a YAML config file.
type DataFile struct {
	Observations    string `yaml:"observations" validate:"required"`
	Curve           string `yaml:"curve"`
	GTFS            string `yaml:"gtfs"`
	AggregateField  string `yaml:"aggregate-field" validate:"omitempty,oneof=scheduled_delay prediction_error"`
	RefreshInterval string `yaml:"refresh-interval"`
	CacheSize       int    `yaml:"cache-size" validate:"gte=0"`
	Verbose         bool   `yaml:"verbose"`
}

// File is the root of a YAML config file.
type File struct {
	Server ServerFile `yaml:"server" validate:"required"`
	Data   DataFile   `yaml:"data" validate:"required"`
}

// LoadFile reads and validates a YAML config file.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("error reading config file: %w", err)
	}
	return ParseFile(data)
}

// ParseFile decodes and validates YAML config content.
func ParseFile(data []byte) (File, error) {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return File{}, fmt.Errorf("error parsing config file: %w", err)
	}

	v := validator.New()
	if err := v.Struct(file); err != nil {
		return File{}, fmt.Errorf("invalid config file: %w", err)
	}
	if _, err := file.Data.Refresh(); err != nil {
		return File{}, err
	}
	if _, err := ParseLogLevel(file.Server.LogLevel); err != nil {
		return File{}, err
	}
	return file, nil
}

// Refresh parses RefreshInterval. An empty value means zero.
func (d DataFile) Refresh() (time.Duration, error) {
	if d.RefreshInterval == "" {
		return 0, nil
	}
	interval, err := time.ParseDuration(d.RefreshInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid refresh-interval %q: %w", d.RefreshInterval, err)
	}
	if interval < 0 {
		return 0, fmt.Errorf("invalid refresh-interval %q: must not be negative", d.RefreshInterval)
	}
	return interval, nil
}

// ServerConfig converts the server section to a Config.
func (f File) ServerConfig() Config {
	level, _ := ParseLogLevel(f.Server.LogLevel)
	return Config{
		Port:           f.Server.Port,
		Env:            EnvFlagToEnvironment(f.Server.Env),
		ApiKeys:        f.Server.ApiKeys,
		RateLimit:      f.Server.RateLimit,
		AllowedOrigins: f.Server.AllowedOrigins,
		LogLevel:       level,
	}
}
