package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/emi-calculator/internal/config"
	"github.com/iwvelando/emi-calculator/pkg/amortization"
	"github.com/iwvelando/emi-calculator/pkg/constants"
	"github.com/iwvelando/emi-calculator/pkg/datetime"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address     string               `yaml:"address"`
	MaxBodySize string               `yaml:"maxBodySize"`
	Logging     config.LoggingConfig `yaml:"logging"`
	RateLimit   RateLimitConfig      `yaml:"rateLimit"`
	Cache       CacheConfig          `yaml:"cache"`
	Calculator  CalculatorConfig     `yaml:"calculator"`

	bodySizeBytes int64
	cacheTTL      time.Duration
}

// RateLimitConfig bounds requests per client IP. A zero rate disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requestsPerMinute"`
	Burst             int `yaml:"burst"`
}

// CacheConfig selects where computed responses are cached. An empty
// RedisAddress keeps them in process memory.
type CacheConfig struct {
	Enabled       bool   `yaml:"enabled"`
	RedisAddress  string `yaml:"redisAddress"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	TTL           string `yaml:"ttl"`
	MaxEntries    int    `yaml:"maxEntries"`
}

// CalculatorConfig holds the defaults applied to API requests.
type CalculatorConfig struct {
	ScheduleStart        string  `yaml:"scheduleStart"`
	DisplayMonths        int     `yaml:"displayMonths"`
	MaxTenureMonths      int     `yaml:"maxTenureMonths"`
	MaxAnnualRatePercent float64 `yaml:"maxAnnualRatePercent"`
}

// Limits returns the loan ceilings enforced on API requests.
func (c CalculatorConfig) Limits() amortization.Limits {
	return amortization.Limits{
		MaxTenureMonths:      c.MaxTenureMonths,
		MaxAnnualRatePercent: c.MaxAnnualRatePercent,
	}
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		Address:     constants.DefaultServerAddress,
		MaxBodySize: fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes),
		RateLimit: RateLimitConfig{
			RequestsPerMinute: constants.DefaultRequestsPerMinute,
			Burst:             constants.DefaultBurstSize,
		},
		Cache: CacheConfig{
			TTL: constants.DefaultCacheTTL,
		},
	}
	// Defaults always normalize.
	_ = cfg.normalize()
	return cfg
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BodySizeBytes returns the configured request body limit in bytes.
func (c *Config) BodySizeBytes() int64 {
	return c.bodySizeBytes
}

// SetBodySizeBytes overrides the configured request body limit.
func (c *Config) SetBodySizeBytes(size int64) {
	if size > 0 {
		c.bodySizeBytes = size
		c.MaxBodySize = fmt.Sprintf("%d", size)
	}
}

// CacheTTL returns how long cached responses live.
func (c *Config) CacheTTL() time.Duration {
	return c.cacheTTL
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	sizeStr := strings.TrimSpace(c.MaxBodySize)
	if sizeStr == "" {
		c.bodySizeBytes = constants.DefaultMaxBodySizeBytes
		c.MaxBodySize = fmt.Sprintf("%d", constants.DefaultMaxBodySizeBytes)
	} else {
		bytes, err := ParseSize(sizeStr)
		if err != nil {
			return err
		}
		if bytes <= 0 {
			bytes = constants.DefaultMaxBodySizeBytes
		}
		c.bodySizeBytes = bytes
	}

	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("invalid rateLimit.requestsPerMinute: %d", c.RateLimit.RequestsPerMinute)
	}
	if c.RateLimit.RequestsPerMinute > 0 && c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = constants.DefaultBurstSize
	}

	ttl := strings.TrimSpace(c.Cache.TTL)
	if ttl == "" {
		ttl = constants.DefaultCacheTTL
	}
	duration, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid cache.ttl %q: %w", c.Cache.TTL, err)
	}
	c.cacheTTL = duration

	if c.Calculator.ScheduleStart == "" {
		c.Calculator.ScheduleStart = constants.DefaultScheduleStart
	}
	if _, err := datetime.ParseYearMonth(c.Calculator.ScheduleStart); err != nil {
		return fmt.Errorf("invalid calculator.scheduleStart: %w", err)
	}
	if c.Calculator.DisplayMonths <= 0 {
		c.Calculator.DisplayMonths = constants.DefaultDisplayMonths
	}
	if c.Calculator.MaxTenureMonths <= 0 {
		c.Calculator.MaxTenureMonths = constants.MaxTenureMonths
	}
	if c.Calculator.MaxAnnualRatePercent <= 0 {
		c.Calculator.MaxAnnualRatePercent = constants.MaxAnnualRatePercent
	}
	return nil
}

// ParseSize converts a human-friendly byte string (e.g., "256K", "10M") into bytes.
func ParseSize(value string) (int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultMaxBodySizeBytes, nil
	}

	upper := strings.ToUpper(trimmed)
	idx := len(upper)
	for idx > 0 && !unicode.IsDigit(rune(upper[idx-1])) {
		idx--
	}
	if idx == 0 {
		return 0, fmt.Errorf("invalid size: %s", value)
	}
	numPart := strings.TrimSpace(upper[:idx])
	unitPart := strings.TrimSpace(upper[idx:])

	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", value, err)
	}

	var multiplier int64
	switch unitPart {
	case "", "B":
		multiplier = 1
	case "K", "KB":
		multiplier = 1024
	case "M", "MB":
		multiplier = 1024 * 1024
	default:
		return 0, fmt.Errorf("unsupported size unit %q", unitPart)
	}

	result := n * multiplier
	if result < 0 {
		return 0, fmt.Errorf("size overflow for value %s", value)
	}
	return result, nil
}
