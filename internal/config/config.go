package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VITRINA_"

// Config holds runtime settings. Field tags name the environment variable
// without EnvPrefix.
type Config struct {
	APIURL          string        `mapstructure:"API_URL"`
	PageSize        int           `mapstructure:"PAGE_SIZE"`
	View            string        `mapstructure:"VIEW"`
	Category        string        `mapstructure:"CATEGORY"`
	Search          string        `mapstructure:"SEARCH"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	SearchDebounce  time.Duration `mapstructure:"SEARCH_DEBOUNCE"`
	Fade            time.Duration `mapstructure:"FADE"`
	RevealThreshold float64       `mapstructure:"REVEAL_THRESHOLD"`
	SpyThreshold    float64       `mapstructure:"SPY_THRESHOLD"`
	LookaheadRows   int           `mapstructure:"LOOKAHEAD_ROWS"`
	ContactURL      string        `mapstructure:"CONTACT_URL"`
	ContactID       string        `mapstructure:"CONTACT_ID"`
	Title           string        `mapstructure:"TITLE"`
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
	LogFile         string        `mapstructure:"LOG_FILE"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		APIURL:          "http://localhost:8000",
		PageSize:        5,
		View:            "feed",
		Category:        "all",
		RequestTimeout:  10 * time.Second,
		SearchDebounce:  500 * time.Millisecond,
		Fade:            300 * time.Millisecond,
		RevealThreshold: 0.1,
		SpyThreshold:    0.5,
		LookaheadRows:   0,
		ContactURL:      "https://vk.com/write",
		ContactID:       "487502463",
		Title:           "Handmade",
		CacheTTL:        5 * time.Minute,
		LogFile:         filepath.Join(os.TempDir(), "vitrina.log"),
	}
}

// Load reads an optional .env file, then overlays VITRINA_* variables on the
// defaults.
func Load() (Config, error) {
	// A missing .env is fine; variables may come from the environment.
	_ = godotenv.Load()
	return FromEnv(os.Environ())
}

// FromEnv decodes VITRINA_* entries of environ ("KEY=value") over Default.
func FromEnv(environ []string) (Config, error) {
	values := map[string]string{}
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		values[strings.TrimPrefix(key, EnvPrefix)] = value
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(values); err != nil {
		return Config{}, fmt.Errorf("invalid %s configuration: %w", EnvPrefix, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.View != "feed" && c.View != "grid" {
		return fmt.Errorf("view must be feed or grid, got %q", c.View)
	}
	if c.RevealThreshold < 0 || c.RevealThreshold > 1 {
		return fmt.Errorf("reveal threshold must be within [0,1], got %v", c.RevealThreshold)
	}
	if c.SpyThreshold < 0 || c.SpyThreshold > 1 {
		return fmt.Errorf("spy threshold must be within [0,1], got %v", c.SpyThreshold)
	}
	if c.LookaheadRows < 0 {
		return fmt.Errorf("lookahead rows must not be negative, got %d", c.LookaheadRows)
	}
	return nil
}
