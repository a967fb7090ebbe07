package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendSQL    = "sql"
	BackendRedis  = "redis"
	BackendMemory = "memory"

	minSecretKeyLength = 32
)

var insecureSecretKeys = []string{
	"change_me_in_production",
	"replace_with_at_least_32_random_characters",
	"secret",
}

var (
	ErrMissingSecretKey  = errors.New("secret_key is required (set SECRET_KEY)")
	ErrInsecureSecretKey = errors.New("secret_key uses an insecure placeholder")
	ErrShortSecretKey    = fmt.Errorf("secret_key must be at least %d characters", minSecretKeyLength)
)

type Config struct {
	Port            string `yaml:"port"`
	TZ              string `yaml:"tz"`
	DefaultLanguage string `yaml:"default_language"`
	LogMode         string `yaml:"log_mode"`
	SecretKey       string `yaml:"secret_key"`
	CookieSecure    bool   `yaml:"cookie_secure"`

	DBDriver       string `yaml:"db_driver"`
	DBPath         string `yaml:"db_path"`
	DatabaseURL    string `yaml:"database_url"`
	StorageBackend string `yaml:"storage_backend"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`

	GCSBucket           string `yaml:"gcs_bucket"`
	GCSPublicBaseURL    string `yaml:"gcs_public_base_url"`
	DocumentAIProject   string `yaml:"documentai_project"`
	DocumentAILocation  string `yaml:"documentai_location"`
	DocumentAIProcessor string `yaml:"documentai_processor"`
	GenAIAPIKey         string `yaml:"genai_api_key"`
	GenAIModel          string `yaml:"genai_model"`

	RetryDelay        time.Duration `yaml:"retry_delay"`
	WearablePairDelay time.Duration `yaml:"wearable_pair_delay"`
}

func Default() Config {
	return Config{
		Port:               "8080",
		TZ:                 "UTC",
		DefaultLanguage:    "en",
		LogMode:            "dev",
		DBDriver:           "sqlite",
		DBPath:             filepath.Join("data", "lunara.db"),
		StorageBackend:     BackendSQL,
		DocumentAILocation: "us",
		GenAIModel:         "gemini-2.0-flash",
		RetryDelay:         2 * time.Second,
		WearablePairDelay:  2 * time.Second,
	}
}

// Load applies defaults, then the YAML file at path (a missing file is not an
// error), then environment overrides. It does not validate.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	textValues := map[string]*string{
		"PORT":                 &c.Port,
		"TZ":                   &c.TZ,
		"DEFAULT_LANGUAGE":     &c.DefaultLanguage,
		"LOG_MODE":             &c.LogMode,
		"SECRET_KEY":           &c.SecretKey,
		"DB_DRIVER":            &c.DBDriver,
		"DB_PATH":              &c.DBPath,
		"DATABASE_URL":         &c.DatabaseURL,
		"STORAGE_BACKEND":      &c.StorageBackend,
		"REDIS_ADDR":           &c.RedisAddr,
		"REDIS_PASSWORD":       &c.RedisPassword,
		"GCS_BUCKET":           &c.GCSBucket,
		"GCS_PUBLIC_BASE_URL":  &c.GCSPublicBaseURL,
		"DOCUMENTAI_PROJECT":   &c.DocumentAIProject,
		"DOCUMENTAI_LOCATION":  &c.DocumentAILocation,
		"DOCUMENTAI_PROCESSOR": &c.DocumentAIProcessor,
		"GEMINI_API_KEY":       &c.GenAIAPIKey,
		"GENAI_MODEL":          &c.GenAIModel,
	}
	for key, target := range textValues {
		if value, ok := lookupEnv(key); ok {
			*target = value
		}
	}

	if value, ok := lookupEnv("COOKIE_SECURE"); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid COOKIE_SECURE %q: %w", value, err)
		}
		c.CookieSecure = parsed
	}

	durations := map[string]*time.Duration{
		"RETRY_DELAY":         &c.RetryDelay,
		"WEARABLE_PAIR_DELAY": &c.WearablePairDelay,
	}
	for key, target := range durations {
		value, ok := lookupEnv(key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		*target = parsed
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	value := strings.TrimSpace(os.Getenv(key))
	return value, value != ""
}

func (c Config) Validate() error {
	if err := ValidateSecretKey(c.SecretKey); err != nil {
		return err
	}

	switch c.StorageBackend {
	case BackendSQL:
		switch c.DBDriver {
		case "sqlite":
			if strings.TrimSpace(c.DBPath) == "" {
				return errors.New("db_path is required for the sqlite driver")
			}
		case "postgres":
			if strings.TrimSpace(c.DatabaseURL) == "" {
				return errors.New("database_url is required for the postgres driver")
			}
		default:
			return fmt.Errorf("invalid db_driver: %s (valid: sqlite, postgres)", c.DBDriver)
		}
	case BackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return errors.New("redis_addr is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("invalid storage_backend: %s (valid: sql, redis, memory)", c.StorageBackend)
	}

	if !slices.Contains([]string{"dev", "prod"}, c.LogMode) {
		return fmt.Errorf("invalid log_mode: %s (valid: dev, prod)", c.LogMode)
	}
	if c.RetryDelay < 0 || c.WearablePairDelay < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}

// ValidateSecretKey rejects keys that would make session tokens forgeable.
func ValidateSecretKey(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrMissingSecretKey
	}
	if slices.Contains(insecureSecretKeys, strings.ToLower(secret)) {
		return ErrInsecureSecretKey
	}
	if len(secret) < minSecretKeyLength {
		return ErrShortSecretKey
	}
	return nil
}

// Location falls back to UTC for an unknown zone name.
func (c Config) Location() (*time.Location, error) {
	location, err := time.LoadLocation(strings.TrimSpace(c.TZ))
	if err != nil {
		return time.UTC, fmt.Errorf("invalid TZ %q, falling back to UTC", c.TZ)
	}
	return location, nil
}

func (c Config) ReportsEnabled() bool {
	return strings.TrimSpace(c.GCSBucket) != "" &&
		strings.TrimSpace(c.DocumentAIProject) != "" &&
		strings.TrimSpace(c.DocumentAIProcessor) != "" &&
		strings.TrimSpace(c.GenAIAPIKey) != ""
}
