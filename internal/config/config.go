package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/viajeia/viajeia/internal/budget"
)

type OpenAIConfig struct {
	Endpoint          string  `toml:"endpoint"`
	Model             string  `toml:"model"`
	MaxResponseTokens int     `toml:"max_response_tokens"`
	ReservedOverhead  int     `toml:"reserved_overhead"`
	Temperature       float64 `toml:"temperature"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	ConcurrencyLimit  int     `toml:"concurrency_limit"`

	// APIKey comes from the environment, never from the config file.
	APIKey string `toml:"-"`
}

type ValidationConfig struct {
	MinQuestionLength int `toml:"min_question_length"`
	MaxQuestionLength int `toml:"max_question_length"`
}

type WeatherConfig struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	APIKey         string `toml:"-"`
}

type ExchangeConfig struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	APIKey         string `toml:"-"`
}

type PhotosConfig struct {
	Endpoint       string `toml:"endpoint"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxPhotos      int    `toml:"max_photos"`
	APIKey         string `toml:"-"`
}

type RateLimitConfig struct {
	PlanPerMinute  int `toml:"plan_per_minute"`
	StatsPerMinute int `toml:"stats_per_minute"`
}

type DebugConfig struct {
	LogRequests   bool   `toml:"log_requests"`
	LogResponses  bool   `toml:"log_responses"`
	LogDirectory  string `toml:"log_directory"`
	ValidateRoles bool   `toml:"validate_roles"`
}

type Config struct {
	Bind       string           `toml:"bind"`
	DataDir    string           `toml:"data_dir"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Validation ValidationConfig `toml:"validation"`
	Weather    WeatherConfig    `toml:"weather"`
	Exchange   ExchangeConfig   `toml:"exchange"`
	Photos     PhotosConfig     `toml:"photos"`
	RateLimit  RateLimitConfig  `toml:"rate_limit"`
	Debug      DebugConfig      `toml:"debug"`
}

func Default() Config {
	defaultDataDir := defaultDataDir()
	return Config{
		Bind:    ":8000",
		DataDir: defaultDataDir,
		OpenAI: OpenAIConfig{
			Endpoint:          "https://api.openai.com",
			Model:             "gpt-3.5-turbo",
			MaxResponseTokens: 1500,
			ReservedOverhead:  500,
			Temperature:       0.8,
			TimeoutSeconds:    60,
			ConcurrencyLimit:  8,
		},
		Validation: ValidationConfig{
			MinQuestionLength: 10,
			MaxQuestionLength: 500,
		},
		Weather: WeatherConfig{
			Endpoint:       "https://api.openweathermap.org",
			TimeoutSeconds: 10,
		},
		Exchange: ExchangeConfig{
			Endpoint:       "https://open.er-api.com",
			TimeoutSeconds: 10,
		},
		Photos: PhotosConfig{
			Endpoint:       "https://api.unsplash.com",
			TimeoutSeconds: 10,
			MaxPhotos:      3,
		},
		RateLimit: RateLimitConfig{
			PlanPerMinute:  10,
			StatsPerMinute: 30,
		},
		Debug: DebugConfig{
			LogRequests:   false,
			LogResponses:  false,
			LogDirectory:  filepath.Join(defaultDataDir, "debug"),
			ValidateRoles: true,
		},
	}
}

// LoadOrCreate reads the config at path, writing the default file first if it
// does not exist yet. Secrets are filled in from the environment afterwards.
func LoadOrCreate(path string) (Config, error) {
	config := Default()

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return config, err
			}

			configData, err := toml.Marshal(config)
			if err != nil {
				return config, err
			}

			if err := os.WriteFile(path, configData, 0o644); err != nil {
				return config, err
			}

			return loadSecrets(config), nil
		}

		return config, err
	}

	configData, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if err := toml.Unmarshal(configData, &config); err != nil {
		return config, err
	}

	config.DataDir = expandPath(config.DataDir)
	config.Bind = strings.TrimSpace(config.Bind)

	if config.Bind == "" {
		config.Bind = ":8000"
	}

	return loadSecrets(config), nil
}

// Validate rejects configurations that would fail on the first request:
// a missing model credential or an unusable token budget must surface at
// startup, not mid-conversation.
func Validate(cfg Config) error {
	if cfg.OpenAI.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}

	if cfg.OpenAI.Model == "" {
		return errors.New("openai.model is required")
	}

	if cfg.OpenAI.MaxResponseTokens <= 0 {
		return fmt.Errorf("openai.max_response_tokens must be positive, got %d", cfg.OpenAI.MaxResponseTokens)
	}

	if err := budget.ValidateRequest(cfg.OpenAI.Model, cfg.OpenAI.MaxResponseTokens, nil); err != nil {
		return fmt.Errorf("openai: %w", err)
	}

	if cfg.Validation.MinQuestionLength <= 0 {
		return fmt.Errorf("validation.min_question_length must be positive, got %d", cfg.Validation.MinQuestionLength)
	}

	if cfg.Validation.MaxQuestionLength < cfg.Validation.MinQuestionLength {
		return fmt.Errorf("validation.max_question_length (%d) is below the minimum (%d)",
			cfg.Validation.MaxQuestionLength, cfg.Validation.MinQuestionLength)
	}

	return nil
}

func loadSecrets(cfg Config) Config {
	cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Weather.APIKey = os.Getenv("WEATHER_API_KEY")
	cfg.Exchange.APIKey = os.Getenv("EXCHANGE_API_KEY")
	cfg.Photos.APIKey = os.Getenv("PHOTOS_API_KEY")
	return cfg
}

func defaultDataDir() string {
	homeDir, _ := os.UserHomeDir()

	if homeDir == "" {
		return ".viajeia"
	}

	return filepath.Join(homeDir, ".viajeia")
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}

	if strings.HasPrefix(path, "~") {
		homeDir, _ := os.UserHomeDir()

		if homeDir != "" {
			trimmed := strings.TrimPrefix(path, "~")
			trimmed = strings.TrimPrefix(trimmed, string(os.PathSeparator))

			return filepath.Join(homeDir, trimmed)
		}
	}

	return path
}
