package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Storage     StorageConfig   `toml:"storage"`
	Logging     LoggingConfig   `toml:"logging"`
	Search      SearchConfig    `toml:"search"`
	Sources     SourcesConfig   `toml:"sources"`
	LLM         LLMConfig       `toml:"llm"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	SQLite SQLiteConfig `toml:"sqlite"`
}

// SQLiteConfig represents SQLite-specific configuration
type SQLiteConfig struct {
	Path string `toml:"path"` // Database file path
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs (default: "15:04:05")
}

// SearchConfig contains global search and adapter tuning
type SearchConfig struct {
	MaxResultsPerSource int           `toml:"max_results_per_source"` // Per-adapter cap on jobs returned
	Workers             int           `toml:"workers"`                // Concurrent source fetches per search
	RequestTimeout      time.Duration `toml:"request_timeout"`        // HTTP request timeout
	RateLimitDelay      time.Duration `toml:"rate_limit_delay"`       // Minimum delay between requests to one provider
	DefaultKeywords     []string      `toml:"default_keywords"`       // Used when a search has no keywords
}

// SourcesConfig carries per-provider credentials and tuning.
// Keys may also come from the conventional environment variables
// (ADZUNA_APP_ID, REED_API_KEY, ...) which override these values.
type SourcesConfig struct {
	Adzuna    AdzunaConfig    `toml:"adzuna"`
	Reed      KeyConfig       `toml:"reed"`
	USAJobs   USAJobsConfig   `toml:"usajobs"`
	Jooble    KeyConfig       `toml:"jooble"`
	SerpAPI   KeyConfig       `toml:"serpapi"`
	Findwork  KeyConfig       `toml:"findwork"`
	CareerJet CareerJetConfig `toml:"careerjet"`
	JobData   JobDataConfig   `toml:"jobdata"`
	Greenhouse BoardConfig    `toml:"greenhouse"`
	Lever      BoardConfig    `toml:"lever"`
	Ashby      BoardConfig    `toml:"ashby"`
	Workable   BoardConfig    `toml:"workable"`
	LinkedIn   LinkedInConfig `toml:"linkedin"`
}

type KeyConfig struct {
	APIKey string `toml:"api_key"`
}

type AdzunaConfig struct {
	AppID   string   `toml:"app_id"`
	AppKey  string   `toml:"app_key"`
	Country string   `toml:"country"` // Adzuna country path segment (default: "gb")
}

type USAJobsConfig struct {
	APIKey string `toml:"api_key"`
	Email  string `toml:"email"` // Sent as User-Agent per the USAJobs API contract
}

type CareerJetConfig struct {
	AffID string `toml:"affid"`
}

type JobDataConfig struct {
	APIKey    string   `toml:"api_key"`
	Countries []string `toml:"countries"` // ISO country codes (default: US, GB)
}

// BoardConfig lists ATS board tokens to poll (one request per board)
type BoardConfig struct {
	Boards []string `toml:"boards"`
}

// LinkedInConfig tunes the direct LinkedIn scraper
type LinkedInConfig struct {
	Delay          time.Duration `toml:"delay"`           // Delay between pagination requests
	Locations      []string      `toml:"locations"`       // Locations searched when the query has none
	UseBrowser     bool          `toml:"use_browser"`     // Drive a real browser instead of the guest API
	BrowserHeaded  bool          `toml:"browser_headed"`  // Show the browser window (login runs)
	BrowserProfile string        `toml:"browser_profile"` // Persistent profile directory for authenticated scraping
	CardDelay      time.Duration `toml:"card_delay"`      // Delay between job-card clicks in browser mode
}

// LLMConfig contains configuration for all analysis providers
type LLMConfig struct {
	Ollama      OllamaConfig    `toml:"ollama"`
	OpenWebUI   OpenWebUIConfig `toml:"open_webui"`
	OpenAI      KeyConfig       `toml:"openai"`
	Anthropic   KeyConfig       `toml:"anthropic"`
	Google      KeyConfig       `toml:"google"`
	CloudModels []string        `toml:"cloud_models"` // Curated cloud model IDs offered in the UI
	Timeout     time.Duration   `toml:"timeout"`      // Per-call provider timeout
	RequestLog  string          `toml:"request_log"`  // Append-only raw request log
	ResponseLog string          `toml:"response_log"` // Append-only raw response log
}

type OllamaConfig struct {
	BaseURL string `toml:"base_url"`
}

type OpenWebUIConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// SchedulerConfig controls the saved-search cron runner
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule format
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in venari.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			SQLite: SQLiteConfig{
				Path: "./data/venari.db",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout", "file"},
			TimeFormat: "15:04:05",
		},
		Search: SearchConfig{
			MaxResultsPerSource: 1000,
			Workers:             4,
			RequestTimeout:      30 * time.Second,
			RateLimitDelay:      time.Second,
			DefaultKeywords:     []string{"software engineer", "developer"},
		},
		Sources: SourcesConfig{
			Adzuna:  AdzunaConfig{Country: "gb"},
			JobData: JobDataConfig{Countries: []string{"US", "GB"}},
			LinkedIn: LinkedInConfig{
				Delay:     5 * time.Second,
				Locations: []string{"United States", "United Kingdom"},
				CardDelay: time.Second,
			},
		},
		LLM: LLMConfig{
			Ollama:    OllamaConfig{BaseURL: "http://localhost:11434"},
			OpenWebUI: OpenWebUIConfig{BaseURL: "http://localhost:8080"},
			CloudModels: []string{
				"gpt-4o-mini",
				"gpt-4o",
				"claude-3-5-haiku-latest",
				"claude-sonnet-4-5",
				"gemini-2.0-flash",
			},
			Timeout:     300 * time.Second,
			RequestLog:  "logs/llm_requests.log",
			ResponseLog: "logs/llm_responses.log",
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "0 7 * * *",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env -> CLI.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VENARI_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("VENARI_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VENARI_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if path := os.Getenv("VENARI_SQLITE_PATH"); path != "" {
		config.Storage.SQLite.Path = path
	}

	// Logging configuration
	if level := os.Getenv("VENARI_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VENARI_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Search tuning
	if v := os.Getenv("MAX_RESULTS_PER_SOURCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Search.MaxResultsPerSource = n
		}
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Search.RequestTimeout = time.Duration(n) * time.Second
		}
	}
	if v := os.Getenv("RATE_LIMIT_DELAY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			config.Search.RateLimitDelay = time.Duration(f * float64(time.Second))
		}
	}

	// Source credentials (conventional env names override config values)
	setIfEnv(&config.Sources.Adzuna.AppID, "ADZUNA_APP_ID")
	setIfEnv(&config.Sources.Adzuna.AppKey, "ADZUNA_APP_KEY")
	setIfEnv(&config.Sources.Reed.APIKey, "REED_API_KEY")
	setIfEnv(&config.Sources.USAJobs.APIKey, "USAJOBS_API_KEY")
	setIfEnv(&config.Sources.USAJobs.Email, "USAJOBS_EMAIL")
	setIfEnv(&config.Sources.Jooble.APIKey, "JOOBLE_API_KEY")
	setIfEnv(&config.Sources.SerpAPI.APIKey, "SERPAPI_KEY")
	setIfEnv(&config.Sources.Findwork.APIKey, "FINDWORK_API_KEY")
	setIfEnv(&config.Sources.CareerJet.AffID, "CAREERJET_AFFID")
	setIfEnv(&config.Sources.JobData.APIKey, "JOBDATA_API_KEY")
	if v := os.Getenv("JOBDATA_COUNTRIES"); v != "" {
		config.Sources.JobData.Countries = splitCSV(v)
	}
	if v := os.Getenv("GREENHOUSE_BOARD_TOKENS"); v != "" {
		config.Sources.Greenhouse.Boards = splitCSV(v)
	}
	if v := os.Getenv("LEVER_BOARD_TOKENS"); v != "" {
		config.Sources.Lever.Boards = splitCSV(v)
	}
	if v := os.Getenv("ASHBY_BOARD_TOKENS"); v != "" {
		config.Sources.Ashby.Boards = splitCSV(v)
	}
	if v := os.Getenv("WORKABLE_BOARD_TOKENS"); v != "" {
		config.Sources.Workable.Boards = splitCSV(v)
	}
	if v := os.Getenv("LINKEDIN_DIRECT_LOCATIONS"); v != "" {
		config.Sources.LinkedIn.Locations = splitCSV(v)
	}
	if v := os.Getenv("LINKEDIN_DIRECT_DELAY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			config.Sources.LinkedIn.Delay = time.Duration(f * float64(time.Second))
		}
	}
	if v := os.Getenv("LINKEDIN_DIRECT_USE_BROWSER"); v != "" {
		config.Sources.LinkedIn.UseBrowser = isTruthy(v)
	}
	if v := os.Getenv("LINKEDIN_DIRECT_BROWSER_HEADED"); v != "" {
		config.Sources.LinkedIn.BrowserHeaded = isTruthy(v)
	}
	setIfEnv(&config.Sources.LinkedIn.BrowserProfile, "LINKEDIN_DIRECT_BROWSER_PROFILE")

	// LLM providers
	setIfEnv(&config.LLM.Ollama.BaseURL, "OLLAMA_BASE_URL")
	setIfEnv(&config.LLM.OpenWebUI.BaseURL, "OPEN_WEBUI_BASE_URL")
	setIfEnv(&config.LLM.OpenWebUI.APIKey, "OPEN_WEBUI_API_KEY")
	setIfEnv(&config.LLM.OpenAI.APIKey, "OPENAI_API_KEY")
	setIfEnv(&config.LLM.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setIfEnv(&config.LLM.Google.APIKey, "GOOGLE_AI_API_KEY")
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsProduction returns true when running with a production environment setting
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func splitCSV(s string) []string {
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
