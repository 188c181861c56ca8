package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Storage and registry
	SourcesDir string `long:"sources-dir" env:"SOURCES_DIR" description:"Directory with national.yml, categories.yml and regions/*.yml (embedded defaults when empty)"`
	DBPath     string `long:"db-path" env:"DB_PATH" default:"./data/news-comb.db" description:"SQLite database file for source health"`

	// Background tasks
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of background workers"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`
	ProbeInterval     int `long:"probe-interval" env:"PROBE_INTERVAL" default:"900" description:"Seconds after which an unchecked source is probed in the background (0 disables probing)"`

	// Feed fetching
	UserAgent        string `long:"user-agent" env:"USER_AGENT" default:"News Comb/1.0" description:"User agent string for HTTP requests"`
	FetchTimeout     int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Per-feed fetch timeout in seconds"`
	FetchConcurrency int    `long:"fetch-concurrency" env:"FETCH_CONCURRENCY" default:"32" description:"Maximum number of feeds fetched at once"`
	MaxItemsPerFeed  int    `long:"max-items-per-feed" env:"MAX_ITEMS_PER_FEED" default:"20" description:"Items taken from each feed"`

	// Classification and annotation
	MinKeywordMatches   int `long:"min-keyword-matches" env:"MIN_KEYWORD_MATCHES" default:"2" description:"Keyword matches required to accept a category"`
	StrongKeywordLength int `long:"strong-keyword-length" env:"STRONG_KEYWORD_LENGTH" default:"10" description:"A single matching keyword longer than this accepts a category"`
	MaxCategories       int `long:"max-categories" env:"MAX_CATEGORIES" default:"3" description:"Maximum categories per article"`
	BreakingWindow      int `long:"breaking-window" env:"BREAKING_WINDOW" default:"15" description:"Minutes after publication an article counts as breaking"`

	// Breaking news stream
	StreamHeartbeat int `long:"stream-heartbeat" env:"STREAM_HEARTBEAT" default:"15" description:"Seconds between stream heartbeats"`
	StreamInterval  int `long:"stream-interval" env:"STREAM_INTERVAL" default:"30" description:"Seconds between breaking news checks on a stream"`
	StreamLifetime  int `long:"stream-lifetime" env:"STREAM_LIFETIME" default:"300" description:"Maximum stream lifetime in seconds"`

	// Generative summaries
	GeminiAPIKey   string `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key (extractive fallback only when empty)"`
	GeminiModel    string `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model name"`
	SummaryTimeout int    `long:"summary-timeout" env:"SUMMARY_TIMEOUT" default:"20" description:"Generative summary timeout in seconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Kolkata)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

func Load() (*Cfg, error) {
	return load(nil)
}

func load(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	var err error
	if args == nil {
		_, err = parser.Parse()
	} else {
		_, err = parser.ParseArgs(args)
	}
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:                raw.Port,
		APIAccessKey:        raw.APIAccessKey,
		SourcesDir:          raw.SourcesDir,
		DBPath:              raw.DBPath,
		WorkerCount:         raw.WorkerCount,
		SchedulerInterval:   seconds(raw.SchedulerInterval),
		ProbeInterval:       seconds(raw.ProbeInterval),
		UserAgent:           raw.UserAgent,
		FetchTimeout:        seconds(raw.FetchTimeout),
		FetchConcurrency:    raw.FetchConcurrency,
		MaxItemsPerFeed:     raw.MaxItemsPerFeed,
		MinKeywordMatches:   raw.MinKeywordMatches,
		StrongKeywordLength: raw.StrongKeywordLength,
		MaxCategories:       raw.MaxCategories,
		BreakingWindow:      time.Duration(raw.BreakingWindow) * time.Minute,
		StreamHeartbeat:     seconds(raw.StreamHeartbeat),
		StreamInterval:      seconds(raw.StreamInterval),
		StreamLifetime:      seconds(raw.StreamLifetime),
		GeminiAPIKey:        raw.GeminiAPIKey,
		GeminiModel:         raw.GeminiModel,
		SummaryTimeout:      seconds(raw.SummaryTimeout),
		Timezone:            raw.Timezone,
		Debug:               raw.Debug,
		Version:             GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	return cfg, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func validate(cfg *Cfg) error {
	positiveFields := map[string]int{
		"worker count":       cfg.WorkerCount,
		"fetch concurrency":  cfg.FetchConcurrency,
		"max items per feed": cfg.MaxItemsPerFeed,
		"max categories":     cfg.MaxCategories,
		"fetch timeout":      int(cfg.FetchTimeout / time.Second),
		"scheduler interval": int(cfg.SchedulerInterval / time.Second),
		"stream heartbeat":   int(cfg.StreamHeartbeat / time.Second),
		"stream interval":    int(cfg.StreamInterval / time.Second),
		"stream lifetime":    int(cfg.StreamLifetime / time.Second),
	}

	for fieldName, fieldValue := range positiveFields {
		if fieldValue <= 0 {
			return fmt.Errorf("%s must be positive", fieldName)
		}
	}

	if cfg.MinKeywordMatches < 1 {
		return fmt.Errorf("min keyword matches must be at least 1")
	}
	if cfg.StrongKeywordLength < 1 {
		return fmt.Errorf("strong keyword length must be at least 1")
	}
	if cfg.BreakingWindow < 0 || cfg.ProbeInterval < 0 {
		return fmt.Errorf("breaking window and probe interval must be non-negative")
	}

	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
