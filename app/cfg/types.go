package cfg

import "time"

type Cfg struct {
	// Server configuration
	Port         string
	APIAccessKey string

	// Storage and registry
	SourcesDir string
	DBPath     string

	// Background tasks
	WorkerCount       int
	SchedulerInterval time.Duration
	ProbeInterval     time.Duration

	// Feed fetching
	UserAgent        string
	FetchTimeout     time.Duration
	FetchConcurrency int
	MaxItemsPerFeed  int

	// Classification and annotation
	MinKeywordMatches   int
	StrongKeywordLength int
	MaxCategories       int
	BreakingWindow      time.Duration

	// Breaking news stream
	StreamHeartbeat time.Duration
	StreamInterval  time.Duration
	StreamLifetime  time.Duration

	// Generative summaries
	GeminiAPIKey   string
	GeminiModel    string
	SummaryTimeout time.Duration

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
