package domain

// Config mirrors ~/.ollamaland/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Preferences         Preferences       `yaml:"preferences"`
	Models              []ModelDefinition `yaml:"models"`
	Cache               CacheSettings     `yaml:"cache"`
	Fetch               FetchSettings     `yaml:"fetch"`
	Analysis            AnalysisSettings  `yaml:"analysis"`
	History             HistorySettings   `yaml:"history"`
	Logging             LoggingSettings   `yaml:"logging"`
}

// Preferences captures user level toggles.
type Preferences struct {
	DefaultModel   string `yaml:"default_model"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// CacheSettings selects the key-value backend and where the two namespaces live.
type CacheSettings struct {
	Backend    string `yaml:"backend"`
	ContentDir string `yaml:"content_dir"`
	ResultDir  string `yaml:"result_dir"`
	BoltPath   string `yaml:"bolt_path"`
}

// FetchSettings controls network retrieval and batch fan-out.
type FetchSettings struct {
	MaxContentSize int    `yaml:"max_content_size"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
	Concurrency    int    `yaml:"concurrency"`
	Timeout        string `yaml:"timeout"`
	Extractor      string `yaml:"extractor"`
	UserAgent      string `yaml:"user_agent"`
}

// AnalysisSettings tunes prompt construction. Prompts overrides the
// built-in template for an analysis kind.
type AnalysisSettings struct {
	ExcerptChars        int               `yaml:"excerpt_chars"`
	CompareExcerptChars int               `yaml:"compare_excerpt_chars"`
	Prompts             map[string]string `yaml:"prompts,omitempty"`
}

// HistorySettings toggles the run history store.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingSettings configures the zap logger.
type LoggingSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Cache backends.
const (
	CacheBackendFile   = "file"
	CacheBackendBolt   = "bolt"
	CacheBackendMemory = "memory"
)

// Extraction strategies.
const (
	ExtractorSelectors   = "selectors"
	ExtractorReadability = "readability"
)
