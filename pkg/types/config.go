package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "corpus-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// CorpusConfig holds settings for dataset validation and loading.
type CorpusConfig struct {
	// AssetsDir is the flat directory holding one corpus run
	// (`<id>_raw.txt`, `<id>_meta.json` and derived artifacts).
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`
}

// AnnotationBackend identifies the annotation provider.
type AnnotationBackend string

const (
	BackendUDPipe AnnotationBackend = "udpipe"
	BackendStanza AnnotationBackend = "stanza"
)

// AnnotationConfig holds settings for the annotate stage.
type AnnotationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Backend selects the annotation provider: udpipe or stanza.
	Backend AnnotationBackend `json:"backend" yaml:"backend"`

	// Endpoint is the UDPipe REST service URL (udpipe backend only).
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Model is the annotation model identifier passed to the backend
	// (e.g. "russian-syntagrus-ud-2.12").
	Model string `json:"model" yaml:"model"`

	// Token authenticates against a hosted annotation service, if set.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// MaxRetries is the number of retry attempts for rate-limited
	// requests (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// AssetsDir is the corpus directory the stage reads and writes.
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`
}

// PosFreqConfig holds settings for the posfreq stage.
type PosFreqConfig struct {
	// AssetsDir is the corpus directory the stage reads and writes.
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`

	// Visualize controls whether histogram images are rendered.
	Visualize bool `json:"visualize" yaml:"visualize"`
}

// PatternConfig holds settings for the pattern stage.
type PatternConfig struct {
	// AssetsDir is the corpus directory the stage reads.
	AssetsDir string `json:"assets_dir" yaml:"assets_dir"`

	// OutputFile is the JSON artifact path for pattern matches
	// (default `<assets_dir>/pattern_matches.json`).
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// IndexConfig holds settings for the corpus index stage.
type IndexConfig struct {
	// IndexDir is the directory holding the SQLite database and exports.
	IndexDir string `json:"index_dir" yaml:"index_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// VisualizeConfig holds settings for histogram rendering delegation.
type VisualizeConfig struct {
	// Image is the plotter container image piped histogram JSON on stdin.
	Image string `json:"image" yaml:"image"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Corpus     CorpusConfig     `json:"corpus" yaml:"corpus"`
	Annotation AnnotationConfig `json:"annotation" yaml:"annotation"`
	PosFreq    PosFreqConfig    `json:"posfreq" yaml:"posfreq"`
	Pattern    PatternConfig    `json:"pattern" yaml:"pattern"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	Visualize  VisualizeConfig  `json:"visualize" yaml:"visualize"`
}
