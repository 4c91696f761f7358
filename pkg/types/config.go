package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pbio/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EntrezConfig identifies the caller to NCBI E-utilities. It is built once
// per run and handed to the client; nothing changes it afterwards.
type EntrezConfig struct {
	HTTPConfig `yaml:",inline"`

	// Email is sent with every request, as NCBI requires.
	Email string `json:"email" yaml:"email"`

	// APIKey raises the NCBI rate limit from 3 to 10 requests per second.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Tool names the calling program (default "pbio").
	Tool string `json:"tool" yaml:"tool"`

	// Database is the Entrez database to query (default "nucleotide").
	Database string `json:"database" yaml:"database"`

	// BaseURL overrides the E-utilities root, for mirrors and tests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// RetryConfig controls the batched fetch loop.
type RetryConfig struct {
	// MaxAttempts is the number of full passes over the id list (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// BatchSize is the number of ids per efetch call (default 3).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// Unit is the base wait: attempt k waits 2k units, batches are one unit
	// apart (default 1s).
	Unit time.Duration `json:"unit" yaml:"unit"`
}

// ReportConfig holds the output paths of a retrieval run.
type ReportConfig struct {
	CSVPath     string `json:"csv_path" yaml:"csv_path"`
	ChartPath   string `json:"chart_path" yaml:"chart_path"`
	SummaryPath string `json:"summary_path,omitempty" yaml:"summary_path,omitempty"`

	// ChartWidth and ChartHeight are the PNG size in pixels (default 1000x500).
	ChartWidth  int `json:"chart_width" yaml:"chart_width"`
	ChartHeight int `json:"chart_height" yaml:"chart_height"`
}

// RetrievalConfig groups everything the retrieve command needs.
type RetrievalConfig struct {
	Entrez EntrezConfig `json:"entrez" yaml:"entrez"`
	Retry  RetryConfig  `json:"retry" yaml:"retry"`
	Report ReportConfig `json:"report" yaml:"report"`

	TaxID      string      `json:"taxid" yaml:"taxid"`
	MaxRecords int         `json:"max_records" yaml:"max_records"`
	Range      FilterRange `json:"range" yaml:"range"`
}

// GeneratorConfig holds settings for the sequence generator.
type GeneratorConfig struct {
	// OutputDir is where the FASTA file is written (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Seed seeds the random source. Zero seeds from the clock.
	Seed int64 `json:"seed" yaml:"seed"`
}
