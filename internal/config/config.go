package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Detector strategy names
	DetectorDelimiter = "delimiter"
	DetectorStyle     = "style"

	// Default values
	DefaultModel      = "gemini-1.5-flash"
	DefaultTimeout    = 120 * time.Second
	DefaultMaxRetries = 2
	DefaultBackoff    = 2 * time.Second
	DefaultLogLevel   = "info"
	DefaultDetector   = DetectorDelimiter
)

// Config holds all configuration for the docfill CLI. The API key is a
// secret: it comes from the environment only, is handed to the extraction
// client per invocation, and is never printed or logged.
type Config struct {
	// Input and output paths
	TemplatePath string
	PDFPath      string
	OutPath      string
	ReportPath   string

	// Extraction service
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration

	// Placeholder detection
	Detector   string
	Delimiters [2]string

	// Application
	LogLevel string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model:      DefaultModel,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		Backoff:    DefaultBackoff,
		Detector:   DefaultDetector,
		Delimiters: [2]string{"{{", "}}"},
		LogLevel:   DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("DOCFILL")
	viper.AutomaticEnv()

	viper.SetDefault("model", cfg.Model)
	viper.SetDefault("timeout", cfg.Timeout)
	viper.SetDefault("retries", cfg.MaxRetries)
	viper.SetDefault("backoff", cfg.Backoff)
	viper.SetDefault("detector", cfg.Detector)
	viper.SetDefault("delim_left", cfg.Delimiters[0])
	viper.SetDefault("delim_right", cfg.Delimiters[1])
	viper.SetDefault("loglevel", cfg.LogLevel)
}

func defineCommandLineFlags(cfg *Config) {
	pflag.String("template", "", "Template document to fill (.docx or plain text)")
	pflag.String("pdf", "", "Source PDF to extract fields from")
	pflag.String("out", "", "Path for the filled output document")
	pflag.String("report", "", "Optional path for an XLSX run report")
	pflag.String("model", cfg.Model, "Extraction model name")
	pflag.Duration("timeout", cfg.Timeout, "Overall extraction timeout")
	pflag.Int("retries", cfg.MaxRetries, "Retries for transient extraction failures")
	pflag.Duration("backoff", cfg.Backoff, "Initial retry backoff (doubles per attempt)")
	pflag.String("detector", cfg.Detector, "Placeholder detection strategy: 'delimiter' or 'style'")
	pflag.String("delim-left", cfg.Delimiters[0], "Opening placeholder delimiter (delimiter detector)")
	pflag.String("delim-right", cfg.Delimiters[1], "Closing placeholder delimiter (delimiter detector)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
}

func bindFlagsToViper() {
	_ = viper.BindPFlag("template", pflag.Lookup("template"))
	_ = viper.BindPFlag("pdf", pflag.Lookup("pdf"))
	_ = viper.BindPFlag("out", pflag.Lookup("out"))
	_ = viper.BindPFlag("report", pflag.Lookup("report"))
	_ = viper.BindPFlag("model", pflag.Lookup("model"))
	_ = viper.BindPFlag("timeout", pflag.Lookup("timeout"))
	_ = viper.BindPFlag("retries", pflag.Lookup("retries"))
	_ = viper.BindPFlag("backoff", pflag.Lookup("backoff"))
	_ = viper.BindPFlag("detector", pflag.Lookup("detector"))
	_ = viper.BindPFlag("delim_left", pflag.Lookup("delim-left"))
	_ = viper.BindPFlag("delim_right", pflag.Lookup("delim-right"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
}

func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s --template FILE --pdf FILE --out FILE [--report FILE] [options]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\ndocfill - fill template placeholders with fields extracted from a PDF\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DOCFILL_API_KEY     Extraction service credential (required)\n")
		fmt.Fprintf(os.Stderr, "  DOCFILL_MODEL       Extraction model name\n")
		fmt.Fprintf(os.Stderr, "  DOCFILL_DETECTOR    Placeholder detection strategy\n")
		fmt.Fprintf(os.Stderr, "  DOCFILL_LOGLEVEL    Log level\n")
	}
}

func populateConfigFromViper(cfg *Config) {
	cfg.TemplatePath = viper.GetString("template")
	cfg.PDFPath = viper.GetString("pdf")
	cfg.OutPath = viper.GetString("out")
	cfg.ReportPath = viper.GetString("report")
	cfg.APIKey = viper.GetString("api_key")
	cfg.Model = viper.GetString("model")
	cfg.Timeout = viper.GetDuration("timeout")
	cfg.MaxRetries = viper.GetInt("retries")
	cfg.Backoff = viper.GetDuration("backoff")
	cfg.Detector = viper.GetString("detector")
	cfg.Delimiters[0] = viper.GetString("delim_left")
	cfg.Delimiters[1] = viper.GetString("delim_right")
	cfg.LogLevel = viper.GetString("loglevel")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.TemplatePath == "" {
		return errors.New("--template is required")
	}
	if c.PDFPath == "" {
		return errors.New("--pdf is required")
	}
	if c.OutPath == "" {
		return errors.New("--out is required")
	}
	if c.APIKey == "" {
		return errors.New("DOCFILL_API_KEY must be set")
	}
	if c.Model == "" {
		return errors.New("model cannot be empty")
	}
	if c.Detector != DetectorDelimiter && c.Detector != DetectorStyle {
		return fmt.Errorf("detector must be either %q or %q", DetectorDelimiter, DetectorStyle)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("retries cannot be negative")
	}
	if c.Delimiters[0] == "" || c.Delimiters[1] == "" {
		return errors.New("delimiters cannot be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration. The API key
// is redacted.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Model: %s, Detector: %s, Timeout: %s, MaxRetries: %d, LogLevel: %s, APIKey: <redacted>}",
		c.Model, c.Detector, c.Timeout, c.MaxRetries, c.LogLevel)
}
