package config

import "time"

// Config holds runtime settings for the BabelX CLI.
//
// Units: RequestTimeout is a time.Duration applied to every remote call.
// Backup is disabled while S3Bucket is empty.
type Config struct {
	TranslateURL   string
	TranscribeURL  string
	SourceLanguage string
	TargetLanguage string

	StorageDriver string
	StoragePath   string

	RequestTimeout time.Duration
	LogLevel       string

	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.TranslateURL = "http://127.0.0.1:5000/translate"
	c.TranscribeURL = "http://127.0.0.1:5000/transcribe"
	c.SourceLanguage = "en"
	c.TargetLanguage = "es"
	c.StorageDriver = "sqlite"
	c.StoragePath = "babelx.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
}

// BackupEnabled reports whether a backup bucket is configured.
func (c *Config) BackupEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
