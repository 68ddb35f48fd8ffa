package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvConfig mirrors Config for environment lookup. Unset variables leave the
// zero value, which parseEnv ignores.
type EnvConfig struct {
	TranslateURL   string        `env:"BABELX_TRANSLATE_URL"`
	TranscribeURL  string        `env:"BABELX_TRANSCRIBE_URL"`
	SourceLanguage string        `env:"BABELX_SOURCE_LANGUAGE"`
	TargetLanguage string        `env:"BABELX_TARGET_LANGUAGE"`
	StorageDriver  string        `env:"BABELX_STORAGE_DRIVER"`
	StoragePath    string        `env:"BABELX_STORAGE_PATH"`
	RequestTimeout time.Duration `env:"BABELX_REQUEST_TIMEOUT"`
	LogLevel       string        `env:"BABELX_LOG_LEVEL"`
	S3Endpoint     string        `env:"BABELX_S3_ENDPOINT"`
	S3Region       string        `env:"BABELX_S3_REGION"`
	S3Bucket       string        `env:"BABELX_S3_BUCKET"`
	S3AccessKey    string        `env:"BABELX_S3_ACCESS_KEY"`
	S3SecretKey    string        `env:"BABELX_S3_SECRET_KEY"`
}

// parseEnv overlays Config with BABELX_* variables. It panics when a value
// cannot be parsed, e.g. a malformed duration.
func parseEnv(cfg *Config) {
	var ec EnvConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		panic(err)
	}

	setString(&cfg.TranslateURL, ec.TranslateURL)
	setString(&cfg.TranscribeURL, ec.TranscribeURL)
	setString(&cfg.SourceLanguage, ec.SourceLanguage)
	setString(&cfg.TargetLanguage, ec.TargetLanguage)
	setString(&cfg.StorageDriver, ec.StorageDriver)
	setString(&cfg.StoragePath, ec.StoragePath)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.S3Endpoint, ec.S3Endpoint)
	setString(&cfg.S3Region, ec.S3Region)
	setString(&cfg.S3Bucket, ec.S3Bucket)
	setString(&cfg.S3AccessKey, ec.S3AccessKey)
	setString(&cfg.S3SecretKey, ec.S3SecretKey)
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
}
