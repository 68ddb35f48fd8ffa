package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/babelx/internal/flagx"
	"github.com/dmitrijs2005/babelx/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify the timeout either as a
// string like "15s" or as integer nanoseconds. Absent fields leave the
// current value alone.
type JsonConfig struct {
	TranslateURL   string         `json:"translate_url"`
	TranscribeURL  string         `json:"transcribe_url"`
	SourceLanguage string         `json:"source_language"`
	TargetLanguage string         `json:"target_language"`
	StorageDriver  string         `json:"storage_driver"`
	StoragePath    string         `json:"storage_path"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
	S3Endpoint     string         `json:"s3_endpoint"`
	S3Region       string         `json:"s3_region"`
	S3Bucket       string         `json:"s3_bucket"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.TranslateURL, jc.TranslateURL)
	setString(&cfg.TranscribeURL, jc.TranscribeURL)
	setString(&cfg.SourceLanguage, jc.SourceLanguage)
	setString(&cfg.TargetLanguage, jc.TargetLanguage)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
