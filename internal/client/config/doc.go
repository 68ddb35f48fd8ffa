// Package config loads runtime configuration for the BabelX CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. BABELX_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-t string   translate endpoint URL
//	-s string   transcribe endpoint URL
//	-d string   storage driver (sqlite|bolt|memory)
//	-p string   storage file path
//	-l string   log level
//	-r int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "translate_url": "http://127.0.0.1:5000/translate",
//	  "transcribe_url": "http://127.0.0.1:5000/transcribe",
//	  "source_language": "en",
//	  "target_language": "es",
//	  "storage_driver": "sqlite",
//	  "storage_path": "babelx.db",
//	  "request_timeout": "15s",
//	  "log_level": "info",
//	  "s3_bucket": "babelx-backups"
//	}
package config
