package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/babelx/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-t string   translate endpoint URL
//	-s string   transcribe endpoint URL
//	-d string   storage driver: sqlite, bolt or memory
//	-p string   storage file path
//	-l string   log level
//	-r int      request timeout in seconds
//
// os.Args is filtered with flagx.FilterArgs so -c/-config and unknown flags
// do not reach this FlagSet.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-t", "-s", "-d", "-p", "-l", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.TranslateURL, "t", cfg.TranslateURL, "translate endpoint URL")
	fs.StringVar(&cfg.TranscribeURL, "s", cfg.TranscribeURL, "transcribe endpoint URL")
	fs.StringVar(&cfg.StorageDriver, "d", cfg.StorageDriver, "storage driver (sqlite|bolt|memory)")
	fs.StringVar(&cfg.StoragePath, "p", cfg.StoragePath, "storage file path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	timeout := fs.Int("r", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// Only an explicit -r replaces a timeout that may carry sub-second precision.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "r" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
