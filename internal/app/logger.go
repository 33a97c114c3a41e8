package app

import "github.com/retroenv/retrogolib/log"

// CreateLogger creates a logger. debug enables debug messages, quiet
// limits output to errors.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
