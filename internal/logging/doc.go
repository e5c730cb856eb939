// Package logging provides structured logging for the smartconfig CLI.
//
// This package wraps a zap logger with convenience functions for the logging
// patterns used by the commands. The provisioning engine takes a *zap.Logger
// directly; commands pass GetLogger() so the whole process shares one sink.
//
// # Log Levels
//
//   - Debug: per-group sends, discarded datagrams, hex dumps
//   - Info: attempt start, phase changes, acknowledgments
//   - Warn: non-fatal issues (registry write failures, discovery misses)
//   - Error: failed attempts
//
// # Configuration
//
// Logging is silent unless a level is requested, so CLI output stays clean:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// SMARTCONFIG_LOG_LEVEL selects the level. Logs go to stderr in console
// format so they never mix with JSON written to stdout:
//
//	2025-11-25T10:30:45.123-0800  INFO  Provisioning attempt started
//	  ssid=HomeNet  bssid=aa:bb:cc:dd:ee:ff  ip=192.168.1.10
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
