// Package logging provides structured logging for pilightctl.
//
// This package wraps a global zap logger. Logging is silent unless a level is
// given explicitly or through the PILIGHT_LOG_LEVEL environment variable, so
// one-shot CLI output is never interleaved with log lines.
//
// # Log Levels
//
//   - Debug: API requests and responses, store actions
//   - Info: bootstrap, config loads, driver commands
//   - Warn: dropped stale responses, failed requests
//   - Error: failures that abort a command
//
// # Configuration
//
//	if err := logging.InitializeWithOptions(logging.Options{
//	    Level: "debug",
//	    File:  "/tmp/pilightctl.log",
//	}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// The TUI takes over the terminal, so when it runs with logging enabled the
// output must go to a file.
//
// # Specialized Logging
//
//	logging.LogRequest("POST", "/api/config/save/", body)
//	logging.LogResponse("POST", "/api/config/save/", 200, elapsed, respBody)
//	logging.LogAction("SetConfigs", zap.Int("count", 3))
package logging
