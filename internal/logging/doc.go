// Package logging provides structured logging for the ledenet tools.
//
// This package wraps a global zap logger with convenience functions. Logging
// is silent unless a level is requested, either through Initialize or the
// LEDENET_LOG_LEVEL environment variable, so that CLI output is not mixed
// with log lines.
//
// # Log Levels
//
//   - Debug: probe and reply datagrams with hex/ascii dumps, discarded replies
//   - Info: scan start and completion, responder lifecycle
//   - Warn: recoverable problems (unreadable config, ignored datagrams)
//   - Error: failures returned to the user
//
// # Usage
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.Info("Scan complete", zap.Int("devices", len(devices)))
//
// Entries are written to stderr in console format.
package logging
