// Package logging provides the structured subsystem logger used throughout
// the agent: the task executor, the facts orchestrator, and the plugin host
// all log through here so operators get one consistent stream regardless of
// which component is speaking.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stdout)
//	logging.Info("Executor", "applying %d tasks", len(tasks))
//	logging.Error("PluginHost", err, "failed to load plugin %s", name)
//
// Log entries are routed through log/slog; each call names a subsystem
// ("Executor", "Orchestrator", "PluginHost.echoer", ...) so log lines can be
// filtered per component without per-package logger plumbing. Audit records
// security-relevant events (plugin load/rejection) at INFO with an [AUDIT]
// prefix so they remain easy to grep out of the general stream.
package logging
