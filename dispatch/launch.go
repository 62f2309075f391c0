package dispatch

import "log/slog"

// Launcher starts a named task without waiting for it. Task errors are the
// launcher's to report.
type Launcher func(name string, task func() error)

// GoLauncher runs every task on its own goroutine and logs failures.
func GoLauncher(logger *slog.Logger) Launcher {
	return func(name string, task func() error) {
		go runTask(logger, name, task)
	}
}

// SyncLauncher runs tasks inline. Only suitable where blocking the caller is
// acceptable, such as tests and one-shot commands.
func SyncLauncher(logger *slog.Logger) Launcher {
	return func(name string, task func() error) {
		runTask(logger, name, task)
	}
}

func runTask(logger *slog.Logger, name string, task func() error) {
	logger.Debug("Task started", "task", name)
	if err := task(); err != nil {
		logger.Error("Task failed", "task", name, "error", err)
		return
	}
	logger.Debug("Task done", "task", name)
}
