// Package logging assembles structured slog loggers used across trakt2letterboxd.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context helpers that tag every line of one invocation with a
// run id. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so new components
// emit data with the same shape as the rest of the tool.
package logging
