// Package logging builds slog loggers for the planner CLI.
//
// Two output formats are supported: a compact console format for
// interactive use and JSON for machine consumption. Components receive
// child loggers tagged with a component attribute instead of sharing a
// process-wide logger.
package logging
