// Package journal persists execution history in SQLite: one row per run,
// one row per segment attempt. The journal lives next to the plan in the
// output directory and backs the history command.
package journal
