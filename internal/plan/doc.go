// Package plan defines the persisted planning artifacts and their store.
//
// Two files live in the output directory: cutplan.toml, the finished plan,
// and progress.toml, the per-point checkpoint that makes interrupted runs
// resumable. Both are plain TOML so operators can inspect and diff them.
package plan
