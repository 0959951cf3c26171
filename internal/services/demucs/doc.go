// Package demucs wraps the demucs source-separation CLI. The planner uses
// it to isolate vocals from analysis clips so pause detection sees speech
// rather than music or effects.
package demucs
