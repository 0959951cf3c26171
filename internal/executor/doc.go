// Package executor turns a finished plan into segment files. Cutting is
// stream copy, segment outcomes are independent, and every run ends with a
// report in the output directory regardless of failures.
package executor
