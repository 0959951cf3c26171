// Package ffprobe wraps the ffprobe binary for duration probing.
package ffprobe
