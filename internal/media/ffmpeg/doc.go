// Package ffmpeg wraps the ffmpeg binary for the two media operations the
// planner needs: extracting bounded audio clips for analysis and cutting
// final segments with stream copy.
package ffmpeg
