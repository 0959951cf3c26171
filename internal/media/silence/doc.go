// Package silence is the pause detector adapter. It runs ffmpeg's
// silencedetect filter over an audio clip and converts the filter's log
// lines into typed intervals. No other package inspects raw tool output.
package silence
