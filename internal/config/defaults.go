package config

const (
	defaultOutputDir             = "~/.local/share/cleave/output"
	defaultWorkDir               = "~/.local/share/cleave/work"
	defaultFFmpegBinary          = "ffmpeg"
	defaultFFprobeBinary         = "ffprobe"
	defaultDemucsBinary          = "demucs"
	defaultIntervalMinutes       = 30
	defaultTailGuardSeconds      = 60
	defaultFallbackOffsetSeconds = 30
	defaultMinTailSeconds        = 30
	defaultMinGapSeconds         = 1
	defaultSeparationModel       = "htdemucs"
	defaultSeparationTimeout     = 300
	defaultProbeTimeout          = 30
	defaultDetectTimeout         = 30
	defaultExtractTimeout        = 600
	defaultCutTimeout            = 600
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultSearchRadii() []int {
	return []int{15, 30, 60, 120, 300}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			Demucs:  defaultDemucsBinary,
		},
		Segmentation: Segmentation{
			IntervalMinutes:       defaultIntervalMinutes,
			TailGuardSeconds:      defaultTailGuardSeconds,
			FallbackOffsetSeconds: defaultFallbackOffsetSeconds,
			MinTailSeconds:        defaultMinTailSeconds,
			MinGapSeconds:         defaultMinGapSeconds,
			SearchRadiiSeconds:    defaultSearchRadii(),
		},
		Separation: Separation{
			Enabled:        true,
			Model:          defaultSeparationModel,
			TimeoutSeconds: defaultSeparationTimeout,
		},
		Timeouts: Timeouts{
			ProbeSeconds:   defaultProbeTimeout,
			DetectSeconds:  defaultDetectTimeout,
			ExtractSeconds: defaultExtractTimeout,
			CutSeconds:     defaultCutTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
