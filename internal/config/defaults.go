package config

const (
	defaultRcloneBinary     = "rclone"
	defaultFzfBinary        = "fzf"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultCaffeinateBinary = "caffeinate"
	defaultAssetsDir        = "~/audio-vault-assets"
	defaultTargetLUFS       = -16.3
	defaultTruePeak         = -2.6
	defaultLoudnessRange    = 5.0
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			Rclone:     defaultRcloneBinary,
			Fzf:        defaultFzfBinary,
			FFmpeg:     defaultFFmpegBinary,
			FFprobe:    defaultFFprobeBinary,
			Caffeinate: defaultCaffeinateBinary,
		},
		Mastering: Mastering{
			AssetsDir:     defaultAssetsDir,
			TargetLUFS:    defaultTargetLUFS,
			TruePeak:      defaultTruePeak,
			LoudnessRange: defaultLoudnessRange,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
