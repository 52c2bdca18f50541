package config

const (
	defaultCNDir              = "cn"
	defaultENDir              = "en"
	defaultOutputDir          = "output"
	defaultTargetDBFS         = -20.0
	defaultFFmpegBinary       = "ffmpeg"
	defaultBitrate            = "192k"
	defaultWorkers            = 1
	maxWorkers                = 64
	defaultFileTimeoutSeconds = 300
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogMaxSizeMB       = 10
	defaultLogMaxBackups      = 3
	defaultFirstLanguage      = "zh"
	defaultSecondLanguage     = "en"
	defaultConfigPath         = "~/.config/pairmerge/config.toml"
	projectConfigName         = "pairmerge.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CNDir:     defaultCNDir,
			ENDir:     defaultENDir,
			OutputDir: defaultOutputDir,
		},
		Loudness: Loudness{
			Enabled:    false,
			TargetDBFS: defaultTargetDBFS,
		},
		Encoder: Encoder{
			FFmpegBinary: defaultFFmpegBinary,
			Bitrate:      defaultBitrate,
		},
		Run: Run{
			Workers:            defaultWorkers,
			FileTimeoutSeconds: defaultFileTimeoutSeconds,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
		},
		Languages: Languages{
			First:  defaultFirstLanguage,
			Second: defaultSecondLanguage,
		},
	}
}
