package config

const (
	defaultDataDir              = "~/.local/share/streambox"
	defaultUploadDir            = "~/.local/share/streambox/uploads"
	defaultLogDir               = "~/.local/share/streambox/logs"
	defaultAPIBind              = "127.0.0.1:7480"
	defaultAnalysisDelaySeconds = 5
	defaultNtfyRequestTimeout   = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultReadHeaderTimeout    = 5
	defaultIdleTimeout          = 60
	defaultShutdownTimeout      = 5
	defaultEventBufferSize      = 16
	defaultMaxUploadMiB         = 2048
	defaultSuspiciousToken      = "bad"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			UploadDir: defaultUploadDir,
			LogDir:    defaultLogDir,
			APIBind:   defaultAPIBind,
		},
		Analysis: Analysis{
			DelaySeconds:     defaultAnalysisDelaySeconds,
			SuspiciousTokens: []string{defaultSuspiciousToken},
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Server: Server{
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ShutdownTimeout:   defaultShutdownTimeout,
			EventBufferSize:   defaultEventBufferSize,
			MaxUploadMiB:      defaultMaxUploadMiB,
		},
	}
}
