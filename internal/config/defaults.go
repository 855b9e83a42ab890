package config

const (
	defaultStateDir               = "~/.local/share/framegate"
	defaultAPIBind                = "127.0.0.1:7414"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultTranscodeBinary        = "opj_decompress"
	defaultTranscodeTimeout       = 60
	defaultPresignExpirySeconds   = 3600
	defaultMetadataConnectTimeout = 10
	defaultMetadataReadTimeout    = 30
	defaultFrameConnectTimeout    = 30
	defaultFrameReadTimeout       = 60
	defaultRetryMaxAttempts       = 3
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		ObjectStore: ObjectStore{
			PresignExpirySeconds: defaultPresignExpirySeconds,
		},
		Server: Server{
			APIBind: defaultAPIBind,
		},
		Transcode: Transcode{
			Enabled:        true,
			Binary:         defaultTranscodeBinary,
			TimeoutSeconds: defaultTranscodeTimeout,
		},
		Ingest: Ingest{
			StateDir: defaultStateDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Timeouts: Timeouts{
			MetadataConnect:  defaultMetadataConnectTimeout,
			MetadataRead:     defaultMetadataReadTimeout,
			FrameConnect:     defaultFrameConnectTimeout,
			FrameRead:        defaultFrameReadTimeout,
			RetryMaxAttempts: defaultRetryMaxAttempts,
		},
	}
}
