package config

const (
	defaultGPKGLayer       = ""
	defaultPhotoMarker     = "_pho"
	defaultPathSuffix      = "_chemin"
	defaultDateSuffix      = "_date"
	defaultMinFreeSpaceMiB = 64
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			GPKGLayer: defaultGPKGLayer,
		},
		Columns: Columns{
			PhotoMarker: defaultPhotoMarker,
			PathSuffix:  defaultPathSuffix,
			DateSuffix:  defaultDateSuffix,
		},
		Photos: Photos{
			MinFreeSpaceMiB: defaultMinFreeSpaceMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
