package config

const (
	defaultConfigPath      = "~/.config/blueprints/config.toml"
	defaultBlueprintDir    = "./blueprints"
	defaultDatabasePath    = "./blueprints.db"
	defaultCreator         = "CollinHeist"
	defaultDownloadTimeout = 30
	defaultMaxDownloadMiB  = 50
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BlueprintDir: defaultBlueprintDir,
			DatabasePath: defaultDatabasePath,
		},
		Submission: Submission{
			DefaultCreator:  defaultCreator,
			DownloadTimeout: defaultDownloadTimeout,
			MaxDownloadMiB:  defaultMaxDownloadMiB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
