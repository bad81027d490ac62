package utils

const (
	// ConfigFileName is the project-local configuration file.
	ConfigFileName = ".autoreadme.yaml"
	// GlobalConfigDirectoryName is the directory under the user's home holding global configuration.
	GlobalConfigDirectoryName = ".autoreadme"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"
	// LegacyConfigFileName is the JSON configuration written by earlier releases.
	LegacyConfigFileName = ".autoreadme.json"
	// ReadmeFileName is the default output document.
	ReadmeFileName = "README.md"

	// LoggerInitializationFailedMessageFormat reports a logger construction failure.
	LoggerInitializationFailedMessageFormat = "initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal command failures.
	ApplicationExecutionFailedMessage = "autoreadme failed"
)
