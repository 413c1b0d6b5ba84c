package config

// Config represents the unseal configuration file structure
type Config struct {
	// Passwords is the user's standing candidate list, tried before any
	// wordlist file supplied on the command line
	Passwords []string `yaml:"passwords,omitempty" json:"passwords,omitempty" mapstructure:"passwords"`

	// WatchFolders are directories monitored by watch mode; archives
	// appearing in them are cracked automatically
	WatchFolders []string `yaml:"watchFolders,omitempty" json:"watchFolders,omitempty" mapstructure:"watchFolders"`

	// Defaults contains default settings for runs
	Defaults DefaultsConfig `yaml:"defaults,omitempty" json:"defaults,omitempty" mapstructure:"defaults"`
}

// DefaultsConfig contains default configuration values
type DefaultsConfig struct {
	// Parallel is the concurrency ceiling for password attempts.
	// Values outside 1..8 are normalized to the default of 4.
	Parallel int `yaml:"parallel,omitempty" json:"parallel,omitempty" mapstructure:"parallel"`

	// Dest is the extraction destination directory
	Dest string `yaml:"dest,omitempty" json:"dest,omitempty" mapstructure:"dest"`

	// DeleteArchive removes the source archive after a confirmed success
	DeleteArchive bool `yaml:"deleteArchive,omitempty" json:"deleteArchive,omitempty" mapstructure:"deleteArchive"`

	// RecursiveSearch makes watch mode monitor subdirectories too
	RecursiveSearch bool `yaml:"recursiveSearch,omitempty" json:"recursiveSearch,omitempty" mapstructure:"recursiveSearch"`

	// SmartMode wraps cluttering archive contents in a folder named
	// after the archive
	SmartMode bool `yaml:"smartMode,omitempty" json:"smartMode,omitempty" mapstructure:"smartMode"`

	// OutputFormat is the default output format (table, json, yaml)
	OutputFormat string `yaml:"outputFormat,omitempty" json:"outputFormat,omitempty" mapstructure:"outputFormat"`

	// NoColor disables colored output
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty" mapstructure:"noColor"`
}
