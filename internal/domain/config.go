package domain

// Config mirrors ~/.cliscope/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Probe               ProbeSettings    `yaml:"probe"`
	Cache               CacheSettings    `yaml:"cache"`
	Security            SecuritySettings `yaml:"security"`
	History             HistorySettings  `yaml:"history"`
}

// ProbeSettings bounds external process invocations.
type ProbeSettings struct {
	TimeoutSeconds     int `yaml:"timeout"`
	HelpTimeoutSeconds int `yaml:"help_timeout"`
	MaxSubcommands     int `yaml:"max_subcommands"`
	SubcommandProbes   int `yaml:"subcommand_probes"`
}

// CacheSettings locates the persistent analysis store.
type CacheSettings struct {
	Path string `yaml:"path"`
}

// SecuritySettings defines risk classifier behavior.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// HistorySettings controls the analysis event log.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
