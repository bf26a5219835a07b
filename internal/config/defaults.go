package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:       "~/.config/pickquote",
			SQLiteFile: "pickquote.db",
		},
		Recent: RecentConfig{
			Limit: 10,
		},
		Export: ExportConfig{
			File: "pickquote-export.zip",
		},
	}
}
