package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4240,
			Host: "localhost",
		},
		API: APIConfig{
			URL:            "http://127.0.0.1:8000",
			TimeoutSeconds: 10,
		},
		Cache: CacheConfig{
			TTLSeconds: 30,
			MaxEntries: 100,
		},
		Display: DisplayConfig{
			Currency: "GBP",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
