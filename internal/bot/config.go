package bot

// Config represents the configuration of the Telegram client
type Config struct {
	// Long polling timeout in seconds
	UpdateTimeout int
	// Log raw Bot API requests
	Debug bool
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() Config {
	return Config{
		UpdateTimeout: 60,
	}
}
