package config

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	DatabasePath string
	// Fallback API keys from the environment; keys saved through the
	// settings endpoints take precedence.
	GeminiAPIKey string
	OpenAIAPIKey string
}

// AppConfig holds the application-wide configuration
var AppConfig Config
