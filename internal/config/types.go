package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	ProjectID     string

	// APIKey and AllowedOrigins are deliberately allowed to be empty at
	// startup; their absence is reported per-request as a server
	// configuration error rather than crashing the process.
	APIKey         string
	AllowedOrigins string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
