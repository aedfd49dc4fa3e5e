package config

import (
	"slices"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	DefaultSeason string `env:"DEFAULT_SEASON" envDefault:"2024-2025"`
	Timezone      string `env:"LEAGUE_TIMEZONE"`
	Database      DatabaseConfig
	Admin         AdminConfig `envPrefix:"ADMIN_"`
	Slack         SlackConfig `envPrefix:"SLACK_"`
	CORSOrigins   []string    `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

// DatabaseConfig selects the storage backend. DatabaseURL wins over Turso,
// which wins over the local SQLite file.
type DatabaseConfig struct {
	Name        string      `env:"DB_NAME" envDefault:"league.db"`
	DatabaseURL string      `env:"DATABASE_URL"`
	Turso       TursoConfig `envPrefix:"TURSO_"`
}

type TursoConfig struct {
	PrimaryURL string `env:"PRIMARY_URL"`
	AuthToken  string `env:"AUTH_TOKEN"`
}

type AdminConfig struct {
	Password   string        `env:"PASSWORD,required,notEmpty"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

type SlackConfig struct {
	Token         string `env:"BOT_TOKEN"`
	ChannelID     string `env:"CHANNEL_ID"`
	SigningSecret string `env:"SIGNING_SECRET"`
}

// Location resolves the league time zone, falling back to the server's local zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// CORSCredentials reports whether cross-origin requests may carry the admin
// session cookie. Only an explicit origin list allows it.
func (c Config) CORSCredentials() bool {
	return len(c.CORSOrigins) > 0 && !slices.Contains(c.CORSOrigins, "*")
}
