package config

// TriggerMode selects how a completed match reaches the rating update.
type TriggerMode string

const (
	TriggerInline  TriggerMode = "inline"
	TriggerPubSub  TriggerMode = "pubsub"
	TriggerInngest TriggerMode = "inngest"
)

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Slack         SlackConfig
	TenantID      string
	Turso         TursoConfig
	Inngest       InngestConfig
	ProjectID     string
	TriggerMode   TriggerMode
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type InngestConfig struct {
	AppID      string
	SigningKey string
	EventKey   string
}
