package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// It exits the process when the configuration is invalid.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := Parse(os.LookupEnv)
	if err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}
	return cfg
}

// Parse builds a Config from lookup, usually os.LookupEnv.
func Parse(lookup func(string) (string, bool)) (Config, error) {
	var missing []string
	required := func(key string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && value != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		DBName:        required("DB_NAME"),
		MigrationsDir: optional("MIGRATIONS_DIR", "./migrations"),
		Port:          optional("PORT", "8080"),
		Slack: SlackConfig{
			Token:         optional("SLACK_BOT_TOKEN", ""),
			ChannelID:     optional("SLACK_CHANNEL_ID", ""),
			SigningSecret: optional("SLACK_SIGNING_SECRET", ""),
		},
		TenantID: optional("TENANT_ID", ""),
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		Inngest: InngestConfig{
			AppID:      optional("INNGEST_APP_ID", "atr-tennis"),
			SigningKey: optional("INNGEST_SIGNING_KEY", ""),
			EventKey:   optional("INNGEST_EVENT_KEY", ""),
		},
		ProjectID:   optional("GCP_PROJECT", ""),
		TriggerMode: TriggerMode(strings.ToLower(optional("TRIGGER_MODE", string(TriggerInline)))),
	}

	switch cfg.TriggerMode {
	case TriggerInline:
	case TriggerPubSub:
		required("GCP_PROJECT")
	case TriggerInngest:
		required("INNGEST_EVENT_KEY")
		required("INNGEST_SIGNING_KEY")
	default:
		return Config{}, fmt.Errorf("unknown TRIGGER_MODE %q", cfg.TriggerMode)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}
