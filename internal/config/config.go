package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DatabaseMaxConns and DatabaseMinConns size the pgx pool.
	DatabaseMaxConns = 10
	DatabaseMinConns = 2

	// DatabaseMaxConnIdleTime closes pooled connections idle for longer.
	DatabaseMaxConnIdleTime = 5 * time.Minute

	// DatabaseHealthCheckPeriod is how often idle connections are checked.
	DatabaseHealthCheckPeriod = 30 * time.Second

	// DatabaseConnectTimeout bounds the initial ping.
	DatabaseConnectTimeout = 10 * time.Second

	// DatabaseApplicationName tags sessions in pg_stat_activity.
	DatabaseApplicationName = "workdesk"

	// DefaultNotifyBackend writes notifications to the outbox table.
	DefaultNotifyBackend = "outbox"

	// DefaultNSQTopic is the topic notifications are published to.
	DefaultNSQTopic = "workdesk_notifications"

	// DefaultRedisList is the list notifications are pushed to.
	DefaultRedisList = "workdesk:notifications"

	// DefaultEvidenceBucket holds dispute evidence files.
	DefaultEvidenceBucket = "dispute-evidence"

	// DefaultListLimit and MaxListLimit bound list endpoints.
	DefaultListLimit = 50
	MaxListLimit     = 200

	// MaxCommentLength bounds operator comments and notification text.
	MaxCommentLength = 4000

	// DefaultTokenTTL is the lifetime of tokens minted by issue-token.
	DefaultTokenTTL = 12 * time.Hour

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout = 10 * time.Second
)
