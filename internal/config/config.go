package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Calendar CalendarConfig `yaml:"calendar"`
	Slack    SlackConfig    `yaml:"slack"`
	Policy   PolicyConfig   `yaml:"policy"`
	Jobs     JobsConfig     `yaml:"jobs"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds JWT settings for the dashboard API surface.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"chronokeeper"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
}

// CalendarConfig holds Google Calendar provider settings.
type CalendarConfig struct {
	// CredentialsFile is the path to a service-account JSON key with
	// domain-wide delegation for the Calendar scope.
	CredentialsFile string `yaml:"credentials_file" env:"CALENDAR_CREDENTIALS_FILE"`
	// ImpersonateUser is the workspace user the service account acts as.
	ImpersonateUser string `yaml:"impersonate_user" env:"CALENDAR_IMPERSONATE_USER"`
	// DefaultCalendarID is used when an event carries no calendar id.
	DefaultCalendarID string `yaml:"default_calendar_id" env:"CALENDAR_DEFAULT_ID" env-default:"primary"`
	// WebhookToken must match the channel token on incoming push notifications.
	WebhookToken string `yaml:"webhook_token" env:"CALENDAR_WEBHOOK_TOKEN"`
	// WebhookURL is the public address push channels deliver to. Empty
	// disables watch registration; polling sync still works.
	WebhookURL string `yaml:"webhook_url" env:"CALENDAR_WEBHOOK_URL"`
}

// SlackConfig holds notification channel settings.
// An empty BotToken disables delivery; decisions still apply locally.
type SlackConfig struct {
	BotToken string `yaml:"bot_token" env:"SLACK_BOT_TOKEN"`
}

// PolicyConfig holds meeting enforcement thresholds.
type PolicyConfig struct {
	// MinAgendaChars is the hard floor below which a meeting with attendees
	// is auto-cancelled.
	MinAgendaChars int `yaml:"min_agenda_chars" env:"POLICY_MIN_AGENDA_CHARS" env-default:"50"`
	// QualityWarnBelow is the advisory quality threshold.
	QualityWarnBelow int `yaml:"quality_warn_below" env:"POLICY_QUALITY_WARN_BELOW" env-default:"40"`
	// RetentionDays controls how long terminal meetings are kept before the
	// cleanup binary removes them.
	RetentionDays int `yaml:"retention_days" env:"POLICY_RETENTION_DAYS" env-default:"180"`
}

// JobsConfig holds cron expressions for the periodic passes.
type JobsConfig struct {
	ReminderSchedule  string `yaml:"reminder_schedule"  env:"JOBS_REMINDER_SCHEDULE"  env-default:"0 */4 * * *"`
	MandatorySchedule string `yaml:"mandatory_schedule" env:"JOBS_MANDATORY_SCHEDULE" env-default:"0 * * * *"`
	RoomSchedule      string `yaml:"room_schedule"      env:"JOBS_ROOM_SCHEDULE"      env-default:"*/15 * * * *"`
	ScanSchedule      string `yaml:"scan_schedule"      env:"JOBS_SCAN_SCHEDULE"      env-default:"*/5 * * * *"`

	// ReminderLookahead bounds the reminder batch scan window.
	ReminderLookahead time.Duration `yaml:"reminder_lookahead" env:"JOBS_REMINDER_LOOKAHEAD" env-default:"72h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings for the dashboard frontend.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
