package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "MIJNFEGON"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Compenda CompendaConfig
	Sendgrid SendgridConfig
	GCP      GCPConfig
	PubSub   PubSubConfig
	Outbox   OutboxConfig
	Import   ImportConfig
	Points   PointsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"MIJNFEGON_APP_ENV" required:"true"`
	Port         string `envconfig:"MIJNFEGON_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"MIJNFEGON_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"MIJNFEGON_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"MIJNFEGON_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"MIJNFEGON_DB_DSN"`
	Driver string `envconfig:"MIJNFEGON_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"MIJNFEGON_DB_HOST"`
	Port     int    `envconfig:"MIJNFEGON_DB_PORT" default:"5432"`
	User     string `envconfig:"MIJNFEGON_DB_USER"`
	Password string `envconfig:"MIJNFEGON_DB_PASSWORD"`
	Name     string `envconfig:"MIJNFEGON_DB_NAME"`
	SSLMode  string `envconfig:"MIJNFEGON_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MIJNFEGON_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MIJNFEGON_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MIJNFEGON_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"MIJNFEGON_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either MIJNFEGON_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User),
		url.QueryEscape(d.Password),
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"MIJNFEGON_REDIS_URL"`
	Address      string        `envconfig:"MIJNFEGON_REDIS_ADDR"`
	Password     string        `envconfig:"MIJNFEGON_REDIS_PASSWORD"`
	DB           int           `envconfig:"MIJNFEGON_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"MIJNFEGON_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIJNFEGON_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"MIJNFEGON_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"MIJNFEGON_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"MIJNFEGON_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"MIJNFEGON_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"MIJNFEGON_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"MIJNFEGON_JWT_EXPIRATION_MINUTES" default:"60"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"MIJNFEGON_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"MIJNFEGON_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"MIJNFEGON_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"MIJNFEGON_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"MIJNFEGON_ARGON_KEY_LEN" default:"32"`
}

// CompendaConfig points at the warranty/CRM gateway registrations sync to on approval.
type CompendaConfig struct {
	BaseURL string        `envconfig:"MIJNFEGON_COMPENDA_BASE_URL" required:"true"`
	APIKey  string        `envconfig:"MIJNFEGON_COMPENDA_API_KEY" required:"true"`
	Timeout time.Duration `envconfig:"MIJNFEGON_COMPENDA_TIMEOUT" default:"30s"`
}

type SendgridConfig struct {
	APIKey      string `envconfig:"MIJNFEGON_SENDGRID_API_KEY"`
	DefaultFrom string `envconfig:"MIJNFEGON_SENDGRID_FROM_EMAIL" default:"noreply@mijnfegon.nl"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"MIJNFEGON_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"MIJNFEGON_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"MIJNFEGON_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	RegistrationTopic        string `envconfig:"MIJNFEGON_PUBSUB_REGISTRATION_TOPIC" default:"mf-registration-events"`
	RegistrationSubscription string `envconfig:"MIJNFEGON_PUBSUB_REGISTRATION_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"MIJNFEGON_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"MIJNFEGON_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"MIJNFEGON_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type ImportConfig struct {
	BatchSize int `envconfig:"MIJNFEGON_IMPORT_BATCH_SIZE" default:"5"`
}

type PointsConfig struct {
	DefaultAward    int `envconfig:"MIJNFEGON_POINTS_DEFAULT_AWARD" default:"50"`
	FirstBonusAward int `envconfig:"MIJNFEGON_POINTS_FIRST_BONUS_AWARD" default:"100"`
}
