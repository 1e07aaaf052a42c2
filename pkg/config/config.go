package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Admin        AdminConfig
	Backup       BackupConfig
	Import       ImportConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"ALANO_APP_ENV" required:"true"`
	Port         string `envconfig:"ALANO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ALANO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ALANO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ALANO_DB_DSN"`
	Driver string `envconfig:"ALANO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ALANO_DB_HOST"`
	LegacyPort     int    `envconfig:"ALANO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ALANO_DB_USER"`
	LegacyPassword string `envconfig:"ALANO_DB_PASSWORD"`
	LegacyName     string `envconfig:"ALANO_DB_NAME"`
	LegacySSLMode  string `envconfig:"ALANO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ALANO_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"ALANO_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"ALANO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ALANO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ALANO_REDIS_URL"`
	Address      string        `envconfig:"ALANO_REDIS_ADDR"`
	Password     string        `envconfig:"ALANO_REDIS_PASSWORD"`
	DB           int           `envconfig:"ALANO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ALANO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ALANO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ALANO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ALANO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ALANO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// AdminConfig guards the administrative HTTP surface. The token is compared
// constant-time by the auth middleware.
type AdminConfig struct {
	APIToken string `envconfig:"ALANO_ADMIN_API_TOKEN" required:"true"`
}

type BackupConfig struct {
	Dir           string        `envconfig:"ALANO_BACKUP_DIR" default:"backups"`
	Schedule      string        `envconfig:"ALANO_BACKUP_SCHEDULE" default:"0 3 * * *"`
	PgDumpPath    string        `envconfig:"ALANO_BACKUP_PG_DUMP" default:"pg_dump"`
	RetentionDays int           `envconfig:"ALANO_BACKUP_RETENTION_DAYS" default:"30"`
	Timeout       time.Duration `envconfig:"ALANO_BACKUP_TIMEOUT" default:"10m"`
	LockTTL       time.Duration `envconfig:"ALANO_BACKUP_LOCK_TTL" default:"1h"`
}

type ImportConfig struct {
	DataDir string `envconfig:"ALANO_IMPORT_DATA_DIR" default:"data"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ALANO_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
