package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// ALANO_-prefixed tags so the prefix itself stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv        = "ALANO_APP_ENV"
	EnvAppPort       = "ALANO_APP_PORT"
	EnvDBDSN         = "ALANO_DB_DSN"
	EnvDBHost        = "ALANO_DB_HOST"
	EnvDBUser        = "ALANO_DB_USER"
	EnvDBName        = "ALANO_DB_NAME"
	EnvRedisURL      = "ALANO_REDIS_URL"
	EnvAdminAPIToken = "ALANO_ADMIN_API_TOKEN"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
