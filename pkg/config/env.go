package config

// EnvPrefix is passed to envconfig; every field carries an explicit key so it is informational.
const EnvPrefix = "DENIMHUB"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "DENIMHUB_APP_ENV"
	EnvPort      = "DENIMHUB_APP_PORT"
	EnvDBDSN     = "DENIMHUB_DB_DSN"
	EnvDBDriver  = "DENIMHUB_DB_DRIVER"
	EnvDBHost    = "DENIMHUB_DB_HOST"
	EnvDBPort    = "DENIMHUB_DB_PORT"
	EnvDBUser    = "DENIMHUB_DB_USER"
	EnvDBPass    = "DENIMHUB_DB_PASSWORD"
	EnvDBName    = "DENIMHUB_DB_NAME"
	EnvRedisURL  = "DENIMHUB_REDIS_URL"
	EnvJWTSecret = "DENIMHUB_JWT_SECRET"
	EnvJWTIssuer = "DENIMHUB_JWT_ISSUER"

	EnvAllowNegativeStock = "DENIMHUB_INVENTORY_ALLOW_NEGATIVE_STOCK"
	EnvCORSOrigins        = "DENIMHUB_CORS_ALLOWED_ORIGINS"
	EnvTrustedProxies     = "DENIMHUB_TRUSTED_PROXIES"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
