package config

const (
	EnvPrefix = "MAGICSTARS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv = "MAGICSTARS_APP_ENV"
	EnvPort   = "MAGICSTARS_APP_PORT"

	EnvDBDSN  = "MAGICSTARS_DB_DSN"
	EnvDBHost = "MAGICSTARS_DB_HOST"
	EnvDBUser = "MAGICSTARS_DB_USER"
	EnvDBName = "MAGICSTARS_DB_NAME"

	EnvRedisURL = "MAGICSTARS_REDIS_URL"

	EnvJWTSecret  = "MAGICSTARS_JWT_SECRET"
	EnvJWTIssuer  = "MAGICSTARS_JWT_ISSUER"
	EnvJWTExpMins = "MAGICSTARS_JWT_EXPIRATION_MINUTES"

	EnvWebhookSinkURL = "MAGICSTARS_WEBHOOK_SINK_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
