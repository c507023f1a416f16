package config

const (
	// EnvPrefix scopes every environment variable read by envconfig.
	EnvPrefix = "PASARSENI"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv    = "PASARSENI_APP_ENV"
	EnvPort      = "PASARSENI_APP_PORT"
	EnvDBDSN     = "PASARSENI_DB_DSN"
	EnvDBHost    = "PASARSENI_DB_HOST"
	EnvDBUser    = "PASARSENI_DB_USER"
	EnvDBName    = "PASARSENI_DB_NAME"
	EnvRedisURL  = "PASARSENI_REDIS_URL"
	EnvJWTSecret = "PASARSENI_JWT_SECRET"
	EnvJWTIssuer = "PASARSENI_JWT_ISSUER"

	EnvCommissionRate = "PASARSENI_CHECKOUT_COMMISSION_RATE"
	EnvOrderEndpoint  = "PASARSENI_CHECKOUT_ORDER_ENDPOINT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
