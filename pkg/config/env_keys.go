package config

const EnvPrefix = "FOODORDER"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "FOODORDER_APP_ENV"
	EnvPort   = "FOODORDER_APP_PORT"

	EnvDBDSN  = "FOODORDER_DB_DSN"
	EnvDBHost = "FOODORDER_DB_HOST"
	EnvDBUser = "FOODORDER_DB_USER"
	EnvDBName = "FOODORDER_DB_NAME"

	EnvUseSQLite = "FOODORDER_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
