package config

// EnvPrefix scopes every environment variable consumed by envconfig.
const EnvPrefix = "DISTRIBUIDORA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "DISTRIBUIDORA_DB_DSN"
	EnvDBHost = "DISTRIBUIDORA_DB_HOST"
	EnvDBUser = "DISTRIBUIDORA_DB_USER"
	EnvDBName = "DISTRIBUIDORA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
