package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "VELOMARKET"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, error
// messages).
const (
	EnvAppEnv = "VELOMARKET_APP_ENV"
	EnvPort   = "VELOMARKET_APP_PORT"
	EnvDBDSN  = "VELOMARKET_DB_DSN"
	EnvDBHost = "VELOMARKET_DB_HOST"
	EnvDBUser = "VELOMARKET_DB_USER"
	EnvDBName = "VELOMARKET_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
