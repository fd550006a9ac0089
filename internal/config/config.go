package config

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	BankIDConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	BankID
}

func New() Config {
	return mainConfig{}
}
