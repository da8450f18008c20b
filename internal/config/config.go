package config

type Config interface {
	EnvConfig
	ProviderConfig
	QuotaConfig
	SecurityConfig
}

type mainConfig struct {
	EnvVars
	Provider
	Quota
	Security
}

func New() Config {
	return mainConfig{}
}
