package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	// DefaultUsername is the administrative account the local
	// Elasticsearch setup provisions.
	DefaultUsername = "elastic"

	EnvURL      = "ES_LOCAL_URL"
	EnvPassword = "ES_LOCAL_PASSWORD"
)

type Config struct {
	ESURL    string
	Username string
	Password string
	Insecure bool
}

// Load resolves the target endpoint and credentials from whatever flags
// were bound into v, falling back to the ES_LOCAL_* environment. A missing
// URL or password is a fatal precondition: the run must not start.
func Load(v *viper.Viper) (*Config, error) {
	v.SetDefault("es-username", DefaultUsername)
	if err := v.BindEnv("es-url", EnvURL); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", EnvURL, err)
	}
	if err := v.BindEnv("es-password", EnvPassword); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", EnvPassword, err)
	}

	cfg := &Config{
		ESURL:    v.GetString("es-url"),
		Username: v.GetString("es-username"),
		Password: v.GetString("es-password"),
		Insecure: v.GetBool("insecure"),
	}

	if cfg.ESURL == "" {
		return nil, fmt.Errorf("elasticsearch URL is not set: pass --es-url or export %s", EnvURL)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("elasticsearch password is not set: pass --es-password or export %s", EnvPassword)
	}
	return cfg, nil
}
