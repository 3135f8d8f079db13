// Package config carga la configuración del servicio desde YAML + env.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Auth struct {
		// Secreto de firma de tokens. Obligatorio en prod (fatal si falta).
		JWTSecret string `yaml:"jwt_secret"`
		TokenTTL  string `yaml:"token_ttl"`

		// Credencial inicial del operador, usada solo la primera vez que se
		// crea el store.
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"auth"`

	Storage struct {
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`
}

// Load lee el YAML (opcional: si el archivo no existe se usan defaults),
// aplica defaults y después overrides por variables de entorno.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// sin archivo: defaults + env
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Auth.TokenTTL == "" {
		c.Auth.TokenTTL = "168h" // 7d
	}
	if c.Auth.AdminEmail == "" {
		c.Auth.AdminEmail = "admin@example.com"
	}
	if c.Auth.AdminPassword == "" {
		c.Auth.AdminPassword = "changeme123"
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "data"
	}
	if c.Rate.Login.Limit == 0 {
		c.Rate.Login.Limit = 10
	}
	if c.Rate.Login.Window == "" {
		c.Rate.Login.Window = "1m"
	}

	// Overrides por env
	c.App.Env = envOr("APP_ENV", c.App.Env)
	c.Server.Addr = envOr("ADDR", c.Server.Addr)
	c.Log.Level = envOr("LOG_LEVEL", c.Log.Level)
	c.Auth.JWTSecret = envOr("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = envOr("TOKEN_TTL", c.Auth.TokenTTL)
	c.Auth.AdminEmail = envOr("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminPassword = envOr("ADMIN_PASSWORD", c.Auth.AdminPassword)
	c.Storage.DataDir = envOr("DATA_DIR", c.Storage.DataDir)

	return &c, nil
}

// TokenTTL parsea la vida útil de los tokens; 168h si es inválida.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil || d <= 0 {
		return 168 * time.Hour
	}
	return d
}

// LoginWindow parsea la ventana del rate limit de login; 1m si es inválida.
func (c *Config) LoginWindow() time.Duration {
	d, err := time.ParseDuration(c.Rate.Login.Window)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
