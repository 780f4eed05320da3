package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const DefaultPath = "labcheck.yaml"

const minimumSecretKeyLength = 32

var insecureSecretKeys = map[string]bool{
	"change_me_in_production":                    true,
	"replace_with_at_least_32_random_characters": true,
}

type Config struct {
	DBPath          string `yaml:"db_path" env:"DB_PATH" env-default:"data/labcheck.db"`
	Port            string `yaml:"port" env:"PORT" env-default:"8080"`
	Timezone        string `yaml:"timezone" env:"TZ" env-default:"UTC"`
	SecretKey       string `yaml:"secret_key" env:"SECRET_KEY"`
	DefaultLanguage string `yaml:"default_language" env:"DEFAULT_LANGUAGE" env-default:"ru"`
	CookieSecure    bool   `yaml:"cookie_secure" env:"COOKIE_SECURE" env-default:"false"`
	AdminLogin      string `yaml:"admin_login" env:"ADMIN_LOGIN" env-default:"admin"`
	AdminPassword   string `yaml:"admin_password" env:"ADMIN_PASSWORD"`
	SeedCatalog     string `yaml:"seed_catalog" env:"SEED_CATALOG"`
	DepartmentTitle string `yaml:"department_title" env:"DEPARTMENT_TITLE"`
}

// Load reads configPath and then the environment. A blank or missing file
// leaves the environment as the only source.
func Load(configPath string) (Config, error) {
	var cfg Config

	if strings.TrimSpace(configPath) == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
		return cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot read config %q: %w", configPath, err)
		}
		cfg = Config{}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("cannot read env: %w", err)
		}
	}
	return cfg, nil
}

// ValidatePort accepts TCP ports 1-65535.
func (cfg Config) ValidatePort() (string, error) {
	port := strings.TrimSpace(cfg.Port)
	value, err := strconv.Atoi(port)
	if err != nil || value < 1 || value > 65535 {
		return "", fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	return port, nil
}

// ValidateSecretKey rejects short keys and the documented placeholders.
func (cfg Config) ValidateSecretKey() (string, error) {
	secret := strings.TrimSpace(cfg.SecretKey)
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if insecureSecretKeys[strings.ToLower(secret)] {
		return "", errors.New("SECRET_KEY uses an insecure placeholder value")
	}
	if len(secret) < minimumSecretKeyLength {
		return "", fmt.Errorf("SECRET_KEY must be at least %d characters", minimumSecretKeyLength)
	}
	return secret, nil
}

func (cfg Config) Location() *time.Location {
	location, err := time.LoadLocation(strings.TrimSpace(cfg.Timezone))
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", cfg.Timezone)
		return time.UTC
	}
	return location
}
