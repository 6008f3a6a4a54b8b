package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"devconnect/log"
)

// Config holds everything the app needs to start. In development the zero
// config file case falls back to DefaultConfig, in production a .config.json
// file is required.
type Config struct {
	Port        int            `json:"port"`
	Env         string         `json:"env"`
	Pepper      string         `json:"pepper"`
	HMACKey     string         `json:"hmac_key"`
	JWTSecret   string         `json:"jwt_secret"`
	CSRFAuthKey string         `json:"csrf_auth_key"`
	Database    PostgresConfig `json:"database"`
}

// IsProd reports whether the app runs in production mode.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ConnectionInfo builds the postgres connection string.
func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable",
			pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func DefaultConfig() Config {
	return Config{
		Port:        3000,
		Env:         "dev",
		Pepper:      "secret-random-string",
		HMACKey:     "secret-hmac-key",
		JWTSecret:   "secret-jwt-key",
		CSRFAuthKey: "32-byte-long-auth-key-padding-ok",
		Database:    DefaultPostgresConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "devconnect",
	}
}

// LoadConfig loads configuration from a .config.json file if present,
// otherwise it returns the default dev setup. When configReq is true (we're
// running in production) a missing file is fatal. A .env file, if present,
// is loaded first so secrets can be overridden per environment without
// touching the config file.
func LoadConfig(configReq bool) Config {
	godotenv.Load()

	f, err := os.Open(".config.json")
	if err != nil {
		if configReq {
			panic(err)
		}
		log.Warn("no .config.json found, using default dev config")
		return applyEnv(DefaultConfig())
	}
	defer f.Close()

	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		panic(err)
	}
	log.Info("successfully loaded .config.json")
	return applyEnv(c)
}

// applyEnv overrides the secrets that are commonly injected through the
// environment rather than checked into a config file.
func applyEnv(c Config) Config {
	if v := os.Getenv("DEVCONNECT_PEPPER"); v != "" {
		c.Pepper = v
	}
	if v := os.Getenv("DEVCONNECT_HMAC_KEY"); v != "" {
		c.HMACKey = v
	}
	if v := os.Getenv("DEVCONNECT_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("DEVCONNECT_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	return c
}
