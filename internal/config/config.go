package config

import (
	"errors"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	LogLevel    string
	ListenAddr  string
	DBType      string
	DBDSN       string
	FileUsers   string
	FileSleep   string
	FileFollows string
}

var (
	cfg  *Config
	once sync.Once
)

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Config{
			Env:         getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
			DBType:      getEnv("STORAGE_BACKEND", "file"),
			DBDSN:       getEnv("POSTGRES_DSN", ""),
			FileUsers:   getEnv("USERS_FILE", "data/users.json"),
			FileSleep:   getEnv("SLEEP_FILE", "data/sleep_records.json"),
			FileFollows: getEnv("FOLLOWS_FILE", "data/follows.json"),
		}
		if err := cfg.Validate(); err != nil {
			panic("Invalid config: " + err.Error())
		}
	})
	return cfg
}

func (c *Config) Validate() error {
	if c.DBType == "postgres" && c.DBDSN == "" {
		return errors.New("POSTGRES_DSN is required when STORAGE_BACKEND=postgres")
	}
	if c.DBType == "file" && (c.FileUsers == "" || c.FileSleep == "" || c.FileFollows == "") {
		return errors.New("File storage requires USERS_FILE, SLEEP_FILE and FOLLOWS_FILE to be set")
	}
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return errors.New("APP_ENV must be one of: development, staging, production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
