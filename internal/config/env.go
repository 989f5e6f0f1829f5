package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envFile picks the dotenv file for the ENV variable.
func envFile() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ENV"))) {
	case "prd", "prod", "production":
		return ".env.production"
	case "dev", "development":
		return ".env.development"
	case "local":
		return ".env.local"
	case "test":
		return ".env.test"
	}
	return ".env"
}

// ReadEnv loads the dotenv file into the process environment without
// overriding variables that are already set. It returns os.ErrNotExist when
// the file is missing.
func ReadEnv(dir string) error {
	path := envFile()
	if dir != "" {
		path = dir + string(os.PathSeparator) + path
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return godotenv.Load(path)
}
