package misc

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvSettings layers .env.local over .env - neither has to exist.
func LoadEnvSettings() {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load() // .env
}

// LoadEnvFile loads a specific, named env file and fails if it's missing.
func LoadEnvFile(logger *slog.Logger, envFile string) error {
	if _, err := os.Stat(envFile); err != nil {
		return fmt.Errorf("env file:%s not readable: %w", envFile, err)
	}
	Infof(logger, "loading env file:%s", envFile)
	return godotenv.Load(envFile)
}
