package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// LoadEnvironment loads environment variables from .env files
// It tries to load from the current directory and from the directory of the executable
func LoadEnvironment(log zerolog.Logger) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msgf("No .env file found in current directory or error loading it: %v", err)
	} else {
		log.Info().Msg("Successfully loaded .env file from current directory")
	}

	execPath, err := os.Executable()
	if err != nil {
		log.Debug().Msgf("Could not determine executable path: %v", err)
		return
	}

	execDir := filepath.Dir(execPath)
	envPath := filepath.Join(execDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Debug().Msgf("No .env file found in app directory (%s) or error loading it: %v", execDir, err)
	} else {
		log.Info().Msgf("Successfully loaded .env file from app directory: %s", execDir)
	}
}
