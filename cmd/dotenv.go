package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from the .env file in dir. A
// missing file is not an error. Variables already set in the environment
// take precedence.
func LoadDotEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")

	if _, err := os.Stat(envPath); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check if .env file exists: %w", err)
	}

	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("could not load %s: %w", envPath, err)
	}

	return nil
}
