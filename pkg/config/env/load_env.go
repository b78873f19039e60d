package env

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads environment variables from a .env file.
// ENV_PATH, when set, takes precedence over defaultPath. A missing file is
// only an error in local mode.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	// Load never overrides variables that are already set.
	if err := godotenv.Load(envPath); err != nil {
		if env == "local" {
			slog.Error("Failed to load environment variables in local mode", "path", envPath, "error", err)
			return err
		}
		slog.Debug("Skipping .env ...", "path", envPath)
	}
	return nil
}

// String overrides dst with the value of key when it is set and non-empty.
func String(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func Bool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

func Int(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
