package app

import (
	"os"
	"path/filepath"

	"ozymandias/internal/apperr"
)

// HomeEnv overrides the default knowledge-base directory.
const HomeEnv = "OZY_HOME"

// DefaultHome returns $OZY_HOME, or ~/.ozymandias when it is unset.
func DefaultHome() (string, error) {
	if h := os.Getenv(HomeEnv); h != "" {
		return h, nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", apperr.NewConfigError("cannot determine home directory; use --home").WithCause(err)
	}
	return filepath.Join(dir, ".ozymandias"), nil
}

// requireHome fails with a ConfigError when home has not been initialised.
func requireHome(home string) error {
	info, err := os.Stat(home)
	if err == nil && info.IsDir() {
		return nil
	}
	return apperr.NewConfigError("knowledge base is not initialised; run `ozymandias init`").
		WithCause(err).WithDetail("home", home)
}
