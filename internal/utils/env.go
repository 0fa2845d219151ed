package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// ErrNoProjectRoot means no directory from the working directory upwards
// carries a docsync root marker.
var ErrNoProjectRoot = errors.New("docsync project root not found")

// rootMarkers are checked in order in every directory while walking up.
var rootMarkers = []string{"docsync.yaml", ".env", "go.mod"}

// FindProjectRoot returns DOCSYNC_ROOT when set, otherwise the nearest
// ancestor of the working directory holding one of rootMarkers.
func FindProjectRoot() (string, error) {
	if root := os.Getenv("DOCSYNC_ROOT"); root != "" {
		if !DirectoryExists(root) {
			return "", fmt.Errorf("DOCSYNC_ROOT %s: %w", root, ErrNoProjectRoot)
		}
		return root, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProjectRoot
		}
		dir = parent
	}
}

// LoadEnv loads <root>/.env into the process environment without overriding
// variables that are already set. It returns the file it loaded, or "" when
// the root has no .env.
func LoadEnv() (string, error) {
	root, err := FindProjectRoot()
	if err != nil {
		return "", err
	}
	envPath := filepath.Join(root, ".env")
	if _, err := os.Stat(envPath); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return "", fmt.Errorf("load %s: %w", envPath, err)
	}
	return envPath, nil
}
