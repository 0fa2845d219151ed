//go:build prod

package database

import (
	"log/slog"
	"os"
	"path/filepath"
)

// GetDefaultDBPath returns the database path for production mode.
// In production, the database is stored in the user's config directory.
func GetDefaultDBPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		slog.Warn("user config dir unavailable, using fallback", "error", err)
		return "docsync.db"
	}

	appDir := filepath.Join(configDir, "docsync")

	err = os.MkdirAll(appDir, 0755)
	if err != nil {
		slog.Warn("create app config dir failed, using fallback", "error", err)
		return "docsync.db"
	}

	dbPath := filepath.Join(appDir, "docsync.db")

	return dbPath
}

func IsDevelopment() bool {
	return false
}
