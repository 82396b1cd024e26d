package cmd

import (
	"os"
	"path/filepath"

	"github.com/google/subcommands"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&runCmd{}, "portfolio")
	c.Register(&latestCmd{}, "snapshots")
	c.Register(&issuersCmd{}, "snapshots")
}

// DefaultDBDir returns the default snapshot store directory: the
// LOOKTHROUGH_DB environment variable when set (main loads a .env file
// first), otherwise ~/.lookthrough/db.
func DefaultDBDir() string {
	if dir := os.Getenv("LOOKTHROUGH_DB"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".lookthrough", "db")
	}
	return filepath.Join(home, ".lookthrough", "db")
}
