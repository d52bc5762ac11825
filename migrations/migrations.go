// Package migrations embeds the Postgres schema migrations.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// CreateTableSQL creates the table that records applied migrations
const CreateTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version VARCHAR(32) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// Migration is one forward migration file
type Migration struct {
	Version string
	Name    string
}

// List returns the forward migrations sorted by name. Files ending in
// _rollback.sql are excluded.
func List() ([]Migration, error) {
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, "_rollback.sql") {
			continue
		}
		out = append(out, Migration{Version: strings.SplitN(name, "_", 2)[0], Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Read returns the SQL of the named file
func Read(name string) (string, error) {
	content, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %s: %w", name, err)
	}
	return string(content), nil
}

// Rollback returns the SQL that reverts the named migration
func Rollback(name string) (string, error) {
	return Read(strings.TrimSuffix(name, ".sql") + "_rollback.sql")
}
