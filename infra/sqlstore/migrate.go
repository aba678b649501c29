package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

//go:embed migrations
var migrationFS embed.FS

const migrationTable = "schema_migrations"

type migration struct {
	name string
	up   string
}

// migrations returns the embedded files of the store dialect in name order.
func (s *Store) migrations() ([]migration, error) {
	root := path.Join("migrations", s.dialect.name)
	entries, err := fs.ReadDir(migrationFS, root)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var out []migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		content, err := fs.ReadFile(migrationFS, path.Join(root, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", entry.Name(), err)
		}
		out = append(out, migration{name: entry.Name(), up: extractUpMigration(string(content))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out, nil
}

func (s *Store) ensureMigrationTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+migrationTable+` (
    name TEXT PRIMARY KEY,
    applied_at BIGINT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func (s *Store) appliedMigrations(ctx context.Context) (map[string]bool, error) {
	if err := s.ensureMigrationTable(ctx); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM `+migrationTable)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer func() { _ = rows.Close() }()
	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// Pending lists embedded migrations that have not been applied yet.
func (s *Store) Pending(ctx context.Context) ([]string, error) {
	all, err := s.migrations()
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	var pending []string
	for _, m := range all {
		if !applied[m.name] {
			pending = append(pending, m.name)
		}
	}
	return pending, nil
}

// Migrate applies pending migrations at most once each, one transaction per
// file, and returns the names it applied.
func (s *Store) Migrate(ctx context.Context) ([]string, error) {
	all, err := s.migrations()
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	var done []string
	for _, m := range all {
		if applied[m.name] {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return done, err
		}
		s.log.Infow("migration applied", map[string]any{"name": m.name, "driver": s.dialect.name})
		done = append(done, m.name)
	}
	return done, nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction %s: %w", m.name, err)
	}
	if strings.TrimSpace(m.up) != "" {
		if _, err := sqlTx.ExecContext(ctx, m.up); err != nil {
			_ = sqlTx.Rollback()
			return fmt.Errorf("exec migration %s: %w", m.name, err)
		}
	}
	if _, err := sqlTx.ExecContext(ctx,
		s.dialect.rebind(`INSERT INTO `+migrationTable+` (name, applied_at) VALUES (?, ?)`),
		m.name, time.Now().UTC().UnixMilli()); err != nil {
		_ = sqlTx.Rollback()
		return fmt.Errorf("record migration %s: %w", m.name, err)
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", m.name, err)
	}
	return nil
}

// extractUpMigration returns the SQL in the -- +migrate Up section.
func extractUpMigration(content string) string {
	const up, down = "-- +migrate Up", "-- +migrate Down"
	upIdx := strings.Index(content, up)
	if upIdx == -1 {
		return content
	}
	downIdx := strings.Index(content, down)
	if downIdx == -1 {
		return content[upIdx+len(up):]
	}
	return content[upIdx+len(up) : downIdx]
}
