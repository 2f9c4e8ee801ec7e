package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"
)

// Store persists the catalog in an embedded SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the catalog database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("catalog path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps the revision reads and imports serialized
	db.SetMaxOpenConns(1)
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS command_groups (
			id INTEGER PRIMARY KEY,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			icon TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS commands (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			group_id INTEGER NOT NULL REFERENCES command_groups(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			output TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS command_man_pages (
			command_id INTEGER NOT NULL REFERENCES commands(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (command_id, position)
		);`,
		`CREATE TABLE IF NOT EXISTS man_pages (
			name TEXT PRIMARY KEY,
			summary TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT ''
		);`,
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('revision', 0);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("catalog store migration failed: %w", err)
		}
	}
	return nil
}

// Path returns the database location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Revision returns the counter bumped by every import.
func (s *Store) Revision(ctx context.Context) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var rev int64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'revision'`).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return rev, err
}

// Empty reports whether no group has been imported yet.
func (s *Store) Empty(ctx context.Context) (bool, error) {
	if s == nil || s.db == nil {
		return true, nil
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM command_groups`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// Import replaces the whole catalog in one transaction and bumps the revision.
func (s *Store) Import(ctx context.Context, cat Catalog) error {
	if s == nil || s.db == nil {
		return errors.New("catalog store is closed")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := importTx(ctx, tx, cat); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func importTx(ctx context.Context, tx *sql.Tx, cat Catalog) error {
	for _, stmt := range []string{
		`DELETE FROM command_man_pages`,
		`DELETE FROM commands`,
		`DELETE FROM command_groups`,
		`DELETE FROM man_pages`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
	}
	for gpos, g := range cat.Groups {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO command_groups (id, position, label, icon) VALUES (?, ?, ?, ?)`,
			g.ID, gpos, g.Label, g.Icon); err != nil {
			return fmt.Errorf("insert group %d: %w", g.ID, err)
		}
		for cpos, c := range g.Commands {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO commands (group_id, position, text, output) VALUES (?, ?, ?, ?)`,
				g.ID, cpos, c.Text, encodeLines(c.Output))
			if err != nil {
				return fmt.Errorf("insert command in group %d: %w", g.ID, err)
			}
			cmdID, err := res.LastInsertId()
			if err != nil {
				return err
			}
			for mpos, name := range c.ManPages {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO command_man_pages (command_id, position, name) VALUES (?, ?, ?)`,
					cmdID, mpos, name); err != nil {
					return fmt.Errorf("insert man page reference %q: %w", name, err)
				}
			}
		}
	}
	for _, p := range cat.ManPages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO man_pages (name, summary, body) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET summary = excluded.summary, body = excluded.body`,
			p.Name, p.Summary, p.Body); err != nil {
			return fmt.Errorf("insert man page %q: %w", p.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE meta SET value = value + 1 WHERE key = 'revision'`); err != nil {
		return fmt.Errorf("bump revision: %w", err)
	}
	return nil
}

// Snapshot loads the ordered catalog together with its revision.
func (s *Store) Snapshot(ctx context.Context) (Snapshot, error) {
	if s == nil || s.db == nil {
		return Snapshot{}, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Snapshot{}, err
	}
	defer tx.Rollback()

	var snap Snapshot
	if err := tx.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'revision'`).Scan(&snap.Revision); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, err
	}

	groups, index, err := loadGroups(ctx, tx)
	if err != nil {
		return Snapshot{}, err
	}
	commandIndex, err := loadCommands(ctx, tx, groups, index)
	if err != nil {
		return Snapshot{}, err
	}
	if err := loadManReferences(ctx, tx, groups, commandIndex); err != nil {
		return Snapshot{}, err
	}
	snap.Groups = groups
	return snap, nil
}

type commandRef struct {
	group   int
	command int
}

func loadGroups(ctx context.Context, tx *sql.Tx) ([]Group, map[int64]int, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, label, icon FROM command_groups ORDER BY position ASC, id ASC`)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	var groups []Group
	index := make(map[int64]int)
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Label, &g.Icon); err != nil {
			return nil, nil, err
		}
		index[g.ID] = len(groups)
		groups = append(groups, g)
	}
	return groups, index, rows.Err()
}

func loadCommands(ctx context.Context, tx *sql.Tx, groups []Group, index map[int64]int) (map[int64]commandRef, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id, group_id, text, output FROM commands ORDER BY group_id ASC, position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	refs := make(map[int64]commandRef)
	for rows.Next() {
		var (
			c       Command
			groupID int64
			output  string
		)
		if err := rows.Scan(&c.ID, &groupID, &c.Text, &output); err != nil {
			return nil, err
		}
		gi, ok := index[groupID]
		if !ok {
			continue
		}
		c.Output = decodeLines(output)
		refs[c.ID] = commandRef{group: gi, command: len(groups[gi].Commands)}
		groups[gi].Commands = append(groups[gi].Commands, c)
	}
	return refs, rows.Err()
}

func loadManReferences(ctx context.Context, tx *sql.Tx, groups []Group, refs map[int64]commandRef) error {
	rows, err := tx.QueryContext(ctx, `SELECT command_id, name FROM command_man_pages ORDER BY command_id ASC, position ASC`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cmdID int64
			name  string
		)
		if err := rows.Scan(&cmdID, &name); err != nil {
			return err
		}
		ref, ok := refs[cmdID]
		if !ok {
			continue
		}
		cmd := &groups[ref.group].Commands[ref.command]
		cmd.ManPages = append(cmd.ManPages, name)
	}
	return rows.Err()
}

// ManPage looks up a reference page by name.
func (s *Store) ManPage(ctx context.Context, name string) (ManPage, bool, error) {
	if s == nil || s.db == nil {
		return ManPage{}, false, nil
	}
	page := ManPage{Name: strings.TrimSpace(name)}
	if page.Name == "" {
		return ManPage{}, false, nil
	}
	err := s.db.QueryRowContext(ctx, `SELECT summary, body FROM man_pages WHERE name = ?`, page.Name).Scan(&page.Summary, &page.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return ManPage{}, false, nil
	}
	if err != nil {
		return ManPage{}, false, err
	}
	return page, true, nil
}

func encodeLines(lines []int) string {
	if len(lines) == 0 {
		return ""
	}
	parts := make([]string, len(lines))
	for i, n := range lines {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func decodeLines(value string) []int {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
