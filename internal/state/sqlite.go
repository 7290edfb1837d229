package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"penaudit/internal/errors"
	"penaudit/internal/logging"
)

// schemaVersion is bumped with every incompatible schema change.
const schemaVersion = 1

// SQLiteStore persists the inventory in .pen-audit/audit.db. Each save
// replaces the feature snapshot inside one transaction and appends a row to
// the scan history.
type SQLiteStore struct {
	conn   *sql.DB
	logger *logging.Logger
	dbPath string
}

// OpenSQLite opens or creates the audit database under the project
// directory.
func OpenSQLite(projectDir string, logger *logging.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	dir := filepath.Join(projectDir, StateDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", StateDir, err)
	}
	dbPath := filepath.Join(dir, "audit.db")

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &SQLiteStore{conn: conn, logger: logger, dbPath: dbPath}
	if err := s.initSchema(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_info (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS audit_state (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS features (
			id            TEXT PRIMARY KEY,
			fingerprint   TEXT NOT NULL,
			detector      TEXT NOT NULL,
			name          TEXT NOT NULL,
			name_override TEXT NOT NULL DEFAULT '',
			category      TEXT NOT NULL,
			summary       TEXT NOT NULL,
			tier          INTEGER NOT NULL,
			screen_id     TEXT NOT NULL DEFAULT '',
			status        TEXT NOT NULL,
			first_seen    TEXT NOT NULL,
			last_seen     TEXT NOT NULL,
			meta          TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE INDEX IF NOT EXISTS idx_features_status ON features(status)`,
		`CREATE INDEX IF NOT EXISTS idx_features_detector ON features(detector)`,
		`CREATE TABLE IF NOT EXISTS scans (
			scan_id     TEXT PRIMARY KEY,
			ran_at      TEXT NOT NULL UNIQUE,
			source_file TEXT NOT NULL DEFAULT '',
			total       INTEGER NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	var version int
	err := s.conn.QueryRow(`SELECT version FROM schema_info LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		_, err = s.conn.Exec(`INSERT INTO schema_info (version) VALUES (?)`, schemaVersion)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != schemaVersion {
		return errors.New(errors.StateCorrupt,
			fmt.Sprintf("unsupported audit database schema version %d (want %d): delete %s to rebuild", version, schemaVersion, s.dbPath), nil)
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back on error or panic.
func (s *SQLiteStore) withTx(fn func(*sql.Tx) error) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Error("failed to rollback transaction", map[string]interface{}{
				"error":          err.Error(),
				"rollback_error": rbErr.Error(),
			})
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Load rebuilds the state from the features table and header entries.
func (s *SQLiteStore) Load() (*State, error) {
	st := NewState(time.Now())

	header := map[string]*string{
		"created":     &st.Created,
		"last_scan":   &st.LastScan,
		"source_file": &st.SourceFile,
	}
	rows, err := s.conn.Query(`SELECT key, value FROM audit_state`)
	if err != nil {
		return nil, fmt.Errorf("failed to read state header: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		if dst, ok := header[key]; ok {
			*dst = value
		}
		if key == "scan_count" {
			fmt.Sscanf(value, "%d", &st.ScanCount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	frows, err := s.conn.Query(`SELECT id, fingerprint, detector, name, name_override,
		category, summary, tier, screen_id, status, first_seen, last_seen, meta
		FROM features`)
	if err != nil {
		return nil, fmt.Errorf("failed to read features: %w", err)
	}
	defer frows.Close()

	for frows.Next() {
		var r Record
		var status, metaJSON string
		if err := frows.Scan(&r.ID, &r.Fingerprint, &r.Detector, &r.Name, &r.NameOverride,
			&r.Category, &r.Summary, &r.Tier, &r.ScreenID, &status, &r.FirstSeen,
			&r.LastSeen, &metaJSON); err != nil {
			return nil, err
		}
		r.Status = Status(status)
		if metaJSON != "" && metaJSON != "{}" {
			if err := json.Unmarshal([]byte(metaJSON), &r.Meta); err != nil {
				s.logger.Warn("Dropping unreadable feature metadata", map[string]interface{}{
					"feature": r.ID,
					"error":   err.Error(),
				})
			}
		}
		st.Features[r.ID] = &r
	}
	if err := frows.Err(); err != nil {
		return nil, err
	}

	st.Stats = Compute(st.Records())
	return st, nil
}

// Save replaces the feature snapshot and header in one transaction and
// records a scan history row the first time each scan timestamp is saved.
func (s *SQLiteStore) Save(st *State) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM features`); err != nil {
			return fmt.Errorf("failed to clear features: %w", err)
		}

		insert, err := tx.Prepare(`INSERT INTO features
			(id, fingerprint, detector, name, name_override, category, summary,
			 tier, screen_id, status, first_seen, last_seen, meta)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer insert.Close()

		for _, r := range st.Features {
			metaJSON := "{}"
			if len(r.Meta) > 0 {
				data, err := json.Marshal(r.Meta)
				if err != nil {
					return fmt.Errorf("failed to marshal metadata for %s: %w", r.ID, err)
				}
				metaJSON = string(data)
			}
			if _, err := insert.Exec(r.ID, r.Fingerprint, r.Detector, r.Name, r.NameOverride,
				r.Category, r.Summary, r.Tier, r.ScreenID, string(r.Status),
				r.FirstSeen, r.LastSeen, metaJSON); err != nil {
				return fmt.Errorf("failed to insert feature %s: %w", r.ID, err)
			}
		}

		header := map[string]string{
			"created":     st.Created,
			"last_scan":   st.LastScan,
			"source_file": st.SourceFile,
			"scan_count":  fmt.Sprintf("%d", st.ScanCount),
		}
		for key, value := range header {
			if _, err := tx.Exec(`INSERT INTO audit_state (key, value) VALUES (?, ?)
				ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
				return fmt.Errorf("failed to write state header: %w", err)
			}
		}

		// One history row per scan. Saves after a resolve or a codebase
		// match carry the same last_scan timestamp and must not append
		// another row.
		if st.LastScan != "" {
			if _, err := tx.Exec(`INSERT OR IGNORE INTO scans (scan_id, ran_at, source_file, total)
				VALUES (?, ?, ?, ?)`,
				uuid.NewString(), st.LastScan, st.SourceFile, len(st.Features)); err != nil {
				return fmt.Errorf("failed to record scan: %w", err)
			}
		}
		return nil
	})
}

// ScanHistory returns past scans, most recent first, up to limit.
func (s *SQLiteStore) ScanHistory(limit int) ([]ScanEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.conn.Query(`SELECT scan_id, ran_at, source_file, total
		FROM scans ORDER BY ran_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan history: %w", err)
	}
	defer rows.Close()

	var entries []ScanEntry
	for rows.Next() {
		var e ScanEntry
		if err := rows.Scan(&e.ScanID, &e.RanAt, &e.SourceFile, &e.Total); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ScanEntry is one row of the scan history.
type ScanEntry struct {
	ScanID     string `json:"scanId"`
	RanAt      string `json:"ranAt"`
	SourceFile string `json:"sourceFile,omitempty"`
	Total      int    `json:"total"`
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
