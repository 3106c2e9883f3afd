// Package sqlite provides a SQLite-backed implementation of the studio
// storage contracts.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/platform/storage/sqlitemigrate"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/storage"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store persists project documents and the dispatch event journal in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveProject inserts or replaces one project document keyed by name.
func (s *Store) SaveProject(ctx context.Context, record storage.ProjectRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name := strings.TrimSpace(record.Name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	document, err := json.Marshal(record.Document)
	if err != nil {
		return fmt.Errorf("encode project document: %w", err)
	}

	createdAt := record.CreatedAt.UTC()
	updatedAt := record.UpdatedAt.UTC()
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	if createdAt.IsZero() {
		createdAt = updatedAt
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO projects (name, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (name) DO UPDATE SET
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		name,
		string(document),
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// GetProject returns one project record by name.
func (s *Store) GetProject(ctx context.Context, name string) (storage.ProjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProjectRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProjectRecord{}, fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return storage.ProjectRecord{}, fmt.Errorf("project name is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT name, document, created_at, updated_at
		   FROM projects
		  WHERE name = ?`,
		name,
	)

	var record storage.ProjectRecord
	var document string
	var createdAt int64
	var updatedAt int64
	if err := row.Scan(&record.Name, &document, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ProjectRecord{}, storage.ErrNotFound
		}
		return storage.ProjectRecord{}, fmt.Errorf("get project: %w", err)
	}
	if err := json.Unmarshal([]byte(document), &record.Document); err != nil {
		return storage.ProjectRecord{}, fmt.Errorf("decode project document: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// ListProjectNames returns all saved project names in lexical order.
func (s *Store) ListProjectNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM projects ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list project names: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list project names: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list project names: %w", err)
	}
	return names, nil
}

// DeleteProject removes one project and its journaled events.
func (s *Store) DeleteProject(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("project name is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE project_name = ?`, name); err != nil {
		return fmt.Errorf("delete project events: %w", err)
	}
	return tx.Commit()
}

// AppendEvent atomically appends an event to the project journal and returns
// it with the assigned sequence.
func (s *Store) AppendEvent(ctx context.Context, record storage.EventRecord) (storage.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventRecord{}, fmt.Errorf("storage is not configured")
	}
	projectName := strings.TrimSpace(record.ProjectName)
	if projectName == "" {
		return storage.EventRecord{}, fmt.Errorf("project name is required")
	}
	if strings.TrimSpace(record.Topic) == "" {
		return storage.EventRecord{}, fmt.Errorf("event topic is required")
	}
	record.ProjectName = projectName
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	record.Timestamp = record.Timestamp.UTC().Truncate(time.Millisecond)

	document, err := json.Marshal(record.Document)
	if err != nil {
		return storage.EventRecord{}, fmt.Errorf("encode event document: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return storage.EventRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	row := tx.QueryRowContext(
		ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM events WHERE project_name = ?`,
		projectName,
	)
	if err := row.Scan(&seq); err != nil {
		return storage.EventRecord{}, fmt.Errorf("next event seq: %w", err)
	}
	record.Seq = uint64(seq)

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO events (project_name, seq, topic, origin, command_type, timestamp, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		projectName,
		seq,
		record.Topic,
		record.Origin,
		record.CommandType,
		toMillis(record.Timestamp),
		string(document),
	); err != nil {
		return storage.EventRecord{}, fmt.Errorf("append event: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return storage.EventRecord{}, fmt.Errorf("commit event: %w", err)
	}
	return record, nil
}

// ListEvents returns one page of journaled events for a project ordered by
// sequence. NextSeq is set when more events remain.
func (s *Store) ListEvents(ctx context.Context, projectName string, afterSeq uint64, pageSize int) (storage.EventPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.EventPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.EventPage{}, fmt.Errorf("storage is not configured")
	}
	projectName = strings.TrimSpace(projectName)
	if projectName == "" {
		return storage.EventPage{}, fmt.Errorf("project name is required")
	}
	if pageSize <= 0 {
		return storage.EventPage{}, fmt.Errorf("page size must be greater than zero")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT seq, topic, origin, command_type, timestamp, document
		   FROM events
		  WHERE project_name = ? AND seq > ?
		  ORDER BY seq ASC
		  LIMIT ?`,
		projectName,
		int64(afterSeq),
		pageSize+1,
	)
	if err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	page := storage.EventPage{
		Events: make([]storage.EventRecord, 0, pageSize),
	}
	for rows.Next() {
		record := storage.EventRecord{ProjectName: projectName}
		var seq int64
		var timestamp int64
		var document string
		if err := rows.Scan(&seq, &record.Topic, &record.Origin, &record.CommandType, &timestamp, &document); err != nil {
			return storage.EventPage{}, fmt.Errorf("list events: %w", err)
		}
		record.Seq = uint64(seq)
		record.Timestamp = fromMillis(timestamp)
		if err := json.Unmarshal([]byte(document), &record.Document); err != nil {
			return storage.EventPage{}, fmt.Errorf("decode event document: %w", err)
		}
		page.Events = append(page.Events, record)
	}
	if err := rows.Err(); err != nil {
		return storage.EventPage{}, fmt.Errorf("list events: %w", err)
	}
	if len(page.Events) > pageSize {
		page.NextSeq = page.Events[pageSize-1].Seq
		page.Events = page.Events[:pageSize]
	}
	return page, nil
}

var (
	_ storage.ProjectStore = (*Store)(nil)
	_ storage.EventStore   = (*Store)(nil)
)
