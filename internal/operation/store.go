package operation

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
	"github.com/msto63/alarmview/foundation/core/log"
)

// ErrNotFound is returned for unknown operation IDs
var ErrNotFound = mdwerror.New("operation not found").WithCode(mdwerror.CodeNotFound)

// Store defines the interface for operation persistence
type Store interface {
	// Save inserts or updates op. An empty ID is assigned.
	Save(ctx context.Context, op *Operation) error
	Get(ctx context.Context, id string) (*Operation, error)
	// ListRecent returns up to limit operations, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Operation, error)
	Acknowledge(ctx context.Context, id string, at time.Time) error
	Close() error
}

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *log.Logger
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path   string
	Logger *log.Logger
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/operations.db",
	}
}

// NewSQLiteStore creates a new SQLite-based operation store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.GetDefault()
	}

	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create directory").WithCode(mdwerror.CodeDatabaseError)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open database").WithCode(mdwerror.CodeDatabaseError)
	}

	store := &SQLiteStore{
		db:     db,
		logger: cfg.Logger.WithField("component", "operation-store"),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, mdwerror.Wrap(err, "failed to initialize schema").WithCode(mdwerror.CodeDatabaseError)
	}

	store.logger.Debug("operation store opened", log.Fields{"path": cfg.Path})
	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL DEFAULT '',
		timestamp DATETIME NOT NULL,
		keyword TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		street TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		property TEXT NOT NULL DEFAULT '',
		resources TEXT,
		acknowledged_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_operations_timestamp ON operations(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_operations_number ON operations(number);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save inserts or replaces an operation. A stored acknowledgment is kept
// when op carries none.
func (s *SQLiteStore) Save(ctx context.Context, op *Operation) error {
	if op == nil {
		return mdwerror.Wrap(ErrInvalid, "nil operation")
	}
	if err := op.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if op.ID == "" {
		op.ID = NewID()
	}
	if op.Timestamp.IsZero() {
		op.Timestamp = time.Now()
	}

	var resourcesJSON []byte
	if op.Resources != nil {
		resourcesJSON, _ = json.Marshal(op.Resources)
	}

	var ackAt interface{}
	if op.AcknowledgedAt != nil {
		ackAt = op.AcknowledgedAt.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operations (id, number, timestamp, keyword, comment, street, city, property, resources, acknowledged_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			timestamp = excluded.timestamp,
			keyword = excluded.keyword,
			comment = excluded.comment,
			street = excluded.street,
			city = excluded.city,
			property = excluded.property,
			resources = excluded.resources,
			acknowledged_at = COALESCE(excluded.acknowledged_at, operations.acknowledged_at)
	`, op.ID, op.Number, op.Timestamp.UTC(), op.Keyword, op.Comment,
		op.Location.Street, op.Location.City, op.Location.Property, resourcesJSON, ackAt)

	if err != nil {
		return mdwerror.Wrap(err, "failed to save operation").WithCode(mdwerror.CodeDatabaseError)
	}

	s.logger.Debug("operation saved", log.Fields{"id": op.ID, "number": op.Number})
	return nil
}

const selectColumns = `id, number, timestamp, keyword, comment, street, city, property, resources, acknowledged_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOperation(row scanner) (*Operation, error) {
	var op Operation
	var resourcesJSON sql.NullString
	var ackAt sql.NullTime

	err := row.Scan(&op.ID, &op.Number, &op.Timestamp, &op.Keyword, &op.Comment,
		&op.Location.Street, &op.Location.City, &op.Location.Property, &resourcesJSON, &ackAt)
	if err != nil {
		return nil, err
	}

	if resourcesJSON.Valid && resourcesJSON.String != "" {
		if err := json.Unmarshal([]byte(resourcesJSON.String), &op.Resources); err != nil {
			return nil, mdwerror.Wrapf(err, "decode resources of %s", op.ID).WithCode(mdwerror.CodeDatabaseError)
		}
	}
	if ackAt.Valid {
		t := ackAt.Time
		op.AcknowledgedAt = &t
	}

	return &op, nil
}

// Get retrieves an operation by ID
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM operations WHERE id = ?`, id)

	op, err := scanOperation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, mdwerror.Wrapf(ErrNotFound, "%s", id)
		}
		return nil, mdwerror.Wrap(err, "failed to get operation").WithCode(mdwerror.CodeDatabaseError)
	}

	return op, nil
}

// ListRecent returns the newest operations first
func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]*Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+selectColumns+`
		FROM operations
		ORDER BY timestamp DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to list operations").WithCode(mdwerror.CodeDatabaseError)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to scan operation").WithCode(mdwerror.CodeDatabaseError)
		}
		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "failed to list operations").WithCode(mdwerror.CodeDatabaseError)
	}
	return ops, nil
}

// Acknowledge marks an operation as acknowledged at the given time
func (s *SQLiteStore) Acknowledge(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		UPDATE operations SET acknowledged_at = ? WHERE id = ?
	`, at.UTC(), id)
	if err != nil {
		return mdwerror.Wrap(err, "failed to acknowledge operation").WithCode(mdwerror.CodeDatabaseError)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return mdwerror.Wrapf(ErrNotFound, "%s", id)
	}

	s.logger.Info("operation acknowledged", log.Fields{"id": id})
	return nil
}

// Count returns the number of stored operations
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&n); err != nil {
		return 0, mdwerror.Wrap(err, "failed to count operations").WithCode(mdwerror.CodeDatabaseError)
	}
	return n, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
