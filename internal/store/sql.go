package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	// Registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
	// Registers the "sqlite3" database/sql driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/conduit-lang/docbridge/internal/document"
)

// Dialect selects SQL syntax differences between supported databases
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

// String returns the string representation of the dialect
func (d Dialect) String() string {
	switch d {
	case DialectPostgres:
		return "postgres"
	case DialectSQLite:
		return "sqlite3"
	default:
		return "unknown"
	}
}

// DriverName returns the database/sql driver registered for the dialect
func (d Dialect) DriverName() string {
	if d == DialectSQLite {
		return "sqlite3"
	}
	return "pgx"
}

// ParseDialect converts a string to a Dialect
func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	default:
		return 0, fmt.Errorf("unknown sql dialect: %s", s)
	}
}

func (d Dialect) placeholder(n int) string {
	if d == DialectSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func (d Dialect) blobType() string {
	if d == DialectSQLite {
		return "BLOB"
	}
	return "BYTEA"
}

// SQLStore implements a document store on a single SQL table keyed by
// (set_name, id) with the BSON body in a binary column
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	table   string
}

// OpenSQLStore opens a database connection for the dialect and ensures the
// documents table exists
func OpenSQLStore(ctx context.Context, dialect Dialect, dsn, table string) (*SQLStore, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	s := NewSQLStore(db, dialect, table)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore creates a SQL store on an existing connection
func NewSQLStore(db *sql.DB, dialect Dialect, table string) *SQLStore {
	if table == "" {
		table = "documents"
	}
	return &SQLStore{db: db, dialect: dialect, table: table}
}

// EnsureSchema creates the documents table if it does not exist
func (s *SQLStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	set_name TEXT NOT NULL,
	id TEXT NOT NULL,
	body %s NOT NULL,
	PRIMARY KEY (set_name, id)
)`, s.table, s.dialect.blobType())

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.table, convertDBError(err))
	}
	return nil
}

// Get retrieves a document
func (s *SQLStore) Get(ctx context.Context, set, id string) (document.Document, error) {
	if err := validateKey(set, id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT body FROM %s WHERE set_name = %s AND id = %s",
		s.table, s.dialect.placeholder(1), s.dialect.placeholder(2))

	var body []byte
	if err := s.db.QueryRowContext(ctx, query, collectionName(set), id).Scan(&body); err != nil {
		return nil, convertDBError(err)
	}
	return decode(body)
}

// Put stores a document, replacing any existing one
func (s *SQLStore) Put(ctx context.Context, set, id string, doc document.Document) error {
	if err := validateKey(set, id); err != nil {
		return err
	}

	body, err := encode(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`INSERT INTO %s (set_name, id, body) VALUES (%s, %s, %s)
ON CONFLICT (set_name, id) DO UPDATE SET body = excluded.body`,
		s.table, s.dialect.placeholder(1), s.dialect.placeholder(2), s.dialect.placeholder(3))

	if _, err := s.db.ExecContext(ctx, query, collectionName(set), id, body); err != nil {
		return fmt.Errorf("failed to store %s/%s: %w", set, id, convertDBError(err))
	}
	return nil
}

// Delete removes a document
func (s *SQLStore) Delete(ctx context.Context, set, id string) error {
	if err := validateKey(set, id); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE set_name = %s AND id = %s",
		s.table, s.dialect.placeholder(1), s.dialect.placeholder(2))

	result, err := s.db.ExecContext(ctx, query, collectionName(set), id)
	if err != nil {
		return convertDBError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// Keys returns the ids stored for a set
func (s *SQLStore) Keys(ctx context.Context, set string) ([]string, error) {
	query := fmt.Sprintf("SELECT id FROM %s WHERE set_name = %s ORDER BY id",
		s.table, s.dialect.placeholder(1))

	rows, err := s.db.QueryContext(ctx, query, collectionName(set))
	if err != nil {
		return nil, convertDBError(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database connection
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ErrConstraintViolation is returned when the database rejects a write
var ErrConstraintViolation = errors.New("constraint violation")

// convertDBError converts database-specific errors to store errors
func convertDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505", "23514", "23502": // unique, check, not_null violations
			return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.Message)
		}
	}

	return err
}
