package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL flavour behind a DB.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

// DB wraps the SQL connection used for layouts and collections.
type DB struct {
	conn    *sql.DB
	dialect Dialect
}

// New opens (or creates) the SQLite file at dbPath.
func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer, so a single connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	return newDB(conn, DialectSQLite)
}

// Open connects to the given backend. For sqlite the dsn is a file path;
// mysql and postgres take a driver DSN.
func Open(backend, dsn string) (*DB, error) {
	switch Dialect(backend) {
	case DialectSQLite, "":
		return New(dsn)
	case DialectMySQL:
		normalized, err := normalizeMySQLDSN(dsn)
		if err != nil {
			return nil, err
		}
		conn, err := sql.Open("mysql", normalized)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return newDB(conn, DialectMySQL)
	case DialectPostgres:
		conn, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return newDB(conn, DialectPostgres)
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}

func newDB(conn *sql.DB, dialect Dialect) (*DB, error) {
	db := &DB{conn: conn, dialect: dialect}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) Dialect() Dialect {
	return db.dialect
}

// rebind rewrites ? placeholders into $n for postgres.
func (db *DB) rebind(query string) string {
	if db.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(db.rebind(query), args...)
}

func (db *DB) queryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(db.rebind(query), args...)
}

func (db *DB) query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(db.rebind(query), args...)
}

// upsert builds an insert that overwrites the non-key columns on conflict.
func (db *DB) upsert(table, key string, cols ...string) string {
	all := append([]string{key}, cols...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(all)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(all, ", "), marks)

	sets := make([]string, len(cols))
	for i, c := range cols {
		if db.dialect == DialectMySQL {
			sets[i] = fmt.Sprintf("%s = VALUES(%s)", c, c)
		} else {
			sets[i] = fmt.Sprintf("%s = excluded.%s", c, c)
		}
	}
	if db.dialect == DialectMySQL {
		return q + " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
	return q + fmt.Sprintf(" ON CONFLICT (%s) DO UPDATE SET ", key) + strings.Join(sets, ", ")
}

// types returns the key, text and timestamp column types for the dialect.
func (db *DB) types() (key, text, ts string) {
	switch db.dialect {
	case DialectMySQL:
		return "VARCHAR(191)", "LONGTEXT", "DATETIME(6)"
	case DialectPostgres:
		return "TEXT", "TEXT", "TIMESTAMPTZ"
	}
	return "TEXT", "TEXT", "DATETIME"
}

func (db *DB) migrate() error {
	key, text, ts := db.types()
	migrations := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS layout_documents (
			namespace %[1]s PRIMARY KEY,
			document_json %[2]s NOT NULL,
			updated_at %[3]s NOT NULL
		)`, key, text, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS collections (
			id %[1]s PRIMARY KEY,
			name %[1]s NOT NULL,
			description %[2]s NOT NULL,
			created_at %[3]s NOT NULL,
			updated_at %[3]s NOT NULL
		)`, key, text, ts),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS saved_components (
			id %[1]s PRIMARY KEY,
			collection_id %[1]s NOT NULL REFERENCES collections(id),
			ref_id %[1]s NOT NULL,
			name %[1]s NOT NULL,
			style_json %[2]s NOT NULL,
			saved_at %[3]s NOT NULL
		)`, key, text, ts),
		`CREATE INDEX idx_saved_components_collection ON saved_components(collection_id)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS app_settings (
			setting_key %[1]s PRIMARY KEY,
			value %[2]s NOT NULL
		)`, key, text),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS mcp_approvals (
			id %[1]s PRIMARY KEY,
			tool %[1]s NOT NULL,
			description %[2]s NOT NULL,
			status %[1]s NOT NULL,
			metadata %[2]s NOT NULL,
			created_at %[3]s NOT NULL
		)`, key, text, ts),
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS; re-running it is expected to fail.
			if strings.HasPrefix(m, "CREATE INDEX") && isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}

func isDuplicateIndex(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate key name")
}
