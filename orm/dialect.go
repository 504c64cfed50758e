// Package orm is the typed data-access layer: a Session over one shared
// database handle, per-engine Dialects, registered Schemas, and a generic
// Repository and QueryBuilder built on squirrel and sqlx.
//
// Currently supported databases:
//   - PostgreSQL 12+ (jackc/pgx stdlib driver)
//   - MySQL 8+ (go-sql-driver/mysql)
//   - SQLite 3.35+ (mattn/go-sqlite3, RETURNING support)
package orm

import (
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	SQLite     = &SQLiteDialect{}
	MySQL      = &MySQLDialect{}
	PostgreSQL = &PostgreSQLDialect{}
)

// Dialect abstracts database-specific SQL features.
//
// Main differences handled:
//   - Placeholder format: MySQL/SQLite use ?, PostgreSQL uses $1, $2
//   - Generated keys: RETURNING (PostgreSQL, SQLite) vs LastInsertId (MySQL)
//   - DDL: column types, length enforcement and index placement
//   - Identifier quoting: "name" (PostgreSQL, SQLite) vs `name` (MySQL)
//   - Unique constraint violations reported by each driver
type Dialect interface {
	// Name returns the database type name ("postgres", "mysql", "sqlite3").
	// Used for logging, metrics and sqlx bind type selection.
	Name() string

	// DriverName returns the database/sql driver name registered for the engine.
	DriverName() string

	// PlaceholderFormat returns the placeholder format used by the database.
	PlaceholderFormat() sq.PlaceholderFormat

	// Quote quotes a table identifier so its case is kept as written.
	Quote(ident string) string

	// SupportsReturning reports whether INSERT ... RETURNING is available.
	SupportsReturning() bool

	// CreateTableSQL returns the create-if-absent statements for t,
	// including its indexes, in execution order.
	CreateTableSQL(t TableDef) []string

	// IsUniqueViolation reports whether err is a unique constraint violation.
	IsUniqueViolation(err error) bool
}

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "postgres", "postgresql", "pgx":
		return PostgreSQL, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("orm: unsupported dialect %q", name)
	}
}

// createTable renders CREATE TABLE IF NOT EXISTS with one line per column,
// followed by any extra table-level definitions.
func createTable(d Dialect, t TableDef, column func(ColumnDef) string, extra ...string) string {
	defs := make([]string, 0, len(t.Columns)+len(extra))
	for _, c := range t.Columns {
		defs = append(defs, column(c))
	}
	defs = append(defs, extra...)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", d.Quote(t.Name), strings.Join(defs, ",\n\t"))
}

func createIndex(d Dialect, t TableDef, idx IndexDef) string {
	kind := "INDEX"
	if idx.Unique {
		kind = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kind, idx.Name, d.Quote(t.Name), strings.Join(idx.Columns, ", "))
}

func quote(ident, mark string) string {
	return mark + strings.ReplaceAll(ident, mark, mark+mark) + mark
}

func notNull(c ColumnDef) string {
	if c.NotNull {
		return " NOT NULL"
	}
	return ""
}

// PostgreSQLDialect implements PostgreSQL database dialect.
type PostgreSQLDialect struct{}

// Name returns the PostgreSQL dialect name.
func (d *PostgreSQLDialect) Name() string { return "postgres" }

// DriverName returns the pgx stdlib driver name.
func (d *PostgreSQLDialect) DriverName() string { return "pgx" }

// PlaceholderFormat returns PostgreSQL's placeholder format ($1, $2, ...).
func (d *PostgreSQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Dollar
}

// Quote double-quotes ident; unquoted names would be folded to lower case.
func (d *PostgreSQLDialect) Quote(ident string) string { return quote(ident, `"`) }

func (d *PostgreSQLDialect) SupportsReturning() bool { return true }

func (d *PostgreSQLDialect) CreateTableSQL(t TableDef) []string {
	stmts := []string{createTable(d, t, d.column)}
	for _, idx := range t.Indexes {
		stmts = append(stmts, createIndex(d, t, idx))
	}
	return stmts
}

func (d *PostgreSQLDialect) column(c ColumnDef) string {
	if c.PrimaryKey && c.AutoIncrement {
		return c.Name + " INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	}
	var typ string
	switch c.Type {
	case TypeString:
		typ = "TEXT"
		if c.Size > 0 {
			typ = fmt.Sprintf("VARCHAR(%d)", c.Size)
		}
	case TypeTimestamp:
		typ = "TIMESTAMPTZ"
	default:
		typ = "INTEGER"
	}
	return c.Name + " " + typ + notNull(c)
}

// IsUniqueViolation matches SQLSTATE 23505 (unique_violation).
func (d *PostgreSQLDialect) IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// MySQLDialect implements MySQL database dialect.
//
// MySQL has no CREATE INDEX IF NOT EXISTS, so indexes are declared inline in
// the CREATE TABLE statement.
type MySQLDialect struct{}

// Name returns the MySQL dialect name.
func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) DriverName() string { return "mysql" }

// PlaceholderFormat returns MySQL's placeholder format (?).
func (d *MySQLDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *MySQLDialect) Quote(ident string) string { return quote(ident, "`") }

func (d *MySQLDialect) SupportsReturning() bool { return false }

func (d *MySQLDialect) CreateTableSQL(t TableDef) []string {
	var keys []string
	for _, idx := range t.Indexes {
		kind := "KEY"
		if idx.Unique {
			kind = "UNIQUE KEY"
		}
		keys = append(keys, fmt.Sprintf("%s %s (%s)", kind, idx.Name, strings.Join(idx.Columns, ", ")))
	}
	return []string{createTable(d, t, d.column, keys...)}
}

func (d *MySQLDialect) column(c ColumnDef) string {
	if c.PrimaryKey && c.AutoIncrement {
		return c.Name + " INT AUTO_INCREMENT PRIMARY KEY"
	}
	var typ string
	switch c.Type {
	case TypeString:
		typ = "TEXT"
		if c.Size > 0 {
			typ = fmt.Sprintf("VARCHAR(%d)", c.Size)
		}
	case TypeTimestamp:
		typ = "DATETIME(6)"
	default:
		typ = "INT"
	}
	return c.Name + " " + typ + notNull(c)
}

// IsUniqueViolation matches ER_DUP_ENTRY (1062).
func (d *MySQLDialect) IsUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// SQLiteDialect implements SQLite database dialect.
//
// SQLite ignores VARCHAR lengths, so sized string columns get a CHECK
// constraint instead. Commonly used in testing and development environments.
type SQLiteDialect struct{}

// Name returns the SQLite dialect name.
func (d *SQLiteDialect) Name() string { return "sqlite3" }

func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

// PlaceholderFormat returns SQLite's placeholder format (?).
func (d *SQLiteDialect) PlaceholderFormat() sq.PlaceholderFormat {
	return sq.Question
}

func (d *SQLiteDialect) Quote(ident string) string { return quote(ident, `"`) }

func (d *SQLiteDialect) SupportsReturning() bool { return true }

func (d *SQLiteDialect) CreateTableSQL(t TableDef) []string {
	stmts := []string{createTable(d, t, d.column)}
	for _, idx := range t.Indexes {
		stmts = append(stmts, createIndex(d, t, idx))
	}
	return stmts
}

func (d *SQLiteDialect) column(c ColumnDef) string {
	if c.PrimaryKey && c.AutoIncrement {
		return c.Name + " INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	switch c.Type {
	case TypeString:
		def := c.Name + " TEXT" + notNull(c)
		if c.Size > 0 {
			def += fmt.Sprintf(" CHECK (length(%s) <= %d)", c.Name, c.Size)
		}
		return def
	case TypeTimestamp:
		return c.Name + " DATETIME" + notNull(c)
	default:
		return c.Name + " INTEGER" + notNull(c)
	}
}

// IsUniqueViolation matches SQLITE_CONSTRAINT_UNIQUE.
func (d *SQLiteDialect) IsUniqueViolation(err error) bool {
	var liteErr sqlite3.Error
	return errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
