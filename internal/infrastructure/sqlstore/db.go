package sqlstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sngm3741/mymoo-services/api/internal/public/domain"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var embedMigrations embed.FS

// Dialect names the relational backend.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a migrated connection pool shared by the SQL repositories.
type DB struct {
	conn    *sqlx.DB
	dialect Dialect
}

// Open connects to the database, applies pending migrations and returns the pool.
// SQLite is limited to one connection so transactions serialise.
func Open(ctx context.Context, dialect Dialect, dsn string) (*DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)
	switch dialect {
	case DialectSQLite:
		conn, err = sqlx.ConnectContext(ctx, "sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("connecting to sqlite: %w", err)
		}
		conn.SetMaxOpenConns(1)
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enabling foreign keys: %w", err)
		}
	case DialectPostgres:
		conn, err = sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		conn.SetMaxOpenConns(10)
		conn.SetConnMaxLifetime(time.Hour)
		conn.SetConnMaxIdleTime(30 * time.Minute)
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}

	if err := migrate(conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{conn: conn, dialect: dialect}, nil
}

func migrate(conn *sqlx.DB, dialect Dialect) error {
	gooseDialect := goose.DialectSQLite3
	dir := "migrations/sqlite"
	if dialect == DialectPostgres {
		gooseDialect = goose.DialectPostgres
		dir = "migrations/postgres"
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(gooseDialect)); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	if err := goose.Up(conn.DB, dir); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close releases the pool.
func (db *DB) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("closing db: %w", err)
	}
	return nil
}

// lockSuffix locks the selected store row for the rest of the transaction.
// SQLite has no row locks; its single connection already serialises writers.
func (db *DB) lockSuffix() string {
	if db.dialect == DialectPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// withTx runs fn in a transaction and commits only when fn succeeds.
func (db *DB) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return translate(op, err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return translate(op, err)
	}
	if err := tx.Commit(); err != nil {
		return translate(op, err)
	}
	return nil
}

// ensureAccount inserts the caller if unknown and refreshes a non-empty nickname.
func ensureAccount(ctx context.Context, tx *sqlx.Tx, account domain.Account, now time.Time) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO accounts (id, nickname, created_at) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET nickname = excluded.nickname
WHERE excluded.nickname <> ''`), account.ID, strings.TrimSpace(account.Nickname), now)
	return err
}

// translate maps driver errors onto the domain taxonomy.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConstraintViolation), errors.Is(err, domain.ErrTransientStoreFailure):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	case isConstraintError(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConstraintViolation, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransientStoreFailure, err)
	}
}

func isConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "23")
	}
	return false
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
