// Package database opens short-lived connections to the rankings store.
//
// Every call to Open creates a fresh handle limited to a single connection
// and verifies it with a ping. Nothing is pooled or reused across calls; the
// caller releases each Conn when its unit of work is done, and WithConn makes
// that release unconditional.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"sync/atomic"

	// Registered drivers.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/okian/courtside/internal/config"
	"github.com/okian/courtside/internal/domain/query"
	"github.com/okian/courtside/pkg/logger"
	"github.com/okian/courtside/pkg/metrics"
)

const (
	driverPostgres = config.DriverPostgres
	driverSQLite   = config.DriverSQLite

	// database/sql names of the registered drivers.
	sqlDriverPgx    = "pgx"
	sqlDriverSQLite = "sqlite"
)

// Provider opens connections using coordinates fixed at construction.
type Provider struct {
	cfg    config.DatabaseConfig
	logger logger.Logger
}

// New returns a Provider for cfg. It does not connect.
func New(cfg config.DatabaseConfig, opts ...Option) (*Provider, error) {
	if cfg.Driver != driverPostgres && cfg.Driver != driverSQLite {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	p := &Provider{cfg: cfg, logger: logger.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Dialect returns the placeholder dialect of the configured driver.
func (p *Provider) Dialect() query.Dialect { return query.DialectFor(p.cfg.Driver) }

// Open connects and pings. The returned Conn must be closed by the caller.
// Failures are returned as *ConnectionError.
func (p *Provider) Open(ctx context.Context) (*Conn, error) {
	driverName, dsn, err := p.dsn()
	if err != nil {
		return nil, p.fail(ctx, err)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, p.fail(ctx, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, p.fail(ctx, err)
	}

	metrics.RecordConnectionOpen()
	p.logger.Debug(ctx, "database connection opened", logger.String("target", p.cfg.String()))
	return &Conn{db: db}, nil
}

// WithConn opens a connection, passes it to fn and closes it on every exit
// path, including a panic inside fn. Close errors are only logged so they
// never mask the result of fn.
func (p *Provider) WithConn(ctx context.Context, fn func(*Conn) error) error {
	conn, err := p.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			p.logger.Warn(ctx, "database connection close failed", logger.Error(cerr))
		}
	}()
	return fn(conn)
}

// Ping opens and releases one connection.
func (p *Provider) Ping(ctx context.Context) error {
	return p.WithConn(ctx, func(*Conn) error { return nil })
}

func (p *Provider) fail(ctx context.Context, cause error) error {
	metrics.RecordConnectionFailure()
	err := &ConnectionError{
		Driver:   p.cfg.Driver,
		Host:     p.cfg.Host,
		Port:     p.cfg.Port,
		Database: p.cfg.Name,
		User:     p.cfg.User,
		Err:      cause,
	}
	if p.cfg.Driver == driverSQLite {
		err.Database = p.cfg.Path
	}
	p.logger.Error(ctx, "database connection failed", logger.Error(err))
	return err
}

func (p *Provider) dsn() (string, string, error) {
	switch p.cfg.Driver {
	case driverSQLite:
		// sqlite would silently create a missing file; an absent store is a
		// connection failure here.
		if _, err := os.Stat(p.cfg.Path); err != nil {
			return "", "", err
		}
		return sqlDriverSQLite, p.cfg.Path, nil
	default:
		return sqlDriverPgx, PostgresURL(p.cfg), nil
	}
}

// PostgresURL renders cfg as a postgres:// connection URL.
func PostgresURL(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	} else if cfg.User != "" {
		u.User = url.User(cfg.User)
	}
	if cfg.SSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", cfg.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Conn is a single open connection. It is not safe for concurrent use and
// must be closed exactly once.
type Conn struct {
	db     *sql.DB
	closed atomic.Bool
}

// QueryContext runs a statement that returns rows.
func (c *Conn) QueryContext(ctx context.Context, stmt string, args ...any) (*sql.Rows, error) {
	if c.closed.Load() {
		return nil, ErrConnectionUsed
	}
	return c.db.QueryContext(ctx, stmt, args...)
}

// QueryRowContext runs a statement expected to return at most one row.
func (c *Conn) QueryRowContext(ctx context.Context, stmt string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, stmt, args...)
}

// Close releases the connection. Calling it twice returns ErrConnectionUsed.
func (c *Conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrConnectionUsed
	}
	metrics.RecordConnectionClose()
	return c.db.Close()
}
