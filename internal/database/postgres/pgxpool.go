package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/url"
	"strings"
	"time"

	"competency-hub/internal/config"
	"competency-hub/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

const applicationName = "competency-hub"

var errNilDB = errors.New("nil db")

// DSN renders cfg as a postgres:// URL so credentials are escaped.
func DSN(cfg config.DatabaseConfig) string {
	q := url.Values{}
	if mode := strings.TrimSpace(cfg.DBSSLMode); mode != "" {
		q.Set("sslmode", mode)
	}
	q.Set("application_name", applicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(strings.TrimSpace(cfg.DBUser), cfg.DBPassword),
		Host:     net.JoinHostPort(strings.TrimSpace(cfg.DBHost), strings.TrimSpace(cfg.DBPort)),
		Path:     "/" + strings.TrimSpace(cfg.DBName),
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Connect opens a pool and verifies it with a ping. Failing statements are
// logged through logger.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Pool, error) {
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, err
	}
	applyPoolLimits(pcfg, cfg)
	pcfg.ConnConfig.Tracer = &tracelog.TraceLog{
		Logger:   traceLogger(logger.With().Str("component", "pgx").Logger()),
		LogLevel: tracelog.LogLevelWarn,
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, err
	}

	return &Pool{stmts: stmts{q: p}, pool: p, sqlDB: stdlib.OpenDBFromPool(p)}, nil
}

func applyPoolLimits(pcfg *pgxpool.Config, cfg config.DatabaseConfig) {
	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if cfg.PoolMaxConns > 0 {
		pcfg.MaxConns = cfg.PoolMaxConns
	}
	if cfg.PoolMinConns > 0 {
		pcfg.MinConns = cfg.PoolMinConns
	}
	if cfg.PoolMaxConnLifetime > 0 {
		pcfg.MaxConnLifetime = cfg.PoolMaxConnLifetime
	}
	if cfg.PoolMaxConnIdleTime > 0 {
		pcfg.MaxConnIdleTime = cfg.PoolMaxConnIdleTime
	}
	if cfg.PoolHealthCheckPeriod > 0 {
		pcfg.HealthCheckPeriod = cfg.PoolHealthCheckPeriod
	}
}

func traceLogger(logger zerolog.Logger) tracelog.LoggerFunc {
	return func(_ context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		ev := logger.Debug()
		switch level {
		case tracelog.LogLevelError:
			ev = logger.Error()
		case tracelog.LogLevelWarn:
			ev = logger.Warn()
		case tracelog.LogLevelInfo:
			ev = logger.Info()
		}
		ev.Fields(data).Msg(msg)
	}
}

// pgxQuerier is what pgxpool.Pool and pgx.Tx have in common.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// stmts adapts a pgx querier to database.Querier.
type stmts struct {
	q pgxQuerier
}

func (s stmts) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if s.q == nil {
		return 0, errNilDB
	}
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s stmts) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if s.q == nil {
		return nil, errNilDB
	}
	r, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s stmts) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	if s.q == nil {
		return errRow{err: errNilDB}
	}
	return s.q.QueryRow(ctx, query, args...)
}

type Pool struct {
	stmts
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

var _ database.DB = (*Pool)(nil)

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return errNilDB
	}
	return p.pool.Ping(ctx)
}

// Begin starts a read-committed transaction; staffing relies on row-level
// updates guarded by "employee_id IS NULL" rather than on isolation.
func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	if p == nil || p.pool == nil {
		return nil, errNilDB
	}
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, err
	}
	return pgxTx{stmts: stmts{q: tx}, tx: tx}, nil
}

// SQLDB exposes the pool through database/sql for the migration runner.
func (p *Pool) SQLDB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.sqlDB
}

func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	var err error
	if p.sqlDB != nil {
		err = p.sqlDB.Close()
	}
	if p.pool != nil {
		p.pool.Close()
	}
	return err
}

type pgxTx struct {
	stmts
	tx pgx.Tx
}

func (t pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }
