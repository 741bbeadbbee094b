package postgres

import (
	"context"
	"net/url"
	"testing"

	"competency-hub/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		DBHost:     " db.internal ",
		DBPort:     "5433",
		DBName:     "hub",
		DBUser:     "hr",
		DBPassword: "p@ss word/?",
		DBSSLMode:  "require",
	})

	u, err := url.Parse(dsn)
	require.NoError(t, err)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss word/?", pw)
	assert.Equal(t, "db.internal:5433", u.Host)
	assert.Equal(t, "/hub", u.Path)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
	assert.Equal(t, applicationName, u.Query().Get("application_name"))

	pcfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	assert.Equal(t, "p@ss word/?", pcfg.ConnConfig.Password)
	assert.Equal(t, uint16(5433), pcfg.ConnConfig.Port)
}

func TestApplyPoolLimits_KeepsDefaultsForZero(t *testing.T) {
	pcfg, err := pgxpool.ParseConfig(DSN(config.DatabaseConfig{DBHost: "localhost", DBPort: "5432", DBName: "hub"}))
	require.NoError(t, err)
	before := pcfg.MaxConns

	applyPoolLimits(pcfg, config.DatabaseConfig{PoolMinConns: 2})

	assert.Equal(t, before, pcfg.MaxConns)
	assert.Equal(t, int32(2), pcfg.MinConns)
}

func TestNilAdapters(t *testing.T) {
	ctx := context.Background()
	var s stmts

	_, err := s.Exec(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilDB)
	_, err = s.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, errNilDB)
	assert.ErrorIs(t, s.QueryRow(ctx, "SELECT 1").Scan(), errNilDB)

	var p *Pool
	assert.ErrorIs(t, p.Ping(ctx), errNilDB)
	assert.NoError(t, p.Close())
	assert.Nil(t, p.SQLDB())
}
