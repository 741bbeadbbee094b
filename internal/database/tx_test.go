package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	commits   int
	rollbacks int
	commitErr error
}

func (t *fakeTx) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (t *fakeTx) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (t *fakeTx) QueryRow(context.Context, string, ...any) Row        { return nil }
func (t *fakeTx) Commit(context.Context) error {
	t.commits++
	return t.commitErr
}
func (t *fakeTx) Rollback(context.Context) error {
	t.rollbacks++
	return nil
}

type fakeDB struct {
	tx *fakeTx
}

func (d *fakeDB) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }
func (d *fakeDB) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (d *fakeDB) QueryRow(context.Context, string, ...any) Row        { return nil }
func (d *fakeDB) Ping(context.Context) error                          { return nil }
func (d *fakeDB) Close() error                                        { return nil }
func (d *fakeDB) Begin(context.Context) (Tx, error)                   { return d.tx, nil }
func (d *fakeDB) SQLDB() *sql.DB                                      { return nil }

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	err := WithTx(context.Background(), db, func(Tx) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, db.tx.commits)
	assert.Equal(t, 0, db.tx.rollbacks)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	boom := errors.New("boom")
	err := WithTx(context.Background(), db, func(Tx) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, db.tx.commits)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	assert.Panics(t, func() {
		_ = WithTx(context.Background(), db, func(Tx) error { panic("boom") })
	})
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestWithTx_RollsBackWhenCommitFails(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{commitErr: errors.New("serialization")}}
	err := WithTx(context.Background(), db, func(Tx) error { return nil })
	require.Error(t, err)
	assert.Equal(t, 1, db.tx.rollbacks)
}
