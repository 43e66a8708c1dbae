package account

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDB struct {
	execErr    error
	queries    []string
	committed  bool
	rolledBack bool
	opts       *driver.TxOptions
}

func (db *fakeDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	db.queries = append(db.queries, query)
	return nil, db.execErr
}

func (db *fakeDB) QueryContext(ctx context.Context, query string, args ...interface{}) (driver.ISQLRows, error) {
	db.queries = append(db.queries, query)
	return emptyRows{}, nil
}

func (db *fakeDB) BeginTx(ctx context.Context, opts *driver.TxOptions) (driver.ITransactionalDB, error) {
	db.opts = opts
	return db, nil
}

func (db *fakeDB) Commit(ctx context.Context) error {
	db.committed = true
	return nil
}

func (db *fakeDB) Rollback(ctx context.Context) error {
	db.rolledBack = true
	return nil
}

func (db *fakeDB) Close(ctx context.Context) error { return nil }
func (db *fakeDB) Ping(ctx context.Context) error  { return nil }

type emptyRows struct{}

func (emptyRows) Next() bool                { return false }
func (emptyRows) Scan(...interface{}) error { return nil }
func (emptyRows) Close() error              { return nil }

func TestSQLRepository_FindMiss(t *testing.T) {
	db := new(fakeDB)
	repo := NewSQLRepository(db)

	user, err := repo.FindByEmail(context.Background(), "a@b.co")
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Contains(t, db.queries[0], "WHERE email = $1")
}

func TestSQLRepository_SaveDuplicate(t *testing.T) {
	db := &fakeDB{execErr: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}}
	repo := NewSQLRepository(db)

	err := repo.SaveUser(context.Background(), &domain.UserModel{ID: "u1", Email: "a@b.co"})
	assert.ErrorIs(t, err, domain.ErrDuplicatedUser)
}

func TestSQLRepository_Transaction(t *testing.T) {
	db := new(fakeDB)
	repo := NewSQLRepository(db)

	require.NoError(t, repo.Transaction(context.Background(), func(tx domain.UserRepository) error {
		return tx.UpdateUser(context.Background(), &domain.UserModel{ID: "u1"})
	}))
	assert.True(t, db.committed)
	assert.False(t, db.rolledBack)
	assert.Equal(t, sql.LevelRepeatableRead, db.opts.Isolation)

	db = new(fakeDB)
	repo = NewSQLRepository(db)
	boom := errors.New("boom")
	err := repo.Transaction(context.Background(), func(tx domain.UserRepository) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, db.rolledBack)
	assert.False(t, db.committed)
}
