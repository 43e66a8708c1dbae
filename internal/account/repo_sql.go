package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
)

// SQLRepository domain.UserRepository over ITransactionalDB.
//
// Expects table "user"(id, name, email UNIQUE, password, login_retry, last_login BIGINT).
type SQLRepository struct {
	conn driver.ITransactionalDB
}

var _ domain.UserRepository = (*SQLRepository)(nil)

// NewSQLRepository create a repository on conn
func NewSQLRepository(conn driver.ITransactionalDB) *SQLRepository {
	return &SQLRepository{conn}
}

const selectUser = `SELECT id, name, email, password, login_retry, last_login FROM "user"`

// FindByEmail implement domain.UserRepository
func (repo *SQLRepository) FindByEmail(ctx context.Context, email string) (*domain.UserModel, error) {
	return repo.findOne(ctx, selectUser+` WHERE email = $1`, email)
}

// FindByID implement domain.UserRepository
func (repo *SQLRepository) FindByID(ctx context.Context, id string) (*domain.UserModel, error) {
	return repo.findOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (repo *SQLRepository) findOne(ctx context.Context, query string, args ...interface{}) (*domain.UserModel, error) {
	rows, err := repo.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	var (
		user      = new(domain.UserModel)
		lastLogin int64
	)
	if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.LoginRetry, &lastLogin); err != nil {
		return nil, err
	}
	if lastLogin > 0 {
		user.LastLogin = time.Unix(lastLogin, 0)
	}
	return user, nil
}

// SaveUser implement domain.UserRepository, post.ID must be set
func (repo *SQLRepository) SaveUser(ctx context.Context, post *domain.UserModel) error {
	_, err := repo.conn.ExecContext(ctx, `INSERT INTO "user"(id, name, email, password, login_retry, last_login)
	VALUES($1, $2, $3, $4, $5, $6)`,
		post.ID, post.Name, post.Email, post.Password, post.LoginRetry, unixOrZero(post.LastLogin))
	if driver.IsDuplicateKey(err) {
		return domain.ErrDuplicatedUser
	}
	return err
}

// UpdateUser implement domain.UserRepository
func (repo *SQLRepository) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	_, err := repo.conn.ExecContext(ctx, `UPDATE "user"
	SET name = $1,
		email = $2,
		password = $3,
		login_retry = $4,
		last_login = $5
	WHERE id = $6`,
		post.Name, post.Email, post.Password, post.LoginRetry, unixOrZero(post.LastLogin), post.ID)
	if driver.IsDuplicateKey(err) {
		return domain.ErrDuplicatedUser
	}
	return err
}

// Transaction implement domain.UserRepository
func (repo *SQLRepository) Transaction(ctx context.Context, fn func(repo domain.UserRepository) error) (err error) {
	tx, err := repo.conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelRepeatableRead,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(&SQLRepository{tx})
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}
