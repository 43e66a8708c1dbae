package domain

import (
	"context"
	"time"
)

// UserModel storefront account
type UserModel struct {
	ID         string
	Name       string
	Email      string
	Password   string // bcrypt hash once persisted
	LoginRetry int
	LastLogin  time.Time
}

// UserUseCase account operations exposed to the transport layer
type UserUseCase interface {
	SignUp(ctx context.Context, post *UserModel) (*UserModel, error)
	SignIn(ctx context.Context, email, password string) (*UserModel, error)
	Exists(ctx context.Context, email string) (bool, error)
	Profile(ctx context.Context, id string) (*UserModel, error)
	UpdateProfile(ctx context.Context, id, name string) (*UserModel, error)
	UpdateEmail(ctx context.Context, id, newEmail, password string) (*UserModel, error)
	UpdatePassword(ctx context.Context, id, current, password string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

// UserRepository account persistence, finders return nil without error on miss
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*UserModel, error)
	FindByID(ctx context.Context, id string) (*UserModel, error)
	SaveUser(ctx context.Context, post *UserModel) error
	UpdateUser(ctx context.Context, post *UserModel) error
	// Transaction run fn with a repository bound to a single transaction,
	// committed when fn returns nil
	Transaction(ctx context.Context, fn func(repo UserRepository) error) error
}
