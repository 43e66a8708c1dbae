package account

import (
	"context"
	"errors"
	"time"

	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
	"github.com/pot-code/go-storefront/internal/infrastructure/mail"
	"github.com/pot-code/go-storefront/internal/infrastructure/uuid"
	"go.elastic.co/apm"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenPrefix = "reset:"

// Options account policy knobs
type Options struct {
	MaxLoginAttempts int           // failed sign ins before the account is locked
	RetryTimeout     time.Duration // lock duration
	ResetTokenTTL    time.Duration // password reset link lifetime
	ResetURL         string        // reset page, the token is appended
	HashCost         int           // bcrypt cost, bcrypt.DefaultCost when zero
}

// UseCase domain.UserUseCase implementation
type UseCase struct {
	repo    domain.UserRepository
	kv      driver.KeyValueDB
	ids     uuid.Generator
	tokens  uuid.Generator
	mailer  mail.Mailer
	options Options
	now     func() time.Time
}

var _ domain.UserUseCase = (*UseCase)(nil)

// NewUseCase create an account use case, ids names entities and tokens names reset links
func NewUseCase(
	repo domain.UserRepository,
	kv driver.KeyValueDB,
	ids uuid.Generator,
	tokens uuid.Generator,
	mailer mail.Mailer,
	options Options,
) *UseCase {
	if options.HashCost == 0 {
		options.HashCost = bcrypt.DefaultCost
	}
	return &UseCase{
		repo:    repo,
		kv:      kv,
		ids:     ids,
		tokens:  tokens,
		mailer:  mailer,
		options: options,
		now:     time.Now,
	}
}

func (uu *UseCase) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), uu.options.HashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// passwordMatches reports whether password matches the stored hash,
// non mismatch bcrypt failures are returned as errors
func passwordMatches(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// SignUp create a user
func (uu *UseCase) SignUp(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.SignUp", "service")
	defer apmSpan.End()

	if m, err := uu.repo.FindByEmail(ctx, post.Email); err != nil {
		return nil, err
	} else if m != nil {
		return nil, domain.ErrDuplicatedUser
	}

	id, err := uu.ids.Generate()
	if err != nil {
		return nil, err
	}
	password, err := uu.hash(post.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.UserModel{
		ID:       id,
		Name:     post.Name,
		Email:    post.Email,
		Password: password,
	}
	if err := uu.repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SignIn check the credential, accounts are locked for RetryTimeout after
// MaxLoginAttempts consecutive failures
func (uu *UseCase) SignIn(ctx context.Context, email, password string) (user *domain.UserModel, err error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.SignIn", "service")
	defer apmSpan.End()

	var signInErr error
	err = uu.repo.Transaction(ctx, func(repo domain.UserRepository) error {
		found, err := repo.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if found == nil {
			signInErr = domain.ErrNoSuchUser
			return nil
		}

		now := uu.now()
		if found.LoginRetry >= uu.options.MaxLoginAttempts {
			if now.Sub(found.LastLogin) < uu.options.RetryTimeout {
				signInErr = domain.ErrUserTooManyRetry
				return nil
			}
			found.LoginRetry = 0
		}

		ok, err := passwordMatches(found.Password, password)
		if err != nil {
			return err
		}
		found.LastLogin = now
		if !ok {
			found.LoginRetry++
			signInErr = domain.ErrNoSuchUser
		} else {
			found.LoginRetry = 0
			user = found
		}
		return repo.UpdateUser(ctx, found)
	})
	if err != nil {
		return nil, err
	}
	if signInErr != nil {
		return nil, signInErr
	}
	return user, nil
}

// Exists find if email is registered
func (uu *UseCase) Exists(ctx context.Context, email string) (bool, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.Exists", "service")
	defer apmSpan.End()

	user, err := uu.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Profile get user by id
func (uu *UseCase) Profile(ctx context.Context, id string) (*domain.UserModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.Profile", "service")
	defer apmSpan.End()

	return uu.mustFind(ctx, uu.repo, id)
}

func (uu *UseCase) mustFind(ctx context.Context, repo domain.UserRepository, id string) (*domain.UserModel, error) {
	user, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSuchUser
	}
	return user, nil
}

// UpdateProfile rename user
func (uu *UseCase) UpdateProfile(ctx context.Context, id, name string) (*domain.UserModel, error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.UpdateProfile", "service")
	defer apmSpan.End()

	user, err := uu.mustFind(ctx, uu.repo, id)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := uu.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateEmail change email after confirming the password
func (uu *UseCase) UpdateEmail(ctx context.Context, id, newEmail, password string) (user *domain.UserModel, err error) {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.UpdateEmail", "service")
	defer apmSpan.End()

	err = uu.repo.Transaction(ctx, func(repo domain.UserRepository) error {
		found, err := uu.mustFind(ctx, repo, id)
		if err != nil {
			return err
		}
		if ok, err := passwordMatches(found.Password, password); err != nil {
			return err
		} else if !ok {
			return domain.ErrPasswordMismatch
		}

		if other, err := repo.FindByEmail(ctx, newEmail); err != nil {
			return err
		} else if other != nil && other.ID != found.ID {
			return domain.ErrDuplicatedUser
		}

		found.Email = newEmail
		if err := repo.UpdateUser(ctx, found); err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword change password after confirming the current one
func (uu *UseCase) UpdatePassword(ctx context.Context, id, current, password string) error {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.UpdatePassword", "service")
	defer apmSpan.End()

	user, err := uu.mustFind(ctx, uu.repo, id)
	if err != nil {
		return err
	}
	if ok, err := passwordMatches(user.Password, current); err != nil {
		return err
	} else if !ok {
		return domain.ErrPasswordMismatch
	}

	hashed, err := uu.hash(password)
	if err != nil {
		return err
	}
	user.Password = hashed
	return uu.repo.UpdateUser(ctx, user)
}

// ForgotPassword mail a reset link, unknown emails succeed silently
func (uu *UseCase) ForgotPassword(ctx context.Context, email string) error {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.ForgotPassword", "service")
	defer apmSpan.End()

	user, err := uu.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	token, err := uu.tokens.Generate()
	if err != nil {
		return err
	}
	if err := uu.kv.SetEX(ctx, resetTokenPrefix+token, user.ID, uu.options.ResetTokenTTL); err != nil {
		return err
	}
	return uu.mailer.SendPasswordReset(ctx, user.Email, uu.options.ResetURL+token)
}

// ResetPassword consume token and set a new password
func (uu *UseCase) ResetPassword(ctx context.Context, token, password string) error {
	apmSpan, ctx := apm.StartSpan(ctx, "UseCase.ResetPassword", "service")
	defer apmSpan.End()

	key := resetTokenPrefix + token
	id, err := uu.kv.Get(ctx, key)
	if errors.Is(err, driver.ErrKeyNotFound) {
		return domain.ErrInvalidResetToken
	} else if err != nil {
		return err
	}
	// the caller whose Del removes the key owns the token
	if deleted, err := uu.kv.Del(ctx, key); err != nil {
		return err
	} else if !deleted {
		return domain.ErrInvalidResetToken
	}

	user, err := uu.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrInvalidResetToken
	}
	hashed, err := uu.hash(password)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.LoginRetry = 0
	return uu.repo.UpdateUser(ctx, user)
}
