package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pot-code/go-storefront/internal/domain"
	"github.com/pot-code/go-storefront/internal/infrastructure/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memoryRepo struct {
	mu    sync.Mutex
	users map[string]domain.UserModel
	fail  error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]domain.UserModel)}
}

func (m *memoryRepo) FindByEmail(ctx context.Context, email string) (*domain.UserModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memoryRepo) FindByID(ctx context.Context, id string) (*domain.UserModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memoryRepo) SaveUser(ctx context.Context, post *domain.UserModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == post.Email {
			return domain.ErrDuplicatedUser
		}
	}
	m.users[post.ID] = *post
	return nil
}

func (m *memoryRepo) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[post.ID] = *post
	return nil
}

func (m *memoryRepo) Transaction(ctx context.Context, fn func(repo domain.UserRepository) error) error {
	return fn(m)
}

type sequenceGenerator struct {
	prefix string
	n      int
}

func (g *sequenceGenerator) Generate() (string, error) {
	g.n++
	return fmt.Sprintf("%s%d", g.prefix, g.n), nil
}

type sentMail struct{ to, link string }

type recordingMailer struct {
	sent []sentMail
	err  error
}

func (r *recordingMailer) SendPasswordReset(ctx context.Context, to, link string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, sentMail{to, link})
	return nil
}

type fixture struct {
	uc     *UseCase
	repo   *memoryRepo
	mailer *recordingMailer
	mr     *miniredis.Miniredis
	clock  time.Time
}

func newFixture(t *testing.T) *fixture {
	mr := miniredis.RunT(t)
	f := &fixture{
		repo:   newMemoryRepo(),
		mailer: new(recordingMailer),
		mr:     mr,
		clock:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	f.uc = NewUseCase(
		f.repo,
		driver.NewRedisClientAddr(mr.Addr(), ""),
		&sequenceGenerator{prefix: "user-"},
		&sequenceGenerator{prefix: "token-"},
		f.mailer,
		Options{
			MaxLoginAttempts: 3,
			RetryTimeout:     time.Hour,
			ResetTokenTTL:    30 * time.Minute,
			ResetURL:         "https://shop.example/reset-password/",
			HashCost:         bcrypt.MinCost,
		},
	)
	f.uc.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) signUp(t *testing.T) *domain.UserModel {
	user, err := f.uc.SignUp(context.Background(), &domain.UserModel{
		Name: "Ayşe Yılmaz", Email: "ayse@shop.example", Password: "Secret1",
	})
	require.NoError(t, err)
	return user
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	user := f.signUp(t)

	assert.Equal(t, "user-1", user.ID)
	assert.NotEqual(t, "Secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("Secret1")))

	_, err := f.uc.SignUp(context.Background(), &domain.UserModel{Email: "ayse@shop.example", Password: "Other1"})
	assert.ErrorIs(t, err, domain.ErrDuplicatedUser)
}

func TestSignIn(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	user, err := f.uc.SignIn(ctx, "ayse@shop.example", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)

	_, err = f.uc.SignIn(ctx, "nobody@shop.example", "Secret1")
	assert.ErrorIs(t, err, domain.ErrNoSuchUser)
}

func TestSignIn_LockAfterRetries(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.uc.SignIn(ctx, "ayse@shop.example", "wrong")
		assert.ErrorIs(t, err, domain.ErrNoSuchUser)
	}
	_, err := f.uc.SignIn(ctx, "ayse@shop.example", "Secret1")
	assert.ErrorIs(t, err, domain.ErrUserTooManyRetry)

	f.clock = f.clock.Add(time.Hour)
	user, err := f.uc.SignIn(ctx, "ayse@shop.example", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, 0, user.LoginRetry)
	assert.Equal(t, 0, f.repo.users["user-1"].LoginRetry)
}

func TestSignIn_SuccessResetsRetry(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	_, err := f.uc.SignIn(ctx, "ayse@shop.example", "wrong")
	require.ErrorIs(t, err, domain.ErrNoSuchUser)
	assert.Equal(t, 1, f.repo.users["user-1"].LoginRetry)

	_, err = f.uc.SignIn(ctx, "ayse@shop.example", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, 0, f.repo.users["user-1"].LoginRetry)
}

func TestExists(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	ok, err := f.uc.Exists(ctx, "ayse@shop.example")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.uc.Exists(ctx, "nobody@shop.example")
	require.NoError(t, err)
	assert.False(t, ok)

	f.repo.fail = errors.New("db down")
	_, err = f.uc.Exists(ctx, "ayse@shop.example")
	assert.EqualError(t, err, "db down")
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	user, err := f.uc.UpdateProfile(ctx, "user-1", "Ayşe Kaya")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Kaya", user.Name)

	user, err = f.uc.Profile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ayşe Kaya", user.Name)

	_, err = f.uc.Profile(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNoSuchUser)
}

func TestUpdateEmail(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()
	_, err := f.uc.SignUp(ctx, &domain.UserModel{Name: "Mehmet", Email: "mehmet@shop.example", Password: "Secret1"})
	require.NoError(t, err)

	_, err = f.uc.UpdateEmail(ctx, "user-1", "new@shop.example", "wrong")
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	_, err = f.uc.UpdateEmail(ctx, "user-1", "mehmet@shop.example", "Secret1")
	assert.ErrorIs(t, err, domain.ErrDuplicatedUser)

	user, err := f.uc.UpdateEmail(ctx, "user-1", "new@shop.example", "Secret1")
	require.NoError(t, err)
	assert.Equal(t, "new@shop.example", user.Email)
	assert.Equal(t, "new@shop.example", f.repo.users["user-1"].Email)
}

func TestUpdatePassword(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.UpdatePassword(ctx, "user-1", "wrong", "Newer2"), domain.ErrPasswordMismatch)
	require.NoError(t, f.uc.UpdatePassword(ctx, "user-1", "Secret1", "Newer2"))

	_, err := f.uc.SignIn(ctx, "ayse@shop.example", "Newer2")
	assert.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	require.NoError(t, f.uc.ForgotPassword(ctx, "nobody@shop.example"))
	assert.Empty(t, f.mailer.sent)

	require.NoError(t, f.uc.ForgotPassword(ctx, "ayse@shop.example"))
	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, "ayse@shop.example", f.mailer.sent[0].to)
	assert.Equal(t, "https://shop.example/reset-password/token-1", f.mailer.sent[0].link)

	token := strings.TrimPrefix(f.mailer.sent[0].link, "https://shop.example/reset-password/")
	assert.ErrorIs(t, f.uc.ResetPassword(ctx, "bogus", "Newer2"), domain.ErrInvalidResetToken)
	require.NoError(t, f.uc.ResetPassword(ctx, token, "Newer2"))
	assert.ErrorIs(t, f.uc.ResetPassword(ctx, token, "Again3"), domain.ErrInvalidResetToken)

	_, err := f.uc.SignIn(ctx, "ayse@shop.example", "Newer2")
	assert.NoError(t, err)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()

	require.NoError(t, f.uc.ForgotPassword(ctx, "ayse@shop.example"))
	f.mr.FastForward(31 * time.Minute)
	assert.ErrorIs(t, f.uc.ResetPassword(ctx, "token-1", "Newer2"), domain.ErrInvalidResetToken)
}

func TestResetPassword_ConcurrentUse(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	ctx := context.Background()
	require.NoError(t, f.uc.ForgotPassword(ctx, "ayse@shop.example"))

	passwords := []string{"Newer2", "Other3"}
	errs := make([]error, len(passwords))
	var wg sync.WaitGroup
	for i, password := range passwords {
		wg.Add(1)
		go func(i int, password string) {
			defer wg.Done()
			errs[i] = f.uc.ResetPassword(ctx, "token-1", password)
		}(i, password)
	}
	wg.Wait()

	var succeeded []string
	for i, err := range errs {
		if err == nil {
			succeeded = append(succeeded, passwords[i])
			continue
		}
		assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
	}
	require.Len(t, succeeded, 1)
	_, err := f.uc.SignIn(ctx, "ayse@shop.example", succeeded[0])
	assert.NoError(t, err)
}

func TestForgotPassword_MailError(t *testing.T) {
	f := newFixture(t)
	f.signUp(t)
	f.mailer.err = errors.New("smtp down")

	assert.EqualError(t, f.uc.ForgotPassword(context.Background(), "ayse@shop.example"), "smtp down")
}
