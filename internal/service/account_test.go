package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-account-portal/internal/domain"
	"go-account-portal/pkg/utils"
)

type fakeRepo struct {
	users map[string]*domain.User // key: email
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*domain.User{}}
}

func (r *fakeRepo) Create(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.Email]; ok {
		return domain.ErrEmailTaken
	}
	r.users[u.Email] = u
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, nil
}

func (r *fakeRepo) FindDeviceByUserAgent(_ context.Context, userID, ua string) (*domain.Device, error) {
	for _, u := range r.users {
		if u.ID != userID {
			continue
		}
		for i := range u.Devices {
			if u.Devices[i].UserAgent == ua {
				return &u.Devices[i], nil
			}
		}
	}
	return nil, nil
}

func (r *fakeRepo) List(_ context.Context, _ domain.ListQuery) ([]domain.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id string) error {
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func validInput() RegisterInput {
	return RegisterInput{
		Email:     "user@example.com",
		Password:  "abcdefgh",
		Birthdate: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		UserAgent: "test-agent/1.0",
	}
}

func TestRegisterSuccess(t *testing.T) {
	svc := NewAccountService(newFakeRepo())

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "user@example.com", u.Email)
	assert.NotEqual(t, "abcdefgh", u.PasswordHash)
	assert.True(t, utils.CheckPassword("abcdefgh", u.PasswordHash))
	require.Len(t, u.Devices, 1)
	assert.Equal(t, "test-agent/1.0", u.Devices[0].UserAgent)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc := NewAccountService(newFakeRepo())

	in := validInput()
	in.Email = "  User@Example.COM "
	u, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", u.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewAccountService(repo)

	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Email = "USER@example.com"
	_, err = svc.Register(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Len(t, repo.users, 1)
}

func TestRegisterWithoutUserAgent(t *testing.T) {
	svc := NewAccountService(newFakeRepo())

	in := validInput()
	in.UserAgent = "   "
	u, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, u.Devices)
}

func TestAuthenticateSuccess(t *testing.T) {
	svc := NewAccountService(newFakeRepo())
	reg, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "User@Example.com", "abcdefgh")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
}

func TestAuthenticateFailureIsUniform(t *testing.T) {
	svc := NewAccountService(newFakeRepo())
	_, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	// 未知邮箱和错误密码必须是同一个错误
	_, errUnknown := svc.Authenticate(context.Background(), "nobody@example.com", "abcdefgh")
	_, errWrongPw := svc.Authenticate(context.Background(), "user@example.com", "wrongpass1")

	assert.ErrorIs(t, errUnknown, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, domain.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrongPw)
}
