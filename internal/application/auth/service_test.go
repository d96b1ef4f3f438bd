package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-course-builder-api/internal/domain/entity"
	"ai-course-builder-api/internal/domain/repository"
	apperrors "ai-course-builder-api/pkg/errors"
	"ai-course-builder-api/pkg/utils"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestService() (*Service, *utils.JWTManager) {
	jwt := utils.NewJWTManager("test-secret", "test", 0)
	return NewService(&memUserRepo{users: map[string]*entity.User{}}, jwt), jwt
}

func TestRegisterAndLogin(t *testing.T) {
	svc, jwt := newTestService()
	ctx := context.Background()

	res, err := svc.Register(ctx, Credentials{Email: " Ada@Example.com ", Password: "secret", Name: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "Ada", res.User.Name)
	assert.EqualValues(t, utils.DefaultTokenTTL.Seconds(), res.ExpiresIn)

	claims, err := jwt.ParseToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID())

	login, err := svc.Login(ctx, Credentials{Email: "ada@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	me, err := svc.Me(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", me.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Credentials{Email: "A@B.C", Password: "y"})
	assert.ErrorIs(t, err, apperrors.ErrUserExists)
	assert.Equal(t, 409, apperrors.AsAppError(err).HTTPStatus)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Email: "a@b.c", Password: "right"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Email: "a@b.c", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, Credentials{Email: "nobody@b.c", Password: "right"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.Equal(t, 401, apperrors.AsAppError(err).HTTPStatus)
}

func TestCredentialsRequired(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, Credentials{Email: "a@b.c"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)

	_, err = svc.Login(ctx, Credentials{Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidParam)
}

func TestMeUnknownUser(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
