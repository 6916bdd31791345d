package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
)

func newAuth(t *testing.T) (*AuthService, *authz.Gate) {
	t.Helper()
	gate := authz.NewGate("test-secret", 0)
	return NewAuthService(memUsers{newMemDB()}, gate, bcrypt.MinCost), gate
}

func TestRegister(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{Name: " Ana ", Email: " ana@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.NotZero(t, u.ID)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ana2", Email: "ana@example.com", Password: "secret2"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)

	// exact match: differently cased email is a different account
	_, err = svc.Register(ctx, RegisterInput{Name: "Ana3", Email: "Ana@example.com", Password: "secret3"})
	assert.NoError(t, err)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuth(t)
	for _, in := range []RegisterInput{
		{Email: "a@b.c", Password: "secret1"},
		{Name: "A", Password: "secret1"},
		{Name: "A", Email: "a@b.c"},
		{Name: "A", Email: "a@b.c", Password: "12345"},
	} {
		_, err := svc.Register(context.Background(), in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), "%+v: got %v", in, err)
	}
}

func TestLogin(t *testing.T) {
	svc, gate := newAuth(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	id, err := gate.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, authz.Identity{ID: u.ID, Role: model.RoleUser}, id)

	_, err = svc.Login(ctx, "ana@example.com", "wrong-pass")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "got %v", err)
	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated), "got %v", err)
	_, err = svc.Login(ctx, "", "secret1")
	assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
}

func TestMe(t *testing.T) {
	svc, _ := newAuth(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	got, err := svc.Me(ctx, authz.Identity{ID: u.ID, Role: u.Role})
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Me(ctx, authz.Identity{ID: 999, Role: model.RoleUser})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)
}
