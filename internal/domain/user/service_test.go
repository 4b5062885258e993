package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence/memory"
)

func newService() (user.Service, user.Repository) {
	repo := memory.NewUserRepository(memory.NewStore())
	return user.NewServiceWithCost(repo, bcrypt.MinCost), repo
}

func TestRegister_PasswordStrength(t *testing.T) {
	svc, _ := newService()

	tests := []struct {
		password string
		ok       bool
	}{
		{"Passw0rd#", true},
		{"Sh0rt#", false},
		{"password0#", false},
		{"PASSWORD0#", false},
		{"Password##", false},
		{"Password00", false},
	}

	for i, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			_, err := svc.Register(context.Background(), user.RegisterParams{
				Username: "u" + string(rune('a'+i)),
				Email:    "u" + string(rune('a'+i)) + "@example.com",
				Password: tt.password,
			})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, user.ErrWeakPassword)
			}
		})
	}
}

func TestRegister_HashesPassword(t *testing.T) {
	svc, repo := newService()

	u, err := svc.Register(context.Background(), user.RegisterParams{
		Username: "alice", Email: "alice@example.com", Password: "Passw0rd#",
	}, "Customer")
	require.NoError(t, err)

	stored, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd#", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Passw0rd#")))
}

func TestRegister_InvalidInput(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Register(context.Background(), user.RegisterParams{Username: " ", Email: "a@example.com", Password: "Passw0rd#"})
	assert.ErrorIs(t, err, user.ErrInvalidUsername)

	_, err = svc.Register(context.Background(), user.RegisterParams{Username: "a", Email: "not-an-email", Password: "Passw0rd#"})
	assert.ErrorIs(t, err, user.ErrInvalidEmail)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Register(context.Background(), user.RegisterParams{Username: "alice", Email: "alice@example.com", Password: "Passw0rd#"})
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "alice", "Passw0rd#")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = svc.Authenticate(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "bob", "Passw0rd#")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials, "用户不存在与密码错误返回同一个错误")
}
