package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	appuser "github.com/xiebiao/bookstore-orders/internal/application/user"
	"github.com/xiebiao/bookstore-orders/internal/domain/auth"
	"github.com/xiebiao/bookstore-orders/internal/domain/user"
	"github.com/xiebiao/bookstore-orders/internal/infrastructure/persistence"
	apperrors "github.com/xiebiao/bookstore-orders/pkg/errors"
	"github.com/xiebiao/bookstore-orders/pkg/jwt"
)

const strongPassword = "Passw0rd#1"

type fixture struct {
	repos    *persistence.Repositories
	tokens   *jwt.Manager
	register *appuser.RegisterUseCase
	login    *appuser.LoginUseCase
	logout   *appuser.LogoutUseCase
	account  *appuser.AccountUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := persistence.NewMemory()
	svc := user.NewServiceWithCost(repos.Users, bcrypt.MinCost)
	tokens := jwt.NewManager("test-secret-test-secret-test-secret", 0)

	return &fixture{
		repos:    repos,
		tokens:   tokens,
		register: appuser.NewRegisterUseCase(repos.Users, svc),
		login:    appuser.NewLoginUseCase(svc, tokens, repos.Sessions),
		logout:   appuser.NewLogoutUseCase(repos.Sessions),
		account:  appuser.NewAccountUseCase(repos.Users, svc),
	}
}

func (f *fixture) customer(t *testing.T, username string) (*appuser.UserView, auth.Principal) {
	t.Helper()
	v, err := f.register.RegisterCustomer(context.Background(), appuser.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: strongPassword,
		FullName: "Full " + username,
	})
	require.NoError(t, err)
	return v, auth.Principal{UserID: v.ID, Username: v.Username, Roles: v.Roles}
}

func TestRegisterCustomer(t *testing.T) {
	f := newFixture(t)

	v, _ := f.customer(t, "alice")
	assert.Equal(t, []string{auth.RoleCustomer}, v.Roles)
	assert.NotEmpty(t, v.ID)

	_, err := f.register.RegisterCustomer(context.Background(), appuser.RegisterRequest{
		Username: "alice", Email: "other@example.com", Password: strongPassword,
	})
	require.ErrorIs(t, err, user.ErrUsernameDuplicate)
	assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())

	_, err = f.register.RegisterCustomer(context.Background(), appuser.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "weak",
	})
	require.ErrorIs(t, err, user.ErrWeakPassword)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	f := newFixture(t)
	v, _ := f.customer(t, "alice")

	token, err := f.login.Execute(context.Background(), appuser.LoginRequest{Username: "alice", Password: strongPassword, ClientIP: "10.0.0.1"})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, v.ID, claims.SubjectID)
	assert.Equal(t, "alice", claims.Name)
	assert.True(t, claims.HasRole(auth.RoleCustomer))

	sess, err := f.repos.Sessions.Get(context.Background(), v.ID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "10.0.0.1", sess.ClientIP)
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "alice")

	for _, req := range []appuser.LoginRequest{
		{Username: "alice", Password: "Wrong#Pass1"},
		{Username: "nobody", Password: strongPassword},
	} {
		_, err := f.login.Execute(context.Background(), req)
		require.ErrorIs(t, err, user.ErrInvalidCredentials)
		assert.Equal(t, 401, apperrors.GetAppError(err).HTTPStatus())
	}
}

func TestLogout_TokenStaysValid(t *testing.T) {
	f := newFixture(t)
	v, p := f.customer(t, "alice")

	token, err := f.login.Execute(context.Background(), appuser.LoginRequest{Username: "alice", Password: strongPassword})
	require.NoError(t, err)
	require.NoError(t, f.logout.Execute(context.Background(), p))

	sess, err := f.repos.Sessions.Get(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Nil(t, sess, "登出后会话记录应删除")

	_, err = f.tokens.Verify(token, time.Now())
	assert.NoError(t, err, "Token无状态,登出后在过期前仍然有效")
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	_, p := f.customer(t, "alice")

	err := f.account.ChangePassword(context.Background(), p, "Wrong#Pass1", "NewPassw0rd!")
	require.ErrorIs(t, err, user.ErrWrongPassword)
	assert.Equal(t, 400, apperrors.GetAppError(err).HTTPStatus())

	require.NoError(t, f.account.ChangePassword(context.Background(), p, strongPassword, "NewPassw0rd!"))
	_, err = f.login.Execute(context.Background(), appuser.LoginRequest{Username: "alice", Password: "NewPassw0rd!"})
	assert.NoError(t, err)

	ghost := auth.Principal{UserID: "ghost"}
	err = f.account.ChangePassword(context.Background(), ghost, strongPassword, "NewPassw0rd!")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestEditProfile_OwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	alice, ap := f.customer(t, "alice")
	_, bp := f.customer(t, "bob")
	admin := auth.Principal{UserID: "admin", Roles: []string{auth.RoleAdmin}}

	err := f.account.EditProfile(context.Background(), bp, appuser.EditProfileRequest{UserID: alice.ID, FullName: "hacked"})
	require.ErrorIs(t, err, auth.ErrForbidden)

	require.NoError(t, f.account.EditProfile(context.Background(), ap, appuser.EditProfileRequest{UserID: alice.ID, Address: "上海市"}))
	require.NoError(t, f.account.EditProfile(context.Background(), admin, appuser.EditProfileRequest{UserID: alice.ID, PhoneNumber: "13800000000"}))

	got, err := f.account.GetCustomer(context.Background(), ap, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Full alice", got.FullName, "空字段不修改")
	assert.Equal(t, "上海市", got.Address)
	assert.Equal(t, "13800000000", got.PhoneNumber)

	err = f.account.EditProfile(context.Background(), ap, appuser.EditProfileRequest{UserID: alice.ID, Email: "bob@example.com"})
	assert.ErrorIs(t, err, user.ErrEmailDuplicate)

	err = f.account.EditProfile(context.Background(), admin, appuser.EditProfileRequest{UserID: "missing"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	f := newFixture(t)
	alice, ap := f.customer(t, "alice")
	bob, bp := f.customer(t, "bob")
	admin := auth.Principal{UserID: "admin", Roles: []string{auth.RoleAdmin}}

	require.ErrorIs(t, f.account.DeleteUser(context.Background(), bp, alice.ID), auth.ErrForbidden)
	require.NoError(t, f.account.DeleteUser(context.Background(), ap, alice.ID))
	require.NoError(t, f.account.DeleteUser(context.Background(), admin, bob.ID))
	assert.ErrorIs(t, f.account.DeleteUser(context.Background(), admin, bob.ID), user.ErrUserNotFound)
}

func TestListCustomers(t *testing.T) {
	f := newFixture(t)
	f.customer(t, "bob")
	f.customer(t, "alice")
	_, err := f.register.RegisterAdmin(context.Background(), appuser.RegisterRequest{
		Username: "root", Email: "root@example.com", Password: strongPassword,
	})
	require.NoError(t, err)

	list, err := f.account.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alice", list[0].Username)
}

func TestSeedAdmins_Idempotent(t *testing.T) {
	f := newFixture(t)
	_, p := f.customer(t, "ops")
	seeds := []appuser.AdminSeed{
		{Username: "admin", Email: "admin@example.com", Password: strongPassword},
		{Username: "ops", Email: "ops@example.com", Password: "ignored"},
	}

	require.NoError(t, f.register.SeedAdmins(context.Background(), seeds))
	require.NoError(t, f.register.SeedAdmins(context.Background(), seeds))

	admins, err := f.repos.Users.ListByRole(context.Background(), auth.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	ops, err := f.repos.Users.FindByID(context.Background(), p.UserID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{auth.RoleCustomer, auth.RoleAdmin}, ops.Roles)

	// 已存在用户的密码不被覆盖
	_, err = f.login.Execute(context.Background(), appuser.LoginRequest{Username: "ops", Password: strongPassword})
	assert.NoError(t, err)
}
