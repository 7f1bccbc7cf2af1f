package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockSvc(t *testing.T) (IUserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserService(db, "test-secret", time.Hour), mock
}

func userRow(hash string, active bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "email", "password", "address", "phone", "role", "active", "created_at",
	}).AddRow("u1", "Terry", "terry@example.com", hash, "", "", "user", active, time.Now())
}

func TestSignInSuccess(t *testing.T) {
	svc, mock := newMockSvc(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email, password").
		WithArgs("terry@example.com").
		WillReturnRows(userRow(string(hash), true))

	dto, token, err := svc.SignIn(context.Background(), "terry@example.com", "hunter2!")
	require.NoError(t, err)
	require.Equal(t, "u1", dto.ID)
	require.NotEmpty(t, token)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignInWrongPassword(t *testing.T) {
	svc, mock := newMockSvc(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email, password").
		WithArgs("terry@example.com").
		WillReturnRows(userRow(string(hash), true))

	_, _, err = svc.SignIn(context.Background(), "terry@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidPassword)
}

func TestSignInInactiveAccount(t *testing.T) {
	svc, mock := newMockSvc(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2!"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, name, email, password").
		WithArgs("terry@example.com").
		WillReturnRows(userRow(string(hash), false))

	_, _, err = svc.SignIn(context.Background(), "terry@example.com", "hunter2!")
	require.ErrorIs(t, err, ErrAccountInactive)
}

func TestSignInUnknownUser(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery("SELECT id, name, email, password").
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, _, err := svc.SignIn(context.Background(), "ghost@example.com", "pw")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSignUpEmailTaken(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("terry@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := svc.SignUp(context.Background(), "Terry", "terry@example.com", "hunter2!", "", "")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpInsertsUser(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)")).
		WithArgs("terry@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(0, 1))

	dto, err := svc.SignUp(context.Background(), "Terry", "terry@example.com", "hunter2!", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, dto.ID)
	require.Equal(t, "user", dto.Role)
	require.True(t, dto.Active)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindIdentityProjectsOutPassword(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, role, active FROM users WHERE id = $1")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "role", "active"}).
			AddRow("u1", "terry@example.com", "Terry", "user", true))

	identity, err := svc.FindIdentity(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "u1", identity.UserID)
	require.Equal(t, "terry@example.com", identity.Email)
	require.True(t, identity.Active)
}

func TestFindIdentityUnknownUser(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, name, role, active FROM users WHERE id = $1")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.FindIdentity(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestSetActiveUnknownUser(t *testing.T) {
	svc, mock := newMockSvc(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET active = $2 WHERE id = $1")).
		WithArgs("ghost", false).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.SetActive(context.Background(), "ghost", false)
	require.ErrorIs(t, err, ErrUserNotFound)
}
