package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserSuccessful(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	user, err := users.CreateUser("valid@email.com", "Mmf3pEm4AJ", "Test Name")
	require.NoError(t, err)

	assert.Equal(t, "valid@email.com", user.Email)
	assert.Equal(t, "Test Name", user.Name)
	assert.True(t, user.IsActive)
	assert.True(t, users.CheckPassword(user, "Mmf3pEm4AJ"))
	assert.False(t, users.CheckPassword(user, "wrongpass"))
	assert.NotEqual(t, "Mmf3pEm4AJ", user.PasswordHash)
}

func TestCreateUserEmailNormalized(t *testing.T) {
	cases := []struct {
		original   string
		normalized string
	}{
		{"test1@EXAMPLE.com", "test1@example.com"},
		{"Test2@Example.com", "Test2@example.com"},
		{"TEST3@EXAMPLE.COM", "TEST3@example.com"},
		{"test4@example.COM", "test4@example.com"},
	}

	for _, tc := range cases {
		t.Run(tc.original, func(t *testing.T) {
			db := setupTestDB(t)
			users := NewUserService(db)

			user, err := users.CreateUser(tc.original, "Mmf3pEm4AJ", "")
			require.NoError(t, err)
			assert.Equal(t, tc.normalized, user.Email)
		})
	}
}

func TestCreateUserWithoutEmailFails(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	_, err := users.CreateUser("", "Mmf3pEm4AJ", "")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestCreateUserDuplicateEmailFails(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	_, err := users.CreateUser("test@example.com", "Mmf3pEm4AJ", "")
	require.NoError(t, err)

	_, err = users.CreateUser("test@example.com", "otherpass1", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateSuperuser(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	user, err := users.CreateSuperuser("test@example.com", "Mmf3pEm4AJ")
	require.NoError(t, err)

	assert.True(t, user.IsStaff)
	assert.True(t, user.IsSuperuser)
	assert.True(t, users.CheckPassword(user, "Mmf3pEm4AJ"))
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	created, err := users.CreateUser("test@example.com", "goodpass", "")
	require.NoError(t, err)

	user, err := users.Authenticate("test@example.com", "goodpass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = users.Authenticate("test@example.com", "badpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = users.Authenticate("missing@example.com", "goodpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Empty password is always rejected
	_, err = users.Authenticate("test@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateMe(t *testing.T) {
	db := setupTestDB(t)
	users := NewUserService(db)

	created, err := users.CreateUser("test@example.com", "oldpassword", "Old Name")
	require.NoError(t, err)

	name := "Updated name"
	password := "newpassword"
	user, err := users.UpdateMe(created.ID, &name, &password)
	require.NoError(t, err)

	assert.Equal(t, "Updated name", user.Name)
	assert.True(t, users.CheckPassword(user, "newpassword"))
	assert.False(t, users.CheckPassword(user, "oldpassword"))

	// Name-only update keeps the password
	name = "Renamed"
	user, err = users.UpdateMe(created.ID, &name, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", user.Name)
	assert.True(t, users.CheckPassword(user, "newpassword"))
}
