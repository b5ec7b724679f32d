package repository

import (
	"testing"

	"github.com/cliptube/user_service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(
		&domain.User{},
		&domain.Video{},
		&domain.Subscription{},
		&domain.WatchHistoryEntry{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func newTestUser(userName, email string) *domain.User {
	return &domain.User{
		UserName:     userName,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "hashed",
		AvatarURL:    "https://cdn.example.com/a.jpg",
	}
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.CreateUser(newTestUser("alice", "a@x.com"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	byID, err := repo.FindUserById(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.UserName)

	byName, err := repo.FindUserByUserName("alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.FindUserByUserName("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	_, err := repo.CreateUser(newTestUser("alice", "a@x.com"))
	require.NoError(t, err)

	_, err = repo.CreateUser(newTestUser("alice", "other@x.com"))
	assert.Error(t, err, "duplicate username must be rejected")

	_, err = repo.CreateUser(newTestUser("bob", "a@x.com"))
	assert.Error(t, err, "duplicate email must be rejected")
}

func TestUserRepository_FindByUserNameOrEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.CreateUser(newTestUser("alice", "a@x.com"))
	require.NoError(t, err)

	byName, err := repo.FindUserByUserNameOrEmail("alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	byEmail, err := repo.FindUserByUserNameOrEmail("a@x.com", "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = repo.FindUserByUserNameOrEmail("nobody", "n@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateRefreshToken(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.CreateUser(newTestUser("alice", "a@x.com"))
	require.NoError(t, err)

	require.NoError(t, repo.UpdateRefreshToken(created.ID, "token-1"))

	stored, err := repo.FindUserById(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-1", stored.RefreshToken)

	// overwrite, then clear
	require.NoError(t, repo.UpdateRefreshToken(created.ID, "token-2"))
	require.NoError(t, repo.UpdateRefreshToken(created.ID, ""))

	stored, err = repo.FindUserById(created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshToken)
}

func TestUserRepository_SaveUser(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	created, err := repo.CreateUser(newTestUser("alice", "a@x.com"))
	require.NoError(t, err)

	created.FullName = "Alice A"
	require.NoError(t, repo.SaveUser(created))

	stored, err := repo.FindUserById(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice A", stored.FullName)
}
