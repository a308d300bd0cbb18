package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/db/models"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_staff INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func insertUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$stub",
		FirstName:    "Rui",
		LastName:     "Tavares",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRepositoryCreateAndFindByUsername(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	created, err := repo.Create(context.Background(), &models.User{
		ID:           uuid.New(),
		Username:     "wrench_" + uuid.NewString()[:8],
		Email:        "wrench@example.com",
		PasswordHash: "$argon2id$stub",
		FirstName:    "Mia",
		LastName:     "Keller",
		IsStaff:      true,
	})
	require.NoError(t, err)

	found, err := repo.FindByUsername(context.Background(), created.Username)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.True(t, found.IsStaff)
	assert.Nil(t, found.LastLoginAt)
}

func TestRepositoryExistsByUsername(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	user := insertUser(t, db, "derailleur_"+uuid.NewString()[:8])

	exists, err := repo.ExistsByUsername(context.Background(), user.Username)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(context.Background(), "nobody_"+uuid.NewString()[:8])
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryTouchLastLogin(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	user := insertUser(t, db, "headset_"+uuid.NewString()[:8])
	loginAt := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.TouchLastLogin(context.Background(), user.ID, loginAt))

	reloaded, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	assert.True(t, reloaded.LastLoginAt.Equal(loginAt))
}

func TestRepositoryFindByID_missing(t *testing.T) {
	db := setupUsersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
