package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/velomarket/velomarket-backend/pkg/config"
	"github.com/velomarket/velomarket-backend/pkg/db/models"
	pkgerrors "github.com/velomarket/velomarket-backend/pkg/errors"
)

type gormTxRunner struct {
	conn *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.conn.WithContext(ctx).Transaction(fn)
}

func setupRegisterTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  username TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  is_staff INTEGER NOT NULL DEFAULT 0,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	require.NoError(t, db.Exec(`
CREATE TABLE IF NOT EXISTS customers (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  user_id TEXT NOT NULL UNIQUE,
  phone TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func buildRegisterTestService(t *testing.T, conn *gorm.DB) RegisterService {
	t.Helper()

	svc, err := NewRegisterService(RegisterServiceParams{
		DB: gormTxRunner{conn: conn},
		// small argon footprint to keep the suite quick
		PasswordConfig: config.PasswordConfig{
			ArgonMemoryKB:    8,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     8,
			ArgonKeyLen:      16,
		},
	})
	require.NoError(t, err)
	return svc
}

func registerPayload(username string) RegisterRequest {
	return RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "spoke-wrench-42",
		ConfirmPassword: "spoke-wrench-42",
		FirstName:       "Nora",
		LastName:        "Lindt",
		Phone:           "+49 30 1234",
		Address:         "Kastanienallee 12",
	}
}

func countUsers(t *testing.T, conn *gorm.DB, username string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.User{}).Where("username = ?", username).Count(&n).Error)
	return n
}

func countCustomers(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.Customer{}).Count(&n).Error)
	return n
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	conn := setupRegisterTestDB(t)
	svc := buildRegisterTestService(t, conn)
	username := "rider_" + uuid.NewString()[:8]
	customersBefore := countCustomers(t, conn)

	payload := registerPayload(username)
	payload.Username = "  " + strings.ToUpper(username) + "  "
	require.NoError(t, svc.Register(context.Background(), payload))

	var user models.User
	require.NoError(t, conn.Where("username = ?", username).First(&user).Error)
	assert.Equal(t, username+"@example.com", user.Email)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$argon2id$"))
	assert.Equal(t, customersBefore+1, countCustomers(t, conn))
}

func TestRegisterDuplicateUsernameLeavesNoRows(t *testing.T) {
	conn := setupRegisterTestDB(t)
	svc := buildRegisterTestService(t, conn)
	username := "rider_" + uuid.NewString()[:8]

	require.NoError(t, svc.Register(context.Background(), registerPayload(username)))
	customersAfterFirst := countCustomers(t, conn)

	// same name with different casing normalizes to the taken one
	err := svc.Register(context.Background(), registerPayload(strings.ToUpper(username)))
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
	assert.Equal(t, "username already taken", typed.Message())

	assert.Equal(t, int64(1), countUsers(t, conn, username))
	assert.Equal(t, customersAfterFirst, countCustomers(t, conn))
}

func TestRegisterPasswordMismatchRejected(t *testing.T) {
	conn := setupRegisterTestDB(t)
	svc := buildRegisterTestService(t, conn)
	username := "rider_" + uuid.NewString()[:8]

	payload := registerPayload(username)
	payload.ConfirmPassword = "something-else-9"
	err := svc.Register(context.Background(), payload)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, int64(0), countUsers(t, conn, username))
}
