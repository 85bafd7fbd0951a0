package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"accounts_backend/internal/models"
)

func TestGormLogger_HidesBoundValues(t *testing.T) {
	var buf bytes.Buffer
	prev := log
	log = New("development", &buf)
	t.Cleanup(func() { log = prev })

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: NewGormLogger(gormlogger.Info),
		DryRun: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{
		Email:             "john@example.com",
		Nickname:          "john",
		PasswordHash:      "$2a$10$HASHVALUE",
		Role:              models.UserRoleAuthenticated,
		VerificationToken: "SECRETVERIFYTOKEN",
	}).Error)

	out := buf.String()
	assert.Contains(t, out, "INSERT INTO")
	assert.NotContains(t, out, "SECRETVERIFYTOKEN")
	assert.NotContains(t, out, "HASHVALUE")
	assert.NotContains(t, out, "john@example.com")
}

func TestGormLogger_SilentLogsNothing(t *testing.T) {
	var buf bytes.Buffer
	prev := log
	log = New("development", &buf)
	t.Cleanup(func() { log = prev })

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: NewGormLogger(gormlogger.Silent),
		DryRun: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.User{Email: "a@example.com", Nickname: "a"}).Error)

	assert.Zero(t, buf.Len())
}
