package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/lab-freezer-inventory/internal/config"
	"github.com/iliyamo/lab-freezer-inventory/internal/limiter"
	"github.com/iliyamo/lab-freezer-inventory/internal/repository"
	"github.com/iliyamo/lab-freezer-inventory/internal/utils"
)

// A failed last_login update must not fail the login, but it has to leave a
// trace in the log.
func TestLoginSucceedsAndLogsWhenLastLoginUpdateFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	hash, err := utils.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE username=`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "username", "email", "password_hash", "salt", "role", "is_active", "created_at", "last_login",
		}).AddRow(int64(7), "marie", "marie@lab.local", hash, utils.SaltFromHash(hash), "user", true, time.Now(), nil))
	mock.ExpectExec(`UPDATE users SET last_login=`).
		WillReturnError(assert.AnError)
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: bcrypt.MinCost}
	throttle := limiter.NewLoginThrottle(config.LoginThrottleConfig{
		Enabled: true, MaxAttempts: 5, Window: 15 * time.Minute, Prefix: "login_fail",
	}, nil)
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db), throttle)

	e := echo.New()
	var logged bytes.Buffer
	e.Logger.SetOutput(&logged)

	body := `{"username":"marie","password":"s3cret"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logged.String(), "last_login update for marie failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
