package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("success", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"login":    "alice",
			"email":    "alice@example.com",
			"password": "hunter22",
		})

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "registration_success", decodeBody(t, rr)["message"])
	})

	t.Run("missing fields report a fixed order", func(t *testing.T) {
		tests := []struct {
			name     string
			body     map[string]string
			wantCode string
		}{
			{"empty body", map[string]string{}, "missing_login"},
			{"no password", map[string]string{"login": "bob"}, "missing_password"},
			{"no email", map[string]string{"login": "bob", "password": "pw"}, "missing_email"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rr := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
				assert.Equal(t, http.StatusBadRequest, rr.Code)
				assert.Equal(t, tt.wantCode, decodeBody(t, rr)["error"])
			})
		}
	})

	t.Run("duplicate user", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"login":    "alice",
			"email":    "other@example.com",
			"password": "pw",
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "user_exists", decodeBody(t, rr)["error"])
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/register", "", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "alice")

	t.Run("success sets cookie and returns token", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "hunter22",
		})

		assert.Equal(t, http.StatusOK, rr.Code)

		body := decodeBody(t, rr)
		assert.NotEmpty(t, body["token"])
		assert.Equal(t, "Login successful", body["message"])
		assert.NotZero(t, body["userId"])

		cookies := rr.Result().Cookies()
		if assert.Len(t, cookies, 1) {
			cookie := cookies[0]
			assert.Equal(t, "token", cookie.Name)
			assert.Equal(t, body["token"], cookie.Value)
			assert.True(t, cookie.HttpOnly, "session cookie must be HttpOnly")
			assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		}
	})

	t.Run("email works as login", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "alice@example.com",
			"password": "hunter22",
		})
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "nobody",
			"password": "pw",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "login_failed_user_not_found", decodeBody(t, rr)["error"])
	})

	t.Run("wrong password", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"login":    "alice",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "login_failed_wrong_pass", decodeBody(t, rr)["error"])
	})
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/api/auth/logout", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Logged out successfully", decodeBody(t, rr)["message"])

	cookies := rr.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		assert.Equal(t, "token", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge, "logout must expire the cookie")
	}
}
