package server

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	app, _, _ := newTestServer(t)

	t.Run("Success", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
			"username":    "freshuser01",
			"password":    "Password123!",
			"profile_bio": "hello world",
		}, "")

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
		user, ok := body["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "freshuser01", user["username"])
		// The password hash never leaves the server.
		_, exposed := user["password"]
		assert.False(t, exposed)
	})

	t.Run("AllFieldErrorsReportedTogether", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
			"username": "x!",
			"password": "weak",
		}, "")

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		errs, ok := body["errors"].([]any)
		require.True(t, ok)
		assert.GreaterOrEqual(t, len(errs), 2)
	})

	t.Run("DuplicateUsernameConflicts", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
			"username": "freshuser01",
			"password": "Password123!",
		}, "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	app, s, db := newTestServer(t)
	createAccount(t, s, db, "loginlarry1", "Password123!")

	t.Run("Success", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "loginlarry1",
			"password": "Password123!",
		}, "")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("WrongPassword", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "loginlarry1",
			"password": "WrongPass123!",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("UnknownUserLooksTheSame", func(t *testing.T) {
		resp, body := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{
			"username": "nobodyknown1",
			"password": "Password123!",
		}, "")

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", body["error"])
	})

	t.Run("MissingFields", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]any{}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	app, s, db := newTestServer(t)
	user, token := createAccount(t, s, db, "authanna123", "Password123!")
	postBody := map[string]any{"content": "gated content"}

	t.Run("MissingHeader", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", postBody, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", postBody, "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("WrongIssuer", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub":      strconv.FormatUint(uint64(user.ID), 10),
			"username": user.Username,
			"iss":      "someone-else",
			"aud":      tokenAudience,
			"exp":      time.Now().Add(time.Hour).Unix(),
			"iat":      time.Now().Unix(),
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(s.config.JWTSecret))
		require.NoError(t, err)

		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", postBody, forged)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		claims := jwt.MapClaims{
			"sub": strconv.FormatUint(uint64(user.ID), 10),
			"iss": tokenIssuer,
			"aud": tokenAudience,
			"exp": time.Now().Add(-time.Hour).Unix(),
			"iat": time.Now().Add(-2 * time.Hour).Unix(),
		}
		expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(s.config.JWTSecret))
		require.NoError(t, err)

		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", postBody, expired)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ValidToken", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPost, "/api/posts", postBody, token)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestReadVisibility(t *testing.T) {
	app, s, db := newTestServer(t)
	user, _ := createAccount(t, s, db, "publicpaula1", "Password123!")

	t.Run("OpenReadsNeedNoToken", func(t *testing.T) {
		public := []string{
			"/api/users",
			"/api/users/" + user.Username,
			"/api/posts",
			"/api/chats",
			"/api/messages",
		}
		for _, target := range public {
			resp, _ := doJSON(t, app, http.MethodGet, target, nil, "")
			assert.Equal(t, http.StatusOK, resp.StatusCode, target)
		}
	})

	t.Run("SingleChatAndMessageStayPrivate", func(t *testing.T) {
		for _, target := range []string{"/api/chats/1", "/api/messages/1"} {
			resp, _ := doJSON(t, app, http.MethodGet, target, nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, target)
		}
	})

	t.Run("MutationsNeedToken", func(t *testing.T) {
		resp, _ := doJSON(t, app, http.MethodPut, "/api/users/"+user.Username, map[string]any{
			"profile_bio": "drive-by edit",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doJSON(t, app, http.MethodDelete, "/api/users/"+user.Username, nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLogoutWithoutRedis(t *testing.T) {
	app, s, db := newTestServer(t)
	_, token := createAccount(t, s, db, "logoutlena1", "Password123!")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Logged out", body["message"])
}

func TestTokenClaims(t *testing.T) {
	_, s, _ := newTestServer(t)

	signed, err := s.generateToken(42, "claimscheck")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(signed, claims)
	require.NoError(t, err)

	assert.Equal(t, "42", claims["sub"])
	assert.Equal(t, "claimscheck", claims["username"])
	assert.Equal(t, tokenIssuer, claims["iss"])
	assert.Equal(t, tokenAudience, claims["aud"])
	assert.NotEmpty(t, claims["jti"])

	// Tokens live for ten hours.
	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	iat, ok := claims["iat"].(float64)
	require.True(t, ok)
	assert.InDelta(t, float64(10*60*60), exp-iat, 1)
}
