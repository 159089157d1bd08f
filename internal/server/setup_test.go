package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"tessera/internal/config"
	"tessera/internal/database"
	"tessera/internal/models"
	"tessera/internal/repository"
	"tessera/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestServer wires a Server against an in-memory sqlite database
// and registers the full route table. The Prometheus middleware stays
// nil so repeated test setups do not re-register collectors.
func newTestServer(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret: "test_secret",
		Port:      "0",
		Env:       "test",
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	chatRepo := repository.NewChatRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		chatRepo:       chatRepo,
		messageRepo:    messageRepo,
		userService:    service.NewUserService(userRepo),
		postService:    service.NewPostService(postRepo, userRepo),
		commentService: service.NewCommentService(commentRepo, postRepo, userRepo),
		chatService:    service.NewChatService(chatRepo, userRepo),
		messageService: service.NewMessageService(messageRepo, chatRepo),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, db
}

// createAccount persists a user with a bcrypt-hashed password and
// returns it together with a valid bearer token.
func createAccount(t *testing.T, s *Server, db *gorm.DB, username, password string) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &models.User{Username: username, Password: string(hashed)}
	require.NoError(t, db.Create(user).Error)

	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return user, token
}

// doJSON issues a JSON request against the test app and decodes the
// response body into a generic map.
func doJSON(t *testing.T, app *fiber.App, method, target string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}
