package server

import (
	"fmt"
	"strconv"
	"time"

	"tessera/internal/models"
	"tessera/internal/observability"
	"tessera/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "tessera-api"
	tokenAudience = "tessera-client"
	tokenTTL      = 10 * time.Hour
)

// Login handles POST /api/auth/login. It verifies the credentials and
// returns a signed bearer token plus the user record. Unknown username
// and wrong password are indistinguishable to the caller.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if fieldErrs := validation.ValidateCredentials(req.Username, req.Password); len(fieldErrs) > 0 {
		return models.RespondError(c, models.NewFieldValidationError(fieldErrs))
	}

	user, err := s.userRepo.FindByUsername(c.Context(), req.Username)
	if err != nil {
		return models.RespondError(c, err)
	}
	if user == nil {
		observability.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		observability.AuthFailures.WithLabelValues("bad_credentials").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.generateToken(user.ID, user.Username)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout handles POST /api/auth/logout. The presented token's JTI goes
// on the Redis blacklist until the token would have expired anyway, so
// it can never authenticate again.
func (s *Server) Logout(c *fiber.Ctx) error {
	if s.redis == nil {
		// Without Redis there is nothing to revoke against; the client
		// simply discards the token.
		return c.JSON(fiber.Map{"message": "Logged out"})
	}

	tokenString := extractBearer(c)
	claims := jwt.MapClaims{}
	// AuthRequired already verified the token; re-parse for claims only.
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid token"))
	}

	jti, _ := claims["jti"].(string)
	if jti != "" {
		ttl := tokenTTL
		if exp, ok := claims["exp"].(float64); ok {
			if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
				ttl = remaining
			}
		}
		if err := s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl).Err(); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

func extractBearer(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && authHeader[:len(prefix)] == prefix {
		return authHeader[len(prefix):]
	}
	return ""
}

// generateToken creates a JWT token for the given user ID and username
func (s *Server) generateToken(userID uint, username string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(userID), 10),
		"username": username,
		"iss":      tokenIssuer,
		"aud":      tokenAudience,
		"exp":      now.Add(tokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID so individual tokens can be revoked
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
