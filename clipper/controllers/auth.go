// clipper/controllers/auth.go
package controllers

import (
	"context"
	"strings"
	"time"

	"clipper/clipper/config"
	"clipper/clipper/middlewares"
	"clipper/clipper/sources/psql/dao"
	"clipper/clipper/sources/psql/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type AuthController struct {
	userDAO   *dao.UserDAO
	apiKeyDAO *dao.APIKeyDAO
	cfg       config.Config
}

func NewAuthController(userDAO *dao.UserDAO, apiKeyDAO *dao.APIKeyDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO:   userDAO,
		apiKeyDAO: apiKeyDAO,
		cfg:       cfg,
	}
}

func (c *AuthController) Login(ctx context.Context, username string) (string, error) {
	user, err := c.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		// Auto-create with dummy email
		email := username + "@example.com"
		user, err = c.userDAO.CreateUser(ctx, username, email)
		if err != nil {
			return "", err
		}
	}
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}

// IssueAPIKey mints a key for the given user. The raw key is returned
// exactly once; only its hash is stored.
func (c *AuthController) IssueAPIKey(ctx context.Context, userID int, label string) (string, *models.APIKey, error) {
	raw := "ck_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	key, err := c.apiKeyDAO.CreateKey(ctx, userID, middlewares.HashKey(raw), label)
	if err != nil {
		return "", nil, err
	}
	return raw, key, nil
}
