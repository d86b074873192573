package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/recipebox/backend/internal/models"
)

type stubResolver struct {
	user *models.User
}

func (r *stubResolver) ResolveToken(key string) (*models.User, error) {
	if r.user != nil && key == "good-token" {
		return r.user, nil
	}
	return nil, errors.New("invalid token")
}

func setupAuthRouter(resolver TokenResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(resolver), func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func performAuthRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthRouter(&stubResolver{})

	w := performAuthRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareBadFormat(t *testing.T) {
	router := setupAuthRouter(&stubResolver{})

	w := performAuthRequest(router, "good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performAuthRequest(router, "Token good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	router := setupAuthRouter(&stubResolver{user: &models.User{}})

	w := performAuthRequest(router, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	user := &models.User{Email: "test@example.com"}
	user.ID = 7
	router := setupAuthRouter(&stubResolver{user: user})

	w := performAuthRequest(router, "Bearer good-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}
