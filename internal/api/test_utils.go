package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

// TestEnv holds the test database, services and router.
type TestEnv struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Users   *service.UserService
	Tokens  *service.TokenService
	Recipes *service.RecipeService
	Media   string
}

// SetupTestEnv creates an in-memory database, wires the full route table
// and returns the environment for making requests against it.
func SetupTestEnv(t *testing.T) *TestEnv {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	)
	require.NoError(t, err)

	mediaDir := t.TempDir()
	users := service.NewUserService(db)
	tokens := service.NewTokenService(db, users)
	recipes := service.NewRecipeService(db, service.NewLocalImageStore(mediaDir))
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)

	userHandler := NewUserHandler(users, tokens)
	recipeHandler := NewRecipeHandler(recipes)
	tagHandler := NewTagHandler(tags)
	ingredientHandler := NewIngredientHandler(ingredients)

	router := gin.New()
	router.Use(gin.Recovery())
	router.HandleMethodNotAllowed = true

	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")

	user := v1.Group("/user")
	{
		user.POST("/create", userHandler.CreateUser)
		user.POST("/token", userHandler.CreateToken)

		me := user.Group("/me")
		me.Use(middleware.AuthMiddleware(tokens))
		{
			me.GET("", userHandler.Me)
			me.PATCH("", userHandler.UpdateMe)
		}
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	{
		recipeHandler.RegisterRoutes(protected)
		tagHandler.RegisterRoutes(protected)
		ingredientHandler.RegisterRoutes(protected)
	}

	return &TestEnv{
		DB:      db,
		Router:  router,
		Users:   users,
		Tokens:  tokens,
		Recipes: recipes,
		Media:   mediaDir,
	}
}

// CreateUserAndToken creates a user and returns it with a valid token.
func CreateUserAndToken(t *testing.T, env *TestEnv, email string) (*models.User, string) {
	user, err := env.Users.CreateUser(email, "testpass123", "Test User")
	require.NoError(t, err)

	token, err := env.Tokens.IssueToken(email, "testpass123")
	require.NoError(t, err)

	return user, token
}

// PerformRequest makes a JSON request against the test router. An empty
// token leaves the Authorization header unset.
func PerformRequest(env *TestEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.Router.ServeHTTP(w, req)
	return w
}
