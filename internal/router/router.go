package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/middleware"
)

// Handlers groups the API handlers wired into the router.
type Handlers struct {
	User       *api.UserHandler
	Recipe     *api.RecipeHandler
	Tag        *api.TagHandler
	Ingredient *api.IngredientHandler
}

// SetupRouter configures the application routes. tokenLimiter may be nil
// when Redis is not configured.
func SetupRouter(h Handlers, resolver middleware.TokenResolver, tokenLimiter *middleware.RateLimiter) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	router.GET("/health", api.HealthCheck)

	v1 := router.Group("/api/v1")

	user := v1.Group("/user")
	{
		user.POST("/create", h.User.CreateUser)

		token := user.Group("")
		if tokenLimiter != nil {
			token.Use(tokenLimiter.RateLimitMiddleware())
		}
		token.POST("/token", h.User.CreateToken)

		me := user.Group("/me")
		me.Use(middleware.AuthMiddleware(resolver))
		{
			me.GET("", h.User.Me)
			me.PATCH("", h.User.UpdateMe)
		}
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(resolver))
	{
		h.Recipe.RegisterRoutes(protected)
		h.Tag.RegisterRoutes(protected)
		h.Ingredient.RegisterRoutes(protected)
	}

	return router
}
