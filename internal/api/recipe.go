package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

type CreateRecipeRequest struct {
	Title       string             `json:"title" binding:"required"`
	TimeMinutes int                `json:"time_minutes" binding:"min=0"`
	Price       float64            `json:"price" binding:"min=0"`
	Description string             `json:"description"`
	Link        string             `json:"link"`
	Tags        []service.NamedRef `json:"tags" binding:"omitempty,dive"`
	Ingredients []service.NamedRef `json:"ingredients" binding:"omitempty,dive"`
}

type UpdateRecipeRequest struct {
	Title       *string             `json:"title"`
	TimeMinutes *int                `json:"time_minutes" binding:"omitempty,min=0"`
	Price       *float64            `json:"price" binding:"omitempty,min=0"`
	Description *string             `json:"description"`
	Link        *string             `json:"link"`
	Tags        *[]service.NamedRef `json:"tags" binding:"omitempty,dive"`
	Ingredients *[]service.NamedRef `json:"ingredients" binding:"omitempty,dive"`
}

// RecipeSummary is the abbreviated list representation.
type RecipeSummary struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	TimeMinutes int     `json:"time_minutes"`
	Price       float64 `json:"price"`
	Link        string  `json:"link"`
}

// RecipeDetail is the full nested representation.
type RecipeDetail struct {
	RecipeSummary
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

func summarizeRecipe(r *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
	}
}

func detailRecipe(r *models.Recipe) RecipeDetail {
	detail := RecipeDetail{
		RecipeSummary: summarizeRecipe(r),
		Description:   r.Description,
		Image:         r.Image,
		Tags:          r.Tags,
		Ingredients:   r.Ingredients,
	}
	if detail.Tags == nil {
		detail.Tags = []models.Tag{}
	}
	if detail.Ingredients == nil {
		detail.Ingredients = []models.Ingredient{}
	}
	return detail
}

// RecipeHandler serves the recipe CRUD and image upload endpoints.
type RecipeHandler struct {
	recipes *service.RecipeService
}

func NewRecipeHandler(recipes *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes}
}

// RegisterRoutes registers the recipe routes on an authenticated group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PATCH("/:id", h.UpdateRecipe)
		recipes.PUT("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/upload-image", h.UploadImage)
	}
}

// parseIDList parses a comma separated list of ids from a query value.
func parseIDList(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	tagIDs, err := parseIDList(c.Query("tags"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tags must be a comma separated list of ids"})
		return
	}
	ingredientIDs, err := parseIDList(c.Query("ingredients"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ingredients must be a comma separated list of ids"})
		return
	}

	recipes, err := h.recipes.ListRecipes(userID, tagIDs, ingredientIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		summaries = append(summaries, summarizeRecipe(&recipes[i]))
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipes.GetRecipe(userID, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	c.JSON(http.StatusOK, detailRecipe(recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(userID, service.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recipe"})
		return
	}

	c.JSON(http.StatusCreated, detailRecipe(recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(userID, id, service.RecipeUpdate{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, detailRecipe(recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	if err := h.recipes.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage handles POST /recipes/:id/upload-image. The payload is a
// multipart form with a single file keyed "image".
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read image file"})
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is not a valid image"})
		return
	}

	recipe, err := h.recipes.SaveRecipeImage(c.Request.Context(), userID, id, data, fileHeader.Filename, contentType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": recipe.ID, "image": recipe.Image})
}
