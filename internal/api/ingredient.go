package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

// IngredientHandler serves the ingredient list, rename and delete
// endpoints.
type IngredientHandler struct {
	ingredients *service.IngredientService
}

func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.PATCH("/:id", h.UpdateIngredient)
		ingredients.DELETE("/:id", h.DeleteIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	assignedOnly, err := parseAssignedOnly(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assigned_only must be 0 or 1"})
		return
	}

	ingredients, err := h.ingredients.ListIngredients(userID, assignedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ingredients"})
		return
	}
	if ingredients == nil {
		ingredients = []models.Ingredient{}
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredient, err := h.ingredients.UpdateIngredient(userID, id, req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ingredient"})
		return
	}

	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}

	if err := h.ingredients.DeleteIngredient(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ingredient"})
		return
	}

	c.Status(http.StatusNoContent)
}
