package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/models"
	"github.com/recipebox/backend/internal/service"
)

type RenameRequest struct {
	Name string `json:"name" binding:"required"`
}

// TagHandler serves the tag list, rename and delete endpoints.
type TagHandler struct {
	tags *service.TagService
}

func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.PATCH("/:id", h.UpdateTag)
		tags.DELETE("/:id", h.DeleteTag)
	}
}

// parseAssignedOnly reads the assigned_only query parameter (0 or 1).
func parseAssignedOnly(c *gin.Context) (bool, error) {
	raw := c.Query("assigned_only")
	if raw == "" {
		return false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func (h *TagHandler) ListTags(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	assignedOnly, err := parseAssignedOnly(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assigned_only must be 0 or 1"})
		return
	}

	tags, err := h.tags.ListTags(userID, assignedOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tags"})
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	c.JSON(http.StatusOK, tags)
}

func (h *TagHandler) UpdateTag(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}

	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tags.UpdateTag(userID, id, req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update tag"})
		return
	}

	c.JSON(http.StatusOK, tag)
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
		return
	}

	if err := h.tags.DeleteTag(userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete tag"})
		return
	}

	c.Status(http.StatusNoContent)
}
