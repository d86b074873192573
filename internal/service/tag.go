package service

import (
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// TagService manages the user's tags.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ListTags returns the user's tags in reverse name order. With
// assignedOnly, only tags linked to at least one recipe are returned.
func (s *TagService) ListTags(userID uint, assignedOnly bool) ([]models.Tag, error) {
	q := s.db.Model(&models.Tag{}).Where("tags.user_id = ?", userID)
	if assignedOnly {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id")
	}

	var tags []models.Tag
	err := q.Distinct("tags.*").Order("tags.name DESC").Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// UpdateTag renames the user's tag.
func (s *TagService) UpdateTag(userID, id uint, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.Where("user_id = ?", userID).First(&tag, id).Error; err != nil {
		return nil, err
	}
	tag.Name = name
	if err := s.db.Save(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes the user's tag and its recipe links.
func (s *TagService) DeleteTag(userID, id uint) error {
	var tag models.Tag
	if err := s.db.Where("user_id = ?", userID).First(&tag, id).Error; err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
