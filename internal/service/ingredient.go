package service

import (
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// IngredientService manages the user's ingredients.
type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// ListIngredients returns the user's ingredients in reverse name order.
// With assignedOnly, only ingredients linked to at least one recipe are
// returned.
func (s *IngredientService) ListIngredients(userID uint, assignedOnly bool) ([]models.Ingredient, error) {
	q := s.db.Model(&models.Ingredient{}).Where("ingredients.user_id = ?", userID)
	if assignedOnly {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id")
	}

	var ingredients []models.Ingredient
	err := q.Distinct("ingredients.*").Order("ingredients.name DESC").Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

// UpdateIngredient renames the user's ingredient.
func (s *IngredientService) UpdateIngredient(userID, id uint, name string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.Where("user_id = ?", userID).First(&ingredient, id).Error; err != nil {
		return nil, err
	}
	ingredient.Name = name
	if err := s.db.Save(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// DeleteIngredient removes the user's ingredient and its recipe links.
func (s *IngredientService) DeleteIngredient(userID, id uint) error {
	var ingredient models.Ingredient
	if err := s.db.Where("user_id = ?", userID).First(&ingredient, id).Error; err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_ingredients WHERE ingredient_id = ?", ingredient.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&ingredient).Error
	})
}
