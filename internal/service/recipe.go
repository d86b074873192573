package service

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

// NamedRef references a tag or ingredient by name, the form nested
// payloads use.
type NamedRef struct {
	Name string `json:"name" binding:"required"`
}

// RecipeInput carries the writable recipe fields for create and full
// update.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       float64
	Description string
	Link        string
	Tags        []NamedRef
	Ingredients []NamedRef
}

// RecipeUpdate carries a partial update. Nil fields are left untouched;
// a non-nil Tags/Ingredients slice replaces the linked set wholesale.
type RecipeUpdate struct {
	Title       *string
	TimeMinutes *int
	Price       *float64
	Description *string
	Link        *string
	Tags        *[]NamedRef
	Ingredients *[]NamedRef
}

// RecipeService handles recipe CRUD scoped to the owning user.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

// ListRecipes returns the user's recipes, most recent first. Non-empty
// tagIDs/ingredientIDs restrict the result to recipes linked to at least
// one of the given ids; a recipe matching several ids appears once.
func (s *RecipeService) ListRecipes(userID uint, tagIDs, ingredientIDs []uint) ([]models.Recipe, error) {
	q := s.db.Model(&models.Recipe{}).Where("recipes.user_id = ?", userID)

	if len(tagIDs) > 0 {
		q = q.Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Where("recipe_tags.tag_id IN ?", tagIDs)
	}
	if len(ingredientIDs) > 0 {
		q = q.Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = recipes.id").
			Where("recipe_ingredients.ingredient_id IN ?", ingredientIDs)
	}

	var recipes []models.Recipe
	// Distinct is required due to the join on the link tables.
	err := q.Distinct("recipes.*").Order("recipes.id DESC").Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe returns the user's recipe with tags and ingredients loaded.
// Another user's recipe resolves to gorm.ErrRecordNotFound.
func (s *RecipeService) GetRecipe(userID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.Preload("Tags").Preload("Ingredients").
		Where("user_id = ?", userID).First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe persists a recipe for the user, resolving nested tags and
// ingredients with get-or-create semantics in the same transaction.
func (s *RecipeService) CreateRecipe(userID uint, input RecipeInput) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:       input.Title,
		TimeMinutes: input.TimeMinutes,
		Price:       input.Price,
		Description: input.Description,
		Link:        input.Link,
		UserID:      userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}

		tags, err := resolveTags(tx, userID, input.Tags)
		if err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}

		ingredients, err := resolveIngredients(tx, userID, input.Ingredients)
		if err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Ingredients").Replace(ingredients)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(userID, recipe.ID)
}

// UpdateRecipe overwrites the fields present in the update. The owner is
// never changed. A present tag/ingredient list replaces the linked set;
// an empty list clears it.
func (s *RecipeService) UpdateRecipe(userID, id uint, update RecipeUpdate) (*models.Recipe, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
			return err
		}

		if update.Title != nil {
			recipe.Title = *update.Title
		}
		if update.TimeMinutes != nil {
			recipe.TimeMinutes = *update.TimeMinutes
		}
		if update.Price != nil {
			recipe.Price = *update.Price
		}
		if update.Description != nil {
			recipe.Description = *update.Description
		}
		if update.Link != nil {
			recipe.Link = *update.Link
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if update.Tags != nil {
			tags, err := resolveTags(tx, userID, *update.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		if update.Ingredients != nil {
			ingredients, err := resolveIngredients(tx, userID, *update.Ingredients)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Ingredients").Replace(ingredients); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(userID, id)
}

// DeleteRecipe removes the user's recipe, its link rows and its stored
// image file.
func (s *RecipeService) DeleteRecipe(ctx context.Context, userID, id uint) error {
	var recipe models.Recipe
	if err := s.db.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return err
	}

	if recipe.Image != "" && s.images != nil {
		if err := s.images.Delete(ctx, recipe.Image); err != nil {
			log.Printf("failed to delete image %s for recipe %d: %v", recipe.Image, recipe.ID, err)
		}
	}
	return nil
}

// SaveRecipeImage stores the uploaded image and attaches its reference to
// the recipe, replacing any previous image file.
func (s *RecipeService) SaveRecipeImage(ctx context.Context, userID, id uint, data []byte, filename, contentType string) (*models.Recipe, error) {
	if s.images == nil {
		return nil, errors.New("image storage is not configured")
	}

	var recipe models.Recipe
	if err := s.db.Where("user_id = ?", userID).First(&recipe, id).Error; err != nil {
		return nil, err
	}

	ref, err := s.images.Save(ctx, ImageFileName(filename), data, contentType)
	if err != nil {
		return nil, err
	}

	previous := recipe.Image
	recipe.Image = ref
	if err := s.db.Save(&recipe).Error; err != nil {
		return nil, err
	}

	if previous != "" && previous != ref {
		if err := s.images.Delete(ctx, previous); err != nil {
			log.Printf("failed to delete replaced image %s: %v", previous, err)
		}
	}

	return s.GetRecipe(userID, id)
}

func resolveTags(tx *gorm.DB, userID uint, refs []NamedRef) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(refs))
	for _, ref := range refs {
		var tag models.Tag
		err := tx.Where("user_id = ? AND name = ?", userID, ref.Name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Tag{Name: ref.Name, UserID: userID}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func resolveIngredients(tx *gorm.DB, userID uint, refs []NamedRef) ([]models.Ingredient, error) {
	ingredients := make([]models.Ingredient, 0, len(refs))
	for _, ref := range refs {
		var ingredient models.Ingredient
		err := tx.Where("user_id = ? AND name = ?", userID, ref.Name).First(&ingredient).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ingredient = models.Ingredient{Name: ref.Name, UserID: userID}
			err = tx.Create(&ingredient).Error
		}
		if err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ingredient)
	}
	return ingredients, nil
}
