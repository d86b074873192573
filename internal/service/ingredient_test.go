package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

func TestListIngredients(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	ingredients := NewIngredientService(db)

	require.NoError(t, db.Create(&models.Ingredient{Name: "Kale", UserID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Ingredient{Name: "Vanilla", UserID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Ingredient{Name: "Salt", UserID: other.ID}).Error)

	list, err := ingredients.ListIngredients(user.ID, false)
	require.NoError(t, err)

	require.Len(t, list, 2)
	assert.Equal(t, "Vanilla", list[0].Name)
	assert.Equal(t, "Kale", list[1].Name)
}

func TestListIngredientsAssignedOnly(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	ingredients := NewIngredientService(db)
	recipes := NewRecipeService(db, nil)

	require.NoError(t, db.Create(&models.Ingredient{Name: "Turkey", UserID: user.ID}).Error)

	input := sampleRecipeInput()
	input.Ingredients = []NamedRef{{Name: "Apples"}}
	_, err := recipes.CreateRecipe(user.ID, input)
	require.NoError(t, err)

	list, err := ingredients.ListIngredients(user.ID, true)
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, "Apples", list[0].Name)
}

func TestListIngredientsAssignedOnlyUnique(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	ingredients := NewIngredientService(db)
	recipes := NewRecipeService(db, nil)

	for i := 0; i < 2; i++ {
		input := sampleRecipeInput()
		input.Ingredients = []NamedRef{{Name: "Eggs"}}
		_, err := recipes.CreateRecipe(user.ID, input)
		require.NoError(t, err)
	}

	list, err := ingredients.ListIngredients(user.ID, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateIngredient(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	ingredients := NewIngredientService(db)

	ingredient := models.Ingredient{Name: "Cilantro", UserID: user.ID}
	require.NoError(t, db.Create(&ingredient).Error)

	updated, err := ingredients.UpdateIngredient(user.ID, ingredient.ID, "Coriander")
	require.NoError(t, err)
	assert.Equal(t, "Coriander", updated.Name)
}

func TestDeleteIngredientOtherUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	ingredients := NewIngredientService(db)

	ingredient := models.Ingredient{Name: "Salt", UserID: other.ID}
	require.NoError(t, db.Create(&ingredient).Error)

	err := ingredients.DeleteIngredient(user.ID, ingredient.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
