package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recipebox/backend/internal/models"
)

func TestListTags(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	tags := NewTagService(db)

	require.NoError(t, db.Create(&models.Tag{Name: "Vegan", UserID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "Dessert", UserID: user.ID}).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "Fruity", UserID: other.ID}).Error)

	list, err := tags.ListTags(user.ID, false)
	require.NoError(t, err)

	// Reverse name order, scoped to the user
	require.Len(t, list, 2)
	assert.Equal(t, "Vegan", list[0].Name)
	assert.Equal(t, "Dessert", list[1].Name)
}

func TestListTagsAssignedOnly(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	tags := NewTagService(db)
	recipes := NewRecipeService(db, nil)

	assigned := models.Tag{Name: "Breakfast", UserID: user.ID}
	require.NoError(t, db.Create(&assigned).Error)
	require.NoError(t, db.Create(&models.Tag{Name: "Lunch", UserID: user.ID}).Error)

	input := sampleRecipeInput()
	input.Tags = []NamedRef{{Name: "Breakfast"}}
	_, err := recipes.CreateRecipe(user.ID, input)
	require.NoError(t, err)

	list, err := tags.ListTags(user.ID, true)
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.Equal(t, assigned.ID, list[0].ID)
}

func TestListTagsAssignedOnlyUnique(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	tags := NewTagService(db)
	recipes := NewRecipeService(db, nil)

	// One tag on two recipes appears once
	for i := 0; i < 2; i++ {
		input := sampleRecipeInput()
		input.Tags = []NamedRef{{Name: "Breakfast"}}
		_, err := recipes.CreateRecipe(user.ID, input)
		require.NoError(t, err)
	}

	list, err := tags.ListTags(user.ID, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdateTag(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	tags := NewTagService(db)

	tag := models.Tag{Name: "After Dinner", UserID: user.ID}
	require.NoError(t, db.Create(&tag).Error)

	updated, err := tags.UpdateTag(user.ID, tag.ID, "Dessert")
	require.NoError(t, err)
	assert.Equal(t, "Dessert", updated.Name)
}

func TestUpdateTagOtherUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	tags := NewTagService(db)

	tag := models.Tag{Name: "Dinner", UserID: other.ID}
	require.NoError(t, db.Create(&tag).Error)

	_, err := tags.UpdateTag(user.ID, tag.ID, "Hijacked")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var unchanged models.Tag
	require.NoError(t, db.First(&unchanged, tag.ID).Error)
	assert.Equal(t, "Dinner", unchanged.Name)
}

func TestDeleteTag(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	tags := NewTagService(db)
	recipes := NewRecipeService(db, nil)

	input := sampleRecipeInput()
	input.Tags = []NamedRef{{Name: "Breakfast"}}
	recipe, err := recipes.CreateRecipe(user.ID, input)
	require.NoError(t, err)
	tagID := recipe.Tags[0].ID

	require.NoError(t, tags.DeleteTag(user.ID, tagID))

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Zero(t, count)

	// The recipe keeps no dangling link
	var links int64
	require.NoError(t, db.Table("recipe_tags").Count(&links).Error)
	assert.Zero(t, links)
}

func TestDeleteTagOtherUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "test@example.com")
	other := createTestUser(t, db, "other@example.com")
	tags := NewTagService(db)

	tag := models.Tag{Name: "Dinner", UserID: other.ID}
	require.NoError(t, db.Create(&tag).Error)

	err := tags.DeleteTag(user.ID, tag.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
