package repository

import (
	"errors"

	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository is a repository for interacting with recipes, their
// ingredient/tag associations, and per-user favorite/cart flags.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

// GetRecipeByID retrieves a recipe by its ID with its author, ingredients,
// and tags preloaded. Ingredient rows come back ordered by insertion (id),
// which the write pipeline keeps sorted by ingredient name.
func (r *RecipeRepository) GetRecipeByID(recipeID uint) (*models.Recipe, error) {
	var recipe models.Recipe

	err := r.DB.Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Tags.Tag").
		Where("id = ?", recipeID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("recipe not found")
		}
		logger.Get().Error("failed to retrieve recipe", zap.Uint("recipe_id", recipeID), zap.Error(err))
		return nil, err
	}

	return &recipe, nil
}

// ListRecipes retrieves a page of recipes ordered by id, applying the
// optional author/tag/flag filters. Flag filters join through the caller's
// UserRecipe rows.
func (r *RecipeRepository) ListRecipes(filter RecipeFilter, page, pageSize int) ([]models.Recipe, int64, error) {
	var recipes []models.Recipe
	var total int64

	query := r.DB.Model(&models.Recipe{})

	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.Where(
			"recipes.id IN (?)",
			r.DB.Model(&models.RecipeTag{}).
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs),
		)
	}
	if filter.IsFavorited != nil {
		query = query.Where(
			"recipes.id IN (?)",
			r.userRecipeIDs(filter.UserID, FlagFavorited, *filter.IsFavorited),
		)
	}
	if filter.IsInShoppingCart != nil {
		query = query.Where(
			"recipes.id IN (?)",
			r.userRecipeIDs(filter.UserID, FlagInShoppingCart, *filter.IsInShoppingCart),
		)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Tags.Tag").
		Order("recipes.id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}

	return recipes, total, nil
}

// userRecipeIDs builds a subquery for recipe ids whose UserRecipe flag for
// the given user has the given value.
func (r *RecipeRepository) userRecipeIDs(userID uint, flag UserRecipeFlag, value bool) *gorm.DB {
	return r.DB.Model(&models.UserRecipe{}).
		Select("user_recipes.recipe_id").
		Where("user_recipes.user_id = ? AND user_recipes."+string(flag)+" = ?", userID, value)
}

// ListRecipesByAuthor retrieves an author's recipes ordered by id, capped
// at limit when limit > 0.
func (r *RecipeRepository) ListRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	query := r.DB.Where("author_id = ?", authorID).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// CountRecipesByAuthor counts an author's recipes.
func (r *RecipeRepository) CountRecipesByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}

// RecipeNameExists checks whether a recipe name is already taken,
// excluding the given recipe id (0 to exclude none).
func (r *RecipeRepository) RecipeNameExists(name string, excludeID uint) (bool, error) {
	var count int64
	query := r.DB.Model(&models.Recipe{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateRecipe persists a recipe and its associated RecipeIngredient and
// RecipeTag rows in a single transaction. Association slices are inserted
// in the order they appear on the struct; the service layer keeps
// ingredients sorted by ingredient name.
func (r *RecipeRepository) CreateRecipe(recipe *models.Recipe) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	// The nested Ingredient/Tag/Author structs are reference data; only the
	// recipe row and its association rows are inserted here.
	if err := tx.Omit("Author", "Ingredients.Ingredient", "Tags.Tag").
		Create(recipe).Error; err != nil {
		tx.Rollback()
		logger.Get().Error("failed to create recipe", zap.Error(err))
		return err
	}

	return tx.Commit().Error
}

// UpdateRecipe updates a recipe's scalar fields and replaces all of its
// ingredient and tag associations in one transaction. A crash between the
// delete and the reinsert must not leave the recipe with partial
// associations, so the whole replacement runs atomically.
func (r *RecipeRepository) UpdateRecipe(recipeID uint, fields map[string]interface{}, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if len(fields) > 0 {
		if err := tx.Model(&models.Recipe{}).
			Where("id = ?", recipeID).
			Updates(fields).Error; err != nil {
			tx.Rollback()
			logger.Get().Error("failed to update recipe fields", zap.Uint("recipe_id", recipeID), zap.Error(err))
			return err
		}
	}

	// Hard delete the old association rows; soft-deleted rows would still
	// occupy the unique (recipe, ingredient)/(recipe, tag) indexes.
	if err := tx.Unscoped().
		Where("recipe_id = ?", recipeID).
		Delete(&models.RecipeIngredient{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Unscoped().
		Where("recipe_id = ?", recipeID).
		Delete(&models.RecipeTag{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	for i := range ingredients {
		ingredients[i].RecipeID = recipeID
	}
	if len(ingredients) > 0 {
		if err := tx.Omit("Ingredient").Create(&ingredients).Error; err != nil {
			tx.Rollback()
			logger.Get().Error("failed to replace recipe ingredients", zap.Uint("recipe_id", recipeID), zap.Error(err))
			return err
		}
	}

	for i := range tags {
		tags[i].RecipeID = recipeID
	}
	if len(tags) > 0 {
		if err := tx.Omit("Tag").Create(&tags).Error; err != nil {
			tx.Rollback()
			logger.Get().Error("failed to replace recipe tags", zap.Uint("recipe_id", recipeID), zap.Error(err))
			return err
		}
	}

	return tx.Commit().Error
}

// DeleteRecipe deletes a recipe and its association rows.
func (r *RecipeRepository) DeleteRecipe(recipeID uint) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	for _, model := range []interface{}{
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.UserRecipe{},
	} {
		if err := tx.Unscoped().Where("recipe_id = ?", recipeID).Delete(model).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Unscoped().Delete(&models.Recipe{}, recipeID).Error; err != nil {
		tx.Rollback()
		logger.Get().Error("failed to delete recipe", zap.Uint("recipe_id", recipeID), zap.Error(err))
		return err
	}

	return tx.Commit().Error
}

// GetUserRecipe retrieves the UserRecipe row for a (user, recipe) pair.
func (r *RecipeRepository) GetUserRecipe(userID, recipeID uint) (*models.UserRecipe, error) {
	var userRecipe models.UserRecipe
	err := r.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&userRecipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user recipe not found")
		}
		return nil, err
	}
	return &userRecipe, nil
}

// MarkUserRecipe sets the given flag to true for the (user, recipe) pair,
// creating the UserRecipe row if it does not exist yet. The upsert and the
// flag update run in one transaction, so two concurrent marks cannot both
// succeed: the loser of the insert race sees the flag already true and
// gets a ConflictError.
func (r *RecipeRepository) MarkUserRecipe(userID, recipeID uint, flag UserRecipeFlag) error {
	tx := r.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	row := models.UserRecipe{UserID: userID, RecipeID: recipeID}
	switch flag {
	case FlagFavorited:
		row.IsFavorited = true
	case FlagInShoppingCart:
		row.IsInShoppingCart = true
	}

	// Lazy row creation: insert with the target flag already true, or do
	// nothing if the (user, recipe) row exists.
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoNothing: true,
	}).Create(&row).Error; err != nil {
		tx.Rollback()
		logger.Get().Error("failed to upsert user recipe",
			zap.Uint("user_id", userID), zap.Uint("recipe_id", recipeID), zap.Error(err))
		return err
	}

	// Flip the flag only if it is currently false. Zero rows affected means
	// either the insert above already set it (one row was created) or the
	// flag was already true (conflict).
	result := tx.Model(&models.UserRecipe{}).
		Where("user_id = ? AND recipe_id = ? AND "+string(flag)+" = ?", userID, recipeID, false).
		Update(string(flag), true)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 && row.ID == 0 {
		tx.Rollback()
		return NewConflictError("already marked")
	}

	return tx.Commit().Error
}

// UnmarkUserRecipe sets the given flag to false. Returns a ConflictError if
// no UserRecipe row has the flag set; the row itself is never deleted.
func (r *RecipeRepository) UnmarkUserRecipe(userID, recipeID uint, flag UserRecipeFlag) error {
	result := r.DB.Model(&models.UserRecipe{}).
		Where("user_id = ? AND recipe_id = ? AND "+string(flag)+" = ?", userID, recipeID, true).
		Update(string(flag), false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewConflictError("not marked")
	}
	return nil
}

// AggregateShoppingCart collects every ingredient of the user's cart
// recipes, grouped by (ingredient name, measurement unit) with the amounts
// summed per group, ordered by ingredient name.
func (r *RecipeRepository) AggregateShoppingCart(userID uint) ([]ShoppingCartItem, error) {
	var items []ShoppingCartItem

	err := r.DB.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN user_recipes ON user_recipes.recipe_id = recipe_ingredients.recipe_id").
		Where("user_recipes.user_id = ? AND user_recipes.is_in_shopping_cart = ?", userID, true).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		logger.Get().Error("failed to aggregate shopping cart", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	return items, nil
}
