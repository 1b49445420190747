package repository

import (
	"errors"

	"github.com/foodgram/foodgram-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IngredientRepository is a repository for the ingredient reference table.
type IngredientRepository struct {
	DB *gorm.DB
}

// NewIngredientRepository creates a new IngredientRepository.
func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{DB: db}
}

// GetIngredientByID retrieves an ingredient by its ID.
func (r *IngredientRepository) GetIngredientByID(ingredientID uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.DB.First(&ingredient, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("ingredient not found")
		}
		return nil, err
	}
	return &ingredient, nil
}

// GetIngredientsByIDs retrieves the ingredients with the given ids. The
// result may be shorter than the input when some ids do not exist; the
// caller compares lengths to detect unknown ids.
func (r *IngredientRepository) GetIngredientsByIDs(ingredientIDs []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ingredientIDs) == 0 {
		return ingredients, nil
	}
	if err := r.DB.Where("id IN ?", ingredientIDs).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// ListIngredients retrieves ingredients ordered by name. A non-empty
// namePrefix narrows the result to names starting with the prefix,
// case-insensitively.
func (r *IngredientRepository) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := r.DB.Order("name ASC")
	if namePrefix != "" {
		query = query.Where("name ILIKE ?", escapeLike(namePrefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// CreateIngredients bulk-inserts ingredient rows. Rows whose (name, unit)
// pair already exists are skipped, so imports can be rerun.
func (r *IngredientRepository) CreateIngredients(ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
		DoNothing: true,
	}).CreateInBatches(&ingredients, 500).Error
}
