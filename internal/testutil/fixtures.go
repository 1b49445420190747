package testutil

import (
	"encoding/base64"

	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/models"
	"gorm.io/gorm"
)

// TestConfig creates a config with the default validation bounds and page
// sizes, without reading the environment.
func TestConfig() *config.Config {
	return &config.Config{
		EnvVars: config.EnvVars{
			Port:           "8080",
			JwtSecretKey:   "test-secret",
			MinAmount:      1,
			MaxAmount:      32000,
			MinCookingTime: 1,
			MaxCookingTime: 32000,
			PageSize:       10,
			MaxPageSize:    100,
		},
	}
}

// TestUser creates a test user. The password hash matches "password123".
func TestUser() *models.User {
	return &models.User{
		Model:          gorm.Model{ID: 1},
		Username:       "testuser",
		Email:          "test@example.com",
		FirstName:      "Test",
		LastName:       "User",
		HashedPassword: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}
}

// TestIngredient creates a test ingredient.
func TestIngredient(id uint, name, unit string) *models.Ingredient {
	return &models.Ingredient{
		Model:           gorm.Model{ID: id},
		Name:            name,
		MeasurementUnit: unit,
	}
}

// TestTag creates a test tag.
func TestTag(id uint, name, slug string) *models.Tag {
	return &models.Tag{
		Model: gorm.Model{ID: id},
		Name:  name,
		Slug:  slug,
		Color: "#49B64E",
	}
}

// TestRecipe creates a test recipe authored by TestUser, with one
// ingredient and one tag attached.
func TestRecipe() *models.Recipe {
	author := TestUser()
	ingredient := TestIngredient(1, "flour", "g")
	tag := TestTag(1, "Breakfast", "breakfast")
	return &models.Recipe{
		Model:       gorm.Model{ID: 1},
		Name:        "Pancakes",
		AuthorID:    author.ID,
		Author:      author,
		ImageURL:    "https://images.example.com/recipes/images/pancakes.png",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []models.RecipeIngredient{
			{
				Model:        gorm.Model{ID: 1},
				RecipeID:     1,
				IngredientID: ingredient.ID,
				Ingredient:   ingredient,
				Amount:       200,
			},
		},
		Tags: []models.RecipeTag{
			{
				Model:    gorm.Model{ID: 1},
				RecipeID: 1,
				TagID:    tag.ID,
				Tag:      tag,
			},
		},
	}
}

// TestImageDataURI builds a small valid PNG data URI for recipe payloads.
func TestImageDataURI() string {
	payload := base64.StdEncoding.EncodeToString([]byte("fake png bytes"))
	return "data:image/png;base64," + payload
}
