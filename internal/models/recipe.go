package models

import (
	"gorm.io/gorm"
)

// Recipe is the model for an authored recipe.
type Recipe struct {
	gorm.Model
	Name        string `gorm:"unique;index;not null"`
	AuthorID    uint   `gorm:"index;not null"`
	Author      *User  `gorm:"foreignKey:AuthorID"`
	ImageURL    string
	Text        string
	CookingTime int                // minutes
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
	Tags        []RecipeTag        `gorm:"foreignKey:RecipeID"`
}

// RecipeIngredient links a recipe to an ingredient with an amount.
// Each (recipe, ingredient) pair is unique.
type RecipeIngredient struct {
	gorm.Model
	RecipeID     uint        `gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
	IngredientID uint        `gorm:"uniqueIndex:idx_recipe_ingredient;not null"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int         `gorm:"not null"`
}

// RecipeTag links a recipe to a tag. Each (recipe, tag) pair is unique.
type RecipeTag struct {
	gorm.Model
	RecipeID uint `gorm:"uniqueIndex:idx_recipe_tag;not null"`
	TagID    uint `gorm:"uniqueIndex:idx_recipe_tag;not null"`
	Tag      *Tag `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

// Ingredient is a reference-table entry for an ingredient and its
// measurement unit. The same name may appear under several units, so
// uniqueness is on the (name, unit) pair.
type Ingredient struct {
	gorm.Model
	Name            string `gorm:"uniqueIndex:idx_ingredient_name_unit;index;not null"`
	MeasurementUnit string `gorm:"uniqueIndex:idx_ingredient_name_unit;not null"`
}

// Tag is a labeled, colored category attachable to recipes. Color is a hex
// string in #RRGGBB form; hex is the canonical wire format in both
// directions.
type Tag struct {
	gorm.Model
	Name  string `gorm:"not null"`
	Slug  string `gorm:"unique;index;not null"`
	Color string `gorm:"not null"`
}
