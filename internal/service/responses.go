package service

import (
	"github.com/foodgram/foodgram-api/internal/models"
)

// UserResponse is the wire representation of a user.
type UserResponse struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// ExpandedUserResponse is a user representation carrying a capped list of
// the user's recipes and their total recipe count. Used by subscription
// endpoints.
type ExpandedUserResponse struct {
	UserResponse
	Recipes      []ShortRecipeResponse `json:"recipes"`
	RecipesCount int64                 `json:"recipes_count"`
}

// ShortRecipeResponse is the shortened recipe representation returned by
// favorite/cart toggles and embedded in expanded user payloads.
type ShortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// TagResponse is the wire representation of a tag. Color is echoed as the
// canonical #RRGGBB hex string.
type TagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
}

// RecipeIngredientResponse is one ingredient line of a recipe read
// payload: the ingredient's reference fields plus the recipe's amount.
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// IngredientResponse is the wire representation of a reference-table
// ingredient.
type IngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// RecipeResponse is the full recipe read representation. The two flags are
// computed for the authenticated caller and false for anonymous reads.
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// PagedResponse is the page-number pagination envelope.
type PagedResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

// ToUserResponse converts a User to a UserResponse.
func ToUserResponse(user *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// ToShortRecipeResponse converts a Recipe to its shortened representation.
func ToShortRecipeResponse(recipe *models.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// ToTagResponse converts a Tag to a TagResponse.
func ToTagResponse(tag *models.Tag) TagResponse {
	return TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Slug:  tag.Slug,
		Color: tag.Color,
	}
}

// ToIngredientResponse converts an Ingredient to an IngredientResponse.
func ToIngredientResponse(ingredient *models.Ingredient) IngredientResponse {
	return IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

// ToRecipeResponse converts a preloaded Recipe to its full read
// representation.
func ToRecipeResponse(recipe *models.Recipe, authorSubscribed, isFavorited, isInCart bool) RecipeResponse {
	resp := RecipeResponse{
		ID:               recipe.ID,
		Tags:             make([]TagResponse, 0, len(recipe.Tags)),
		Ingredients:      make([]RecipeIngredientResponse, 0, len(recipe.Ingredients)),
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
	if recipe.Author != nil {
		resp.Author = ToUserResponse(recipe.Author, authorSubscribed)
	}
	for _, rt := range recipe.Tags {
		if rt.Tag != nil {
			resp.Tags = append(resp.Tags, ToTagResponse(rt.Tag))
		}
	}
	for _, ri := range recipe.Ingredients {
		if ri.Ingredient == nil {
			continue
		}
		resp.Ingredients = append(resp.Ingredients, RecipeIngredientResponse{
			ID:              ri.IngredientID,
			Name:            ri.Ingredient.Name,
			MeasurementUnit: ri.Ingredient.MeasurementUnit,
			Amount:          ri.Amount,
		})
	}
	return resp
}
