package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/storage"
	"github.com/foodgram/foodgram-api/internal/util"
)

// ImageStore stores decoded recipe images and returns their public URL.
type ImageStore interface {
	UploadRecipeImage(ctx context.Context, imgBytes []byte, ext string, key string) (string, error)
	DeleteRecipeImage(ctx context.Context, key string) error
}

// ShoppingListRenderer renders an aggregated shopping list as a binary
// document. Implemented by the PDF renderer.
type ShoppingListRenderer interface {
	Render(items []repository.ShoppingCartItem) ([]byte, error)
}

// IngredientAmountInput is one {ingredient id, amount} pair of a recipe
// write payload.
type IngredientAmountInput struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeInput is the recipe create payload. Image is a base64 data URI.
type RecipeInput struct {
	Name        string                  `json:"name"`
	Image       string                  `json:"image"`
	Text        string                  `json:"text"`
	CookingTime int                     `json:"cooking_time"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
	Tags        []uint                  `json:"tags"`
}

// RecipeUpdateInput is the recipe patch payload. Scalar fields are applied
// only when present; ingredient and tag associations are always replaced
// wholesale.
type RecipeUpdateInput struct {
	Name        *string                 `json:"name"`
	Image       *string                 `json:"image"`
	Text        *string                 `json:"text"`
	CookingTime *int                    `json:"cooking_time"`
	Ingredients []IngredientAmountInput `json:"ingredients"`
	Tags        []uint                  `json:"tags"`
}

// RecipeService is the business logic layer for recipes, favorites, and
// the shopping cart.
type RecipeService struct {
	Cfg         *config.Config
	Repo        repository.RecipeRepo
	Ingredients repository.IngredientRepo
	Tags        repository.TagRepo
	Users       repository.UserRepo
	Images      ImageStore
}

// NewRecipeService is the constructor function for initializing a new
// RecipeService.
func NewRecipeService(cfg *config.Config, repo repository.RecipeRepo, ingredients repository.IngredientRepo, tags repository.TagRepo, users repository.UserRepo, images ImageStore) *RecipeService {
	return &RecipeService{
		Cfg:         cfg,
		Repo:        repo,
		Ingredients: ingredients,
		Tags:        tags,
		Users:       users,
		Images:      images,
	}
}

// GetRecipe retrieves a recipe and builds its read representation for the
// given caller (0 for anonymous).
func (s *RecipeService) GetRecipe(recipeID, currentUserID uint) (*RecipeResponse, error) {
	recipe, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(recipe, currentUserID)
	return &resp, nil
}

// ListRecipes retrieves a page of recipes with the given filters applied.
func (s *RecipeService) ListRecipes(filter repository.RecipeFilter, page, pageSize int) ([]RecipeResponse, int64, error) {
	recipes, total, err := s.Repo.ListRecipes(filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	results := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		results = append(results, s.toResponse(&recipes[i], filter.UserID))
	}
	return results, total, nil
}

// CreateRecipe validates the payload, stores the image, and persists the
// recipe with its associations.
func (s *RecipeService) CreateRecipe(ctx context.Context, author *models.User, input RecipeInput) (*RecipeResponse, error) {
	if input.Name == "" {
		return nil, NewValidationError("name", "name is required")
	}
	if input.Text == "" {
		return nil, NewValidationError("text", "text is required")
	}
	if input.Image == "" {
		return nil, NewValidationError("image", "image is required")
	}
	if err := s.validateCookingTime(input.CookingTime); err != nil {
		return nil, err
	}

	exists, err := s.Repo.RecipeNameExists(input.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("name", "a recipe with this name already exists")
	}

	ingredients, err := s.buildIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}
	tags, err := s.buildTags(input.Tags)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:        input.Name,
		AuthorID:    author.ID,
		ImageURL:    imageURL,
		Text:        input.Text,
		CookingTime: input.CookingTime,
		Ingredients: ingredients,
		Tags:        tags,
	}

	if err := s.Repo.CreateRecipe(recipe); err != nil {
		return nil, err
	}

	return s.GetRecipe(recipe.ID, author.ID)
}

// UpdateRecipe patches a recipe's scalar fields and replaces its
// ingredient and tag associations. Only the author may update a recipe;
// the author field itself is immutable.
func (s *RecipeService) UpdateRecipe(ctx context.Context, user *models.User, recipeID uint, input RecipeUpdateInput) (*RecipeResponse, error) {
	recipe, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != user.ID {
		return nil, NewPermissionError("only the author can modify a recipe")
	}

	fields := map[string]interface{}{}
	if input.Name != nil && *input.Name != recipe.Name {
		exists, err := s.Repo.RecipeNameExists(*input.Name, recipeID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, NewValidationError("name", "a recipe with this name already exists")
		}
		fields["name"] = *input.Name
	}
	if input.Text != nil {
		fields["text"] = *input.Text
	}
	if input.CookingTime != nil {
		if err := s.validateCookingTime(*input.CookingTime); err != nil {
			return nil, err
		}
		fields["cooking_time"] = *input.CookingTime
	}

	ingredients, err := s.buildIngredients(input.Ingredients)
	if err != nil {
		return nil, err
	}
	tags, err := s.buildTags(input.Tags)
	if err != nil {
		return nil, err
	}

	if input.Image != nil {
		imageURL, err := s.storeImage(ctx, *input.Image)
		if err != nil {
			return nil, err
		}
		fields["image_url"] = imageURL
	}

	if err := s.Repo.UpdateRecipe(recipeID, fields, ingredients, tags); err != nil {
		return nil, err
	}

	return s.GetRecipe(recipeID, user.ID)
}

// DeleteRecipe deletes a recipe. Only the author may delete it.
func (s *RecipeService) DeleteRecipe(user *models.User, recipeID uint) error {
	recipe, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return err
	}
	if recipe.AuthorID != user.ID {
		return NewPermissionError("only the author can delete a recipe")
	}
	return s.Repo.DeleteRecipe(recipeID)
}

// Favorite marks a recipe as a favorite of the user and returns its
// shortened representation. A second mark is a validation error.
func (s *RecipeService) Favorite(user *models.User, recipeID uint) (*ShortRecipeResponse, error) {
	return s.mark(user, recipeID, repository.FlagFavorited, "already in favorites")
}

// Unfavorite clears the favorite flag. Clearing an unset flag is a
// validation error.
func (s *RecipeService) Unfavorite(user *models.User, recipeID uint) error {
	return s.unmark(user, recipeID, repository.FlagFavorited, "not in favorites")
}

// AddToShoppingCart puts a recipe into the user's shopping cart and
// returns its shortened representation.
func (s *RecipeService) AddToShoppingCart(user *models.User, recipeID uint) (*ShortRecipeResponse, error) {
	return s.mark(user, recipeID, repository.FlagInShoppingCart, "already in shopping cart")
}

// RemoveFromShoppingCart takes a recipe out of the user's shopping cart.
func (s *RecipeService) RemoveFromShoppingCart(user *models.User, recipeID uint) error {
	return s.unmark(user, recipeID, repository.FlagInShoppingCart, "not in shopping cart")
}

// ShoppingCart returns the user's consolidated shopping list, amounts
// summed per (ingredient name, unit).
func (s *RecipeService) ShoppingCart(user *models.User) ([]repository.ShoppingCartItem, error) {
	return s.Repo.AggregateShoppingCart(user.ID)
}

func (s *RecipeService) mark(user *models.User, recipeID uint, flag repository.UserRecipeFlag, conflictMsg string) (*ShortRecipeResponse, error) {
	recipe, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.MarkUserRecipe(user.ID, recipeID, flag); err != nil {
		if _, ok := err.(repository.ConflictError); ok {
			return nil, NewValidationError("errors", fmt.Sprintf("%s is %s", recipe.Name, conflictMsg))
		}
		return nil, err
	}

	resp := ToShortRecipeResponse(recipe)
	return &resp, nil
}

func (s *RecipeService) unmark(user *models.User, recipeID uint, flag repository.UserRecipeFlag, conflictMsg string) error {
	recipe, err := s.Repo.GetRecipeByID(recipeID)
	if err != nil {
		return err
	}

	if err := s.Repo.UnmarkUserRecipe(user.ID, recipeID, flag); err != nil {
		if _, ok := err.(repository.ConflictError); ok {
			return NewValidationError("errors", fmt.Sprintf("%s is %s", recipe.Name, conflictMsg))
		}
		return err
	}
	return nil
}

// buildIngredients validates the ingredient list (non-empty, no
// duplicates, known ids, amounts within bounds) and returns the
// association rows sorted by ingredient name.
func (s *RecipeService) buildIngredients(inputs []IngredientAmountInput) ([]models.RecipeIngredient, error) {
	if len(inputs) == 0 {
		return nil, NewValidationError("ingredients", "ingredients list must not be empty")
	}

	seen := make(map[uint]bool, len(inputs))
	ids := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if seen[in.ID] {
			return nil, NewValidationError("ingredients", "duplicate ingredient")
		}
		seen[in.ID] = true
		ids = append(ids, in.ID)

		if in.Amount < s.Cfg.EnvVars.MinAmount || in.Amount > s.Cfg.EnvVars.MaxAmount {
			return nil, NewValidationError("ingredients", fmt.Sprintf(
				"amount must be between %d and %d", s.Cfg.EnvVars.MinAmount, s.Cfg.EnvVars.MaxAmount))
		}
	}

	found, err := s.Ingredients.GetIngredientsByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(found) != len(ids) {
		return nil, NewValidationError("ingredients", "unknown ingredient")
	}

	byID := make(map[uint]models.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}

	rows := make([]models.RecipeIngredient, 0, len(inputs))
	for _, in := range inputs {
		ing := byID[in.ID]
		rows = append(rows, models.RecipeIngredient{
			IngredientID: in.ID,
			Ingredient:   &ing,
			Amount:       in.Amount,
		})
	}

	// Stable insertion order by ingredient name, so later listings by
	// insertion order come out alphabetical.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Ingredient.Name < rows[j].Ingredient.Name
	})

	return rows, nil
}

// buildTags validates the tag list (non-empty, no duplicates, known ids)
// and returns the association rows.
func (s *RecipeService) buildTags(tagIDs []uint) ([]models.RecipeTag, error) {
	if len(tagIDs) == 0 {
		return nil, NewValidationError("tags", "tags list must not be empty")
	}

	seen := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if seen[id] {
			return nil, NewValidationError("tags", "duplicate tag")
		}
		seen[id] = true
	}

	found, err := s.Tags.GetTagsByIDs(tagIDs)
	if err != nil {
		return nil, err
	}
	if len(found) != len(tagIDs) {
		return nil, NewValidationError("tags", "unknown tag")
	}

	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, models.RecipeTag{TagID: id})
	}
	return rows, nil
}

func (s *RecipeService) validateCookingTime(minutes int) error {
	if minutes < s.Cfg.EnvVars.MinCookingTime || minutes > s.Cfg.EnvVars.MaxCookingTime {
		return NewValidationError("cooking_time", fmt.Sprintf(
			"cooking time must be between %d and %d minutes",
			s.Cfg.EnvVars.MinCookingTime, s.Cfg.EnvVars.MaxCookingTime))
	}
	return nil
}

// storeImage decodes a base64 image data URI and uploads it, returning the
// stored image URL.
func (s *RecipeService) storeImage(ctx context.Context, dataURI string) (string, error) {
	raw, ext, err := util.ParseImageDataURI(dataURI)
	if err != nil {
		return "", NewValidationError("image", "image must be a base64 data URI")
	}
	url, err := s.Images.UploadRecipeImage(ctx, raw, ext, storage.GenerateImageKey(ext))
	if err != nil {
		return "", fmt.Errorf("error storing recipe image: %v", err)
	}
	return url, nil
}

// toResponse builds a recipe read representation for the caller, computing
// the favorite/cart flags and the author's is_subscribed.
func (s *RecipeService) toResponse(recipe *models.Recipe, currentUserID uint) RecipeResponse {
	var isFavorited, isInCart, authorSubscribed bool
	if currentUserID != 0 {
		if ur, err := s.Repo.GetUserRecipe(currentUserID, recipe.ID); err == nil {
			isFavorited = ur.IsFavorited
			isInCart = ur.IsInShoppingCart
		}
		if currentUserID != recipe.AuthorID {
			if exists, err := s.Users.SubscriptionExists(currentUserID, recipe.AuthorID); err == nil {
				authorSubscribed = exists
			}
		}
	}
	return ToRecipeResponse(recipe, authorSubscribed, isFavorited, isInCart)
}
