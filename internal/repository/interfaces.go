package repository

import "github.com/foodgram/foodgram-api/internal/models"

// UserRecipeFlag names one of the two independent boolean flags carried by
// a UserRecipe row.
type UserRecipeFlag string

// UserRecipeFlag column names.
const (
	FlagFavorited      UserRecipeFlag = "is_favorited"
	FlagInShoppingCart UserRecipeFlag = "is_in_shopping_cart"
)

// RecipeFilter holds the optional recipe list filters. Flag filters are
// scoped to UserID when it is set.
type RecipeFilter struct {
	AuthorID         *uint
	TagSlugs         []string
	IsFavorited      *bool
	IsInShoppingCart *bool
	UserID           uint
}

// ShoppingCartItem is one aggregated row of a user's consolidated shopping
// list: all cart recipes' amounts summed per (ingredient name, unit).
type ShoppingCartItem struct {
	Name            string
	MeasurementUnit string
	Total           int
}

// UserRepo is the interface for user and subscription repository operations.
type UserRepo interface {
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ListUsers(username string, page, pageSize int) ([]models.User, int64, error)
	UpdateUserPassword(userID uint, hashedPassword string) error
	UsernameExists(username string) (bool, error)

	CreateSubscription(subscriberID, subscribeToID uint) error
	DeleteSubscription(subscriberID, subscribeToID uint) error
	SubscriptionExists(subscriberID, subscribeToID uint) (bool, error)
	ListSubscribedUsers(subscriberID uint, page, pageSize int) ([]models.User, int64, error)
}

// RecipeRepo is the interface for recipe repository operations, including
// the per-user favorite/cart flags and the shopping-cart aggregate.
type RecipeRepo interface {
	GetRecipeByID(recipeID uint) (*models.Recipe, error)
	ListRecipes(filter RecipeFilter, page, pageSize int) ([]models.Recipe, int64, error)
	ListRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountRecipesByAuthor(authorID uint) (int64, error)
	RecipeNameExists(name string, excludeID uint) (bool, error)
	CreateRecipe(recipe *models.Recipe) error
	UpdateRecipe(recipeID uint, fields map[string]interface{}, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error
	DeleteRecipe(recipeID uint) error

	GetUserRecipe(userID, recipeID uint) (*models.UserRecipe, error)
	MarkUserRecipe(userID, recipeID uint, flag UserRecipeFlag) error
	UnmarkUserRecipe(userID, recipeID uint, flag UserRecipeFlag) error
	AggregateShoppingCart(userID uint) ([]ShoppingCartItem, error)
}

// IngredientRepo is the interface for ingredient reference-table operations.
type IngredientRepo interface {
	GetIngredientByID(ingredientID uint) (*models.Ingredient, error)
	GetIngredientsByIDs(ingredientIDs []uint) ([]models.Ingredient, error)
	ListIngredients(namePrefix string) ([]models.Ingredient, error)
	CreateIngredients(ingredients []models.Ingredient) error
}

// TagRepo is the interface for tag reference-table operations.
type TagRepo interface {
	GetTagByID(tagID uint) (*models.Tag, error)
	GetTagsByIDs(tagIDs []uint) ([]models.Tag, error)
	ListTags() ([]models.Tag, error)
	CreateTags(tags []models.Tag) error
}
