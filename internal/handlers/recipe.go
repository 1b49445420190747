package handlers

import (
	"net/http"
	"strconv"

	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/foodgram/foodgram-api/internal/util"
	"github.com/gin-gonic/gin"
)

// RecipeHandler is the handler for recipe-related requests, including
// favorites, the shopping cart, and the shopping-list export.
type RecipeHandler struct {
	Service  *service.RecipeService
	Renderer service.ShoppingListRenderer
}

// NewRecipeHandler is the constructor function for initializing a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService, renderer service.ShoppingListRenderer) *RecipeHandler {
	return &RecipeHandler{
		Service:  recipeService,
		Renderer: renderer,
	}
}

// ListRecipes returns a page of recipes with the optional author, tag, and
// flag filters applied.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := parsePagination(c, h.Service.Cfg)
	currentUserID, _ := util.GetUserIDFromContext(c)

	filter := repository.RecipeFilter{UserID: currentUserID}
	if v := c.Query("author"); v != "" {
		authorID, err := parseUintParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	if slugs := c.QueryArray("tags"); len(slugs) > 0 {
		filter.TagSlugs = slugs
	}
	if v := c.Query("is_favorited"); v != "" {
		flag := v == "1"
		filter.IsFavorited = &flag
	}
	if v := c.Query("is_in_shopping_cart"); v != "" {
		flag := v == "1"
		filter.IsInShoppingCart = &flag
	}

	results, total, err := h.Service.ListRecipes(filter, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, service.PagedResponse{Count: total, Results: results})
}

// GetRecipe returns a single recipe by id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	currentUserID, _ := util.GetUserIDFromContext(c)
	recipe, err := h.Service.GetRecipe(recipeID, currentUserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe creates a recipe authored by the caller.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	var input service.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe payload"})
		return
	}

	recipe, err := h.Service.CreateRecipe(c.Request.Context(), user, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe patches a recipe. Only the author may update it.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	var input service.RecipeUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe payload"})
		return
	}

	recipe, err := h.Service.UpdateRecipe(c.Request.Context(), user, recipeID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe deletes a recipe. Only the author may delete it.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	if err := h.Service.DeleteRecipe(user, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Favorite marks a recipe as the caller's favorite.
func (h *RecipeHandler) Favorite(c *gin.Context) {
	h.markRecipe(c, h.Service.Favorite)
}

// Unfavorite clears the caller's favorite flag on a recipe.
func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	h.unmarkRecipe(c, h.Service.Unfavorite)
}

// AddToShoppingCart puts a recipe into the caller's shopping cart.
func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.markRecipe(c, h.Service.AddToShoppingCart)
}

// RemoveFromShoppingCart removes a recipe from the caller's shopping cart.
func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.unmarkRecipe(c, h.Service.RemoveFromShoppingCart)
}

// DownloadShoppingCart renders the caller's aggregated shopping list as a
// PDF attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	items, err := h.Service.ShoppingCart(user)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	document, err := h.Renderer.Render(items)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	c.Header("Content-Length", strconv.Itoa(len(document)))
	c.Data(http.StatusOK, "application/pdf", document)
}

func (h *RecipeHandler) markRecipe(c *gin.Context, mark func(*models.User, uint) (*service.ShortRecipeResponse, error)) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	recipe, err := mark(user, recipeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) unmarkRecipe(c *gin.Context, unmark func(*models.User, uint) error) {
	user, err := util.GetUserFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"errors": "authentication required"})
		return
	}

	recipeID, err := parseUintParam(c.Param("recipe_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid recipe id"})
		return
	}

	if err := unmark(user, recipeID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
