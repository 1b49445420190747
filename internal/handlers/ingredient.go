package handlers

import (
	"net/http"

	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/gin-gonic/gin"
)

// IngredientHandler is the handler for ingredient-related requests.
// Like tags, ingredients are a read-only reference table through the API.
type IngredientHandler struct {
	Repo repository.IngredientRepo
}

// NewIngredientHandler is the constructor function for initializing a new
// IngredientHandler.
func NewIngredientHandler(repo repository.IngredientRepo) *IngredientHandler {
	return &IngredientHandler{Repo: repo}
}

// ListIngredients returns ingredients, unpaginated, optionally narrowed to
// those whose name starts with the ?name= query value (case-insensitive).
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	prefix := c.Query("name")

	ingredients, err := h.Repo.ListIngredients(prefix)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	results := make([]service.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		results = append(results, service.ToIngredientResponse(&ingredients[i]))
	}
	c.JSON(http.StatusOK, results)
}

// GetIngredient returns a single ingredient by id.
func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	ingredientID, err := parseUintParam(c.Param("ingredient_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid ingredient id"})
		return
	}

	ingredient, err := h.Repo.GetIngredientByID(ingredientID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.ToIngredientResponse(ingredient))
}
