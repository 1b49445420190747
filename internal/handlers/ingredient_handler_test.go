package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/testutil"
	"github.com/gin-gonic/gin"
)

func newIngredientHandler() (*IngredientHandler, *testutil.MockIngredientRepo) {
	repo := testutil.NewMockIngredientRepo()
	repo.CreateIngredients([]models.Ingredient{
		{Name: "Milk", MeasurementUnit: "ml"},
		{Name: "Mint", MeasurementUnit: "g"},
		{Name: "Oat milk", MeasurementUnit: "ml"},
	})
	return NewIngredientHandler(repo), repo
}

func TestListIngredients_All(t *testing.T) {
	handler, _ := newIngredientHandler()

	r := gin.New()
	r.GET("/api/ingredients/", handler.ListIngredients)

	req := httptest.NewRequest("GET", "/api/ingredients/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", w.Code, w.Body.String())
	}
	var body []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body) != 3 {
		t.Errorf("ingredient count = %d, want 3", len(body))
	}
}

func TestListIngredients_NamePrefix(t *testing.T) {
	handler, _ := newIngredientHandler()

	r := gin.New()
	r.GET("/api/ingredients/", handler.ListIngredients)

	// Prefix match only: "Oat milk" contains "mi" but does not start
	// with it.
	req := httptest.NewRequest("GET", "/api/ingredients/?name=mi", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body []map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if len(body) != 2 {
		t.Fatalf("filtered count = %d, want 2: %s", len(body), w.Body.String())
	}
	if body[0]["name"] != "Milk" || body[1]["name"] != "Mint" {
		t.Errorf("filtered names = [%v, %v], want [Milk, Mint]", body[0]["name"], body[1]["name"])
	}
}

func TestGetIngredient(t *testing.T) {
	handler, _ := newIngredientHandler()

	r := gin.New()
	r.GET("/api/ingredients/:ingredient_id/", handler.GetIngredient)

	req := httptest.NewRequest("GET", "/api/ingredients/1/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["name"] != "Milk" || body["measurement_unit"] != "ml" {
		t.Errorf("body = %v", body)
	}

	req = httptest.NewRequest("GET", "/api/ingredients/99/", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", w.Code)
	}
}
