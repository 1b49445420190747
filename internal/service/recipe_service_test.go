package service

import (
	"context"
	"testing"

	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/testutil"
)

func newTestRecipeService(recipes *testutil.MockRecipeRepo) *RecipeService {
	ingredients := testutil.NewMockIngredientRepo()
	ingredients.CreateIngredients([]models.Ingredient{
		{Name: "flour", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
		{Name: "egg", MeasurementUnit: "pcs"},
	})
	tags := testutil.NewMockTagRepo()
	tags.CreateTags([]models.Tag{
		{Name: "Breakfast", Slug: "breakfast", Color: "#E26C2D"},
		{Name: "Dinner", Slug: "dinner", Color: "#8775D2"},
	})
	return NewRecipeService(
		testutil.TestConfig(),
		recipes,
		ingredients,
		tags,
		testutil.NewMockUserRepo(),
		&testutil.MockImageStore{},
	)
}

func validRecipeInput() RecipeInput {
	return RecipeInput{
		Name:        "Pancakes",
		Image:       testutil.TestImageDataURI(),
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []IngredientAmountInput{
			{ID: 2, Amount: 250},
			{ID: 1, Amount: 200},
		},
		Tags: []uint{1},
	}
}

func TestCreateRecipe_Success(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	resp, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("CreateRecipe returned error: %v", err)
	}
	if resp.Name != "Pancakes" {
		t.Errorf("Name = %q, want 'Pancakes'", resp.Name)
	}
	if resp.CookingTime != 20 {
		t.Errorf("CookingTime = %d, want 20", resp.CookingTime)
	}
	if resp.Image == "" {
		t.Error("Image URL should be set after upload")
	}
	if len(resp.Ingredients) != 2 {
		t.Fatalf("Ingredients count = %d, want 2", len(resp.Ingredients))
	}
	// Rows come back sorted by ingredient name: flour before milk.
	if resp.Ingredients[0].Name != "flour" || resp.Ingredients[1].Name != "milk" {
		t.Errorf("ingredient order = [%q, %q], want [flour, milk]",
			resp.Ingredients[0].Name, resp.Ingredients[1].Name)
	}
	if resp.Ingredients[0].Amount != 200 {
		t.Errorf("flour amount = %d, want 200", resp.Ingredients[0].Amount)
	}
}

func TestCreateRecipe_MissingRequiredFields(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	cases := []struct {
		field  string
		mutate func(*RecipeInput)
	}{
		{"name", func(in *RecipeInput) { in.Name = "" }},
		{"text", func(in *RecipeInput) { in.Text = "" }},
		{"image", func(in *RecipeInput) { in.Image = "" }},
	}
	for _, tc := range cases {
		input := validRecipeInput()
		tc.mutate(&input)
		_, err := svc.CreateRecipe(context.Background(), author, input)
		ve, ok := err.(ValidationError)
		if !ok {
			t.Fatalf("missing %s: got %v, want ValidationError", tc.field, err)
		}
		if _, ok := ve.Fields[tc.field]; !ok {
			t.Errorf("missing %s: error keyed on %v, want %q", tc.field, ve.Fields, tc.field)
		}
	}
}

func TestCreateRecipe_CookingTimeBounds(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	for _, minutes := range []int{0, 32001} {
		input := validRecipeInput()
		input.CookingTime = minutes
		_, err := svc.CreateRecipe(context.Background(), author, input)
		ve, ok := err.(ValidationError)
		if !ok {
			t.Fatalf("cooking_time %d: got %v, want ValidationError", minutes, err)
		}
		if _, ok := ve.Fields["cooking_time"]; !ok {
			t.Errorf("cooking_time %d: error keyed on %v", minutes, ve.Fields)
		}
	}

	// Inclusive bounds are accepted.
	input := validRecipeInput()
	input.CookingTime = 1
	if _, err := svc.CreateRecipe(context.Background(), author, input); err != nil {
		t.Errorf("cooking_time 1 rejected: %v", err)
	}
	input = validRecipeInput()
	input.Name = "Slow stew"
	input.CookingTime = 32000
	if _, err := svc.CreateRecipe(context.Background(), author, input); err != nil {
		t.Errorf("cooking_time 32000 rejected: %v", err)
	}
}

func TestCreateRecipe_DuplicateName(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	if _, err := svc.CreateRecipe(context.Background(), author, validRecipeInput()); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("duplicate name: got %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["name"]; !ok {
		t.Errorf("duplicate name: error keyed on %v, want 'name'", ve.Fields)
	}
}

func TestCreateRecipe_IngredientValidation(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	cases := []struct {
		name        string
		ingredients []IngredientAmountInput
	}{
		{"empty list", nil},
		{"duplicate id", []IngredientAmountInput{{ID: 1, Amount: 10}, {ID: 1, Amount: 20}}},
		{"unknown id", []IngredientAmountInput{{ID: 99, Amount: 10}}},
		{"amount below minimum", []IngredientAmountInput{{ID: 1, Amount: 0}}},
		{"amount above maximum", []IngredientAmountInput{{ID: 1, Amount: 32001}}},
	}
	for _, tc := range cases {
		input := validRecipeInput()
		input.Ingredients = tc.ingredients
		_, err := svc.CreateRecipe(context.Background(), author, input)
		ve, ok := err.(ValidationError)
		if !ok {
			t.Fatalf("%s: got %v, want ValidationError", tc.name, err)
		}
		if _, ok := ve.Fields["ingredients"]; !ok {
			t.Errorf("%s: error keyed on %v, want 'ingredients'", tc.name, ve.Fields)
		}
	}
}

func TestCreateRecipe_TagValidation(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	cases := []struct {
		name string
		tags []uint
	}{
		{"empty list", nil},
		{"duplicate id", []uint{1, 1}},
		{"unknown id", []uint{42}},
	}
	for _, tc := range cases {
		input := validRecipeInput()
		input.Tags = tc.tags
		_, err := svc.CreateRecipe(context.Background(), author, input)
		ve, ok := err.(ValidationError)
		if !ok {
			t.Fatalf("%s: got %v, want ValidationError", tc.name, err)
		}
		if _, ok := ve.Fields["tags"]; !ok {
			t.Errorf("%s: error keyed on %v, want 'tags'", tc.name, ve.Fields)
		}
	}
}

func TestCreateRecipe_InvalidImageDataURI(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	input := validRecipeInput()
	input.Image = "not a data uri"
	_, err := svc.CreateRecipe(context.Background(), author, input)
	ve, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["image"]; !ok {
		t.Errorf("error keyed on %v, want 'image'", ve.Fields)
	}
}

func TestUpdateRecipe_OnlyAuthor(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	author := testutil.TestUser()

	resp, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	other := testutil.TestUser()
	other.ID = 2
	other.Username = "otheruser"

	newText := "Stolen recipe"
	_, err = svc.UpdateRecipe(context.Background(), other, resp.ID, RecipeUpdateInput{
		Text:        &newText,
		Ingredients: []IngredientAmountInput{{ID: 1, Amount: 100}},
		Tags:        []uint{1},
	})
	if _, ok := err.(PermissionError); !ok {
		t.Errorf("got %v, want PermissionError", err)
	}

	if err := svc.DeleteRecipe(other, resp.ID); err == nil {
		t.Error("DeleteRecipe by non-author should fail")
	} else if _, ok := err.(PermissionError); !ok {
		t.Errorf("delete got %v, want PermissionError", err)
	}
}

func TestUpdateRecipe_PartialScalars(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	author := testutil.TestUser()

	created, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newText := "Updated instructions"
	updated, err := svc.UpdateRecipe(context.Background(), author, created.ID, RecipeUpdateInput{
		Text:        &newText,
		Ingredients: []IngredientAmountInput{{ID: 3, Amount: 2}},
		Tags:        []uint{2},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Pancakes" {
		t.Errorf("Name = %q, untouched field should keep its value", updated.Name)
	}
	if updated.Text != "Updated instructions" {
		t.Errorf("Text = %q, want 'Updated instructions'", updated.Text)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].Name != "egg" {
		t.Errorf("associations should be replaced wholesale, got %v", updated.Ingredients)
	}
}

func TestUpdateRecipe_NotFound(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	author := testutil.TestUser()

	_, err := svc.UpdateRecipe(context.Background(), author, 404, RecipeUpdateInput{
		Ingredients: []IngredientAmountInput{{ID: 1, Amount: 100}},
		Tags:        []uint{1},
	})
	if _, ok := err.(repository.NotFoundError); !ok {
		t.Errorf("got %v, want NotFoundError", err)
	}
}

func TestFavorite_ToggleSequence(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	author := testutil.TestUser()

	created, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	short, err := svc.Favorite(author, created.ID)
	if err != nil {
		t.Fatalf("first favorite failed: %v", err)
	}
	if short.ID != created.ID || short.Name != "Pancakes" {
		t.Errorf("short response = %+v", short)
	}

	if _, err := svc.Favorite(author, created.ID); err == nil {
		t.Error("second favorite should fail")
	} else if _, ok := err.(ValidationError); !ok {
		t.Errorf("second favorite got %v, want ValidationError", err)
	}

	if err := svc.Unfavorite(author, created.ID); err != nil {
		t.Fatalf("unfavorite failed: %v", err)
	}
	if err := svc.Unfavorite(author, created.ID); err == nil {
		t.Error("second unfavorite should fail")
	} else if _, ok := err.(ValidationError); !ok {
		t.Errorf("second unfavorite got %v, want ValidationError", err)
	}
}

func TestShoppingCart_FlagIndependentOfFavorite(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	author := testutil.TestUser()

	created, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Favorite(author, created.ID); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}
	if _, err := svc.AddToShoppingCart(author, created.ID); err != nil {
		t.Fatalf("add to cart failed: %v", err)
	}
	if err := svc.RemoveFromShoppingCart(author, created.ID); err != nil {
		t.Fatalf("remove from cart failed: %v", err)
	}

	// Clearing the cart flag must not touch the favorite flag.
	resp, err := svc.GetRecipe(created.ID, author.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !resp.IsFavorited {
		t.Error("IsFavorited should still be true")
	}
	if resp.IsInShoppingCart {
		t.Error("IsInShoppingCart should be false")
	}
}

func TestFavorite_RecipeNotFound(t *testing.T) {
	svc := newTestRecipeService(testutil.NewMockRecipeRepo())
	user := testutil.TestUser()

	_, err := svc.Favorite(user, 404)
	if _, ok := err.(repository.NotFoundError); !ok {
		t.Errorf("got %v, want NotFoundError", err)
	}
}

func TestGetRecipe_AnonymousFlagsFalse(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	author := testutil.TestUser()

	created, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Favorite(author, created.ID); err != nil {
		t.Fatalf("favorite failed: %v", err)
	}

	resp, err := svc.GetRecipe(created.ID, 0)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.IsFavorited || resp.IsInShoppingCart {
		t.Errorf("anonymous flags = (%v, %v), want (false, false)",
			resp.IsFavorited, resp.IsInShoppingCart)
	}
}

func TestShoppingCart_Aggregation(t *testing.T) {
	repo := testutil.NewMockRecipeRepo()
	svc := newTestRecipeService(repo)
	author := testutil.TestUser()

	first, err := svc.CreateRecipe(context.Background(), author, validRecipeInput())
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second := validRecipeInput()
	second.Name = "Crepes"
	second.Ingredients = []IngredientAmountInput{
		{ID: 1, Amount: 100},
		{ID: 3, Amount: 3},
	}
	secondResp, err := svc.CreateRecipe(context.Background(), author, second)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	for _, id := range []uint{first.ID, secondResp.ID} {
		if _, err := svc.AddToShoppingCart(author, id); err != nil {
			t.Fatalf("add to cart failed: %v", err)
		}
	}

	items, err := svc.ShoppingCart(author)
	if err != nil {
		t.Fatalf("ShoppingCart failed: %v", err)
	}
	// flour 200+100, milk 250, egg 3; ordered by name.
	if len(items) != 3 {
		t.Fatalf("items count = %d, want 3: %v", len(items), items)
	}
	if items[0].Name != "egg" || items[0].Total != 3 {
		t.Errorf("items[0] = %+v, want egg 3", items[0])
	}
	if items[1].Name != "flour" || items[1].Total != 300 {
		t.Errorf("items[1] = %+v, want flour 300", items[1])
	}
	if items[2].Name != "milk" || items[2].Total != 250 {
		t.Errorf("items[2] = %+v, want milk 250", items[2])
	}
}
