package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
)

// --- MockUserRepo ---

// MockUserRepo is an in-memory mock implementation of repository.UserRepo.
type MockUserRepo struct {
	mu     sync.Mutex
	Users  map[uint]*models.User
	Subs   map[uint]map[uint]bool
	NextID uint

	// Error overrides: set these to force specific methods to return errors.
	CreateUserErr         error
	GetUserByIDErr        error
	ListUsersErr          error
	CreateSubscriptionErr error
}

// NewMockUserRepo creates a new MockUserRepo with initialized maps.
func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		Users:  make(map[uint]*models.User),
		Subs:   make(map[uint]map[uint]bool),
		NextID: 1,
	}
}

func (m *MockUserRepo) CreateUser(user *models.User) (*models.User, error) {
	if m.CreateUserErr != nil {
		return nil, m.CreateUserErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == user.Username {
			return nil, repository.NewConflictError("username already in use")
		}
		if u.Email == user.Email {
			return nil, repository.NewConflictError("email already in use")
		}
	}
	user.ID = m.NextID
	m.NextID++
	m.Users[user.ID] = user
	return user, nil
}

func (m *MockUserRepo) GetUserByID(userID uint) (*models.User, error) {
	if m.GetUserByIDErr != nil {
		return nil, m.GetUserByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[userID]
	if !ok {
		return nil, repository.NewNotFoundError("user not found")
	}
	return u, nil
}

func (m *MockUserRepo) GetUserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repository.NewNotFoundError("user not found")
}

func (m *MockUserRepo) ListUsers(username string, page, pageSize int) ([]models.User, int64, error) {
	if m.ListUsersErr != nil {
		return nil, 0, m.ListUsersErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []models.User
	for _, u := range m.Users {
		if username != "" && u.Username != username {
			continue
		}
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	total := int64(len(users))
	return paginateUsers(users, page, pageSize), total, nil
}

func (m *MockUserRepo) UpdateUserPassword(userID uint, hashedPassword string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.Users[userID]
	if !ok {
		return repository.NewNotFoundError("user not found")
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (m *MockUserRepo) UsernameExists(username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.Users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepo) CreateSubscription(subscriberID, subscribeToID uint) error {
	if m.CreateSubscriptionErr != nil {
		return m.CreateSubscriptionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Subs[subscriberID][subscribeToID] {
		return repository.NewConflictError("subscription already exists")
	}
	if m.Subs[subscriberID] == nil {
		m.Subs[subscriberID] = make(map[uint]bool)
	}
	m.Subs[subscriberID][subscribeToID] = true
	return nil
}

func (m *MockUserRepo) DeleteSubscription(subscriberID, subscribeToID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.Subs[subscriberID][subscribeToID] {
		return repository.NewNotFoundError("subscription not found")
	}
	delete(m.Subs[subscriberID], subscribeToID)
	return nil
}

func (m *MockUserRepo) SubscriptionExists(subscriberID, subscribeToID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.Subs[subscriberID][subscribeToID], nil
}

func (m *MockUserRepo) ListSubscribedUsers(subscriberID uint, page, pageSize int) ([]models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []models.User
	for targetID := range m.Subs[subscriberID] {
		if u, ok := m.Users[targetID]; ok {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	total := int64(len(users))
	return paginateUsers(users, page, pageSize), total, nil
}

func paginateUsers(users []models.User, page, pageSize int) []models.User {
	start := (page - 1) * pageSize
	if start >= len(users) {
		return []models.User{}
	}
	end := start + pageSize
	if end > len(users) {
		end = len(users)
	}
	return users[start:end]
}

// --- MockRecipeRepo ---

type userRecipeKey struct {
	UserID   uint
	RecipeID uint
}

// MockRecipeRepo is an in-memory mock implementation of repository.RecipeRepo.
type MockRecipeRepo struct {
	mu          sync.Mutex
	Recipes     map[uint]*models.Recipe
	UserRecipes map[userRecipeKey]*models.UserRecipe
	NextID      uint

	// Error overrides: set these to force specific methods to return errors.
	CreateRecipeErr  error
	UpdateRecipeErr  error
	DeleteRecipeErr  error
	GetRecipeByIDErr error
	AggregateErr     error
}

// NewMockRecipeRepo creates a new MockRecipeRepo with initialized maps.
func NewMockRecipeRepo() *MockRecipeRepo {
	return &MockRecipeRepo{
		Recipes:     make(map[uint]*models.Recipe),
		UserRecipes: make(map[userRecipeKey]*models.UserRecipe),
		NextID:      1,
	}
}

func (m *MockRecipeRepo) GetRecipeByID(recipeID uint) (*models.Recipe, error) {
	if m.GetRecipeByIDErr != nil {
		return nil, m.GetRecipeByIDErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Recipes[recipeID]
	if !ok {
		return nil, repository.NewNotFoundError("recipe not found")
	}
	return r, nil
}

func (m *MockRecipeRepo) ListRecipes(filter repository.RecipeFilter, page, pageSize int) ([]models.Recipe, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var recipes []models.Recipe
	for _, r := range m.Recipes {
		if !m.matches(r, filter) {
			continue
		}
		recipes = append(recipes, *r)
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	total := int64(len(recipes))

	start := (page - 1) * pageSize
	if start >= len(recipes) {
		return []models.Recipe{}, total, nil
	}
	end := start + pageSize
	if end > len(recipes) {
		end = len(recipes)
	}
	return recipes[start:end], total, nil
}

func (m *MockRecipeRepo) matches(r *models.Recipe, filter repository.RecipeFilter) bool {
	if filter.AuthorID != nil && r.AuthorID != *filter.AuthorID {
		return false
	}
	if len(filter.TagSlugs) > 0 {
		found := false
		for _, rt := range r.Tags {
			if rt.Tag == nil {
				continue
			}
			for _, slug := range filter.TagSlugs {
				if rt.Tag.Slug == slug {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if filter.IsFavorited != nil {
		ur := m.UserRecipes[userRecipeKey{filter.UserID, r.ID}]
		favorited := ur != nil && ur.IsFavorited
		if favorited != *filter.IsFavorited {
			return false
		}
	}
	if filter.IsInShoppingCart != nil {
		ur := m.UserRecipes[userRecipeKey{filter.UserID, r.ID}]
		inCart := ur != nil && ur.IsInShoppingCart
		if inCart != *filter.IsInShoppingCart {
			return false
		}
	}
	return true
}

func (m *MockRecipeRepo) ListRecipesByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var recipes []models.Recipe
	for _, r := range m.Recipes {
		if r.AuthorID == authorID {
			recipes = append(recipes, *r)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	if limit > 0 && len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

func (m *MockRecipeRepo) CountRecipesByAuthor(authorID uint) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, r := range m.Recipes {
		if r.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (m *MockRecipeRepo) RecipeNameExists(name string, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.Recipes {
		if r.Name == name && r.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRecipeRepo) CreateRecipe(recipe *models.Recipe) error {
	if m.CreateRecipeErr != nil {
		return m.CreateRecipeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	recipe.ID = m.NextID
	m.NextID++
	m.Recipes[recipe.ID] = recipe
	return nil
}

func (m *MockRecipeRepo) UpdateRecipe(recipeID uint, fields map[string]interface{}, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	if m.UpdateRecipeErr != nil {
		return m.UpdateRecipeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.Recipes[recipeID]
	if !ok {
		return repository.NewNotFoundError("recipe not found")
	}
	if v, ok := fields["name"]; ok {
		r.Name = v.(string)
	}
	if v, ok := fields["text"]; ok {
		r.Text = v.(string)
	}
	if v, ok := fields["cooking_time"]; ok {
		r.CookingTime = v.(int)
	}
	if v, ok := fields["image_url"]; ok {
		r.ImageURL = v.(string)
	}
	r.Ingredients = ingredients
	r.Tags = tags
	return nil
}

func (m *MockRecipeRepo) DeleteRecipe(recipeID uint) error {
	if m.DeleteRecipeErr != nil {
		return m.DeleteRecipeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.Recipes, recipeID)
	for key := range m.UserRecipes {
		if key.RecipeID == recipeID {
			delete(m.UserRecipes, key)
		}
	}
	return nil
}

func (m *MockRecipeRepo) GetUserRecipe(userID, recipeID uint) (*models.UserRecipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ur, ok := m.UserRecipes[userRecipeKey{userID, recipeID}]
	if !ok {
		return nil, repository.NewNotFoundError("user recipe not found")
	}
	return ur, nil
}

func (m *MockRecipeRepo) MarkUserRecipe(userID, recipeID uint, flag repository.UserRecipeFlag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := userRecipeKey{userID, recipeID}
	ur, ok := m.UserRecipes[key]
	if !ok {
		ur = &models.UserRecipe{UserID: userID, RecipeID: recipeID}
		m.UserRecipes[key] = ur
	}
	switch flag {
	case repository.FlagFavorited:
		if ur.IsFavorited {
			return repository.NewConflictError("already marked")
		}
		ur.IsFavorited = true
	case repository.FlagInShoppingCart:
		if ur.IsInShoppingCart {
			return repository.NewConflictError("already marked")
		}
		ur.IsInShoppingCart = true
	default:
		return fmt.Errorf("unknown flag %q", flag)
	}
	return nil
}

func (m *MockRecipeRepo) UnmarkUserRecipe(userID, recipeID uint, flag repository.UserRecipeFlag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ur, ok := m.UserRecipes[userRecipeKey{userID, recipeID}]
	switch flag {
	case repository.FlagFavorited:
		if !ok || !ur.IsFavorited {
			return repository.NewConflictError("not marked")
		}
		ur.IsFavorited = false
	case repository.FlagInShoppingCart:
		if !ok || !ur.IsInShoppingCart {
			return repository.NewConflictError("not marked")
		}
		ur.IsInShoppingCart = false
	default:
		return fmt.Errorf("unknown flag %q", flag)
	}
	return nil
}

func (m *MockRecipeRepo) AggregateShoppingCart(userID uint) ([]repository.ShoppingCartItem, error) {
	if m.AggregateErr != nil {
		return nil, m.AggregateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	totals := make(map[string]*repository.ShoppingCartItem)
	for key, ur := range m.UserRecipes {
		if key.UserID != userID || !ur.IsInShoppingCart {
			continue
		}
		r, ok := m.Recipes[key.RecipeID]
		if !ok {
			continue
		}
		for _, ri := range r.Ingredients {
			if ri.Ingredient == nil {
				continue
			}
			k := ri.Ingredient.Name + "\x00" + ri.Ingredient.MeasurementUnit
			if item, ok := totals[k]; ok {
				item.Total += ri.Amount
			} else {
				totals[k] = &repository.ShoppingCartItem{
					Name:            ri.Ingredient.Name,
					MeasurementUnit: ri.Ingredient.MeasurementUnit,
					Total:           ri.Amount,
				}
			}
		}
	}

	items := make([]repository.ShoppingCartItem, 0, len(totals))
	for _, item := range totals {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

// --- MockIngredientRepo ---

// MockIngredientRepo is an in-memory mock implementation of
// repository.IngredientRepo.
type MockIngredientRepo struct {
	mu          sync.Mutex
	Ingredients map[uint]*models.Ingredient
	NextID      uint
}

// NewMockIngredientRepo creates a new MockIngredientRepo with initialized maps.
func NewMockIngredientRepo() *MockIngredientRepo {
	return &MockIngredientRepo{
		Ingredients: make(map[uint]*models.Ingredient),
		NextID:      1,
	}
}

func (m *MockIngredientRepo) GetIngredientByID(ingredientID uint) (*models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ing, ok := m.Ingredients[ingredientID]
	if !ok {
		return nil, repository.NewNotFoundError("ingredient not found")
	}
	return ing, nil
}

func (m *MockIngredientRepo) GetIngredientsByIDs(ingredientIDs []uint) ([]models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ingredients []models.Ingredient
	for _, id := range ingredientIDs {
		if ing, ok := m.Ingredients[id]; ok {
			ingredients = append(ingredients, *ing)
		}
	}
	return ingredients, nil
}

func (m *MockIngredientRepo) ListIngredients(namePrefix string) ([]models.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ingredients []models.Ingredient
	for _, ing := range m.Ingredients {
		if namePrefix != "" && !hasFoldPrefix(ing.Name, namePrefix) {
			continue
		}
		ingredients = append(ingredients, *ing)
	}
	sort.Slice(ingredients, func(i, j int) bool { return ingredients[i].Name < ingredients[j].Name })
	return ingredients, nil
}

func (m *MockIngredientRepo) CreateIngredients(ingredients []models.Ingredient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range ingredients {
		ing := ingredients[i]
		ing.ID = m.NextID
		m.NextID++
		m.Ingredients[ing.ID] = &ing
	}
	return nil
}

// hasFoldPrefix reports whether s starts with prefix, case-insensitively.
func hasFoldPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return foldEqual(s[:len(prefix)], prefix)
}

func foldEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// --- MockTagRepo ---

// MockTagRepo is an in-memory mock implementation of repository.TagRepo.
type MockTagRepo struct {
	mu     sync.Mutex
	Tags   map[uint]*models.Tag
	NextID uint
}

// NewMockTagRepo creates a new MockTagRepo with initialized maps.
func NewMockTagRepo() *MockTagRepo {
	return &MockTagRepo{
		Tags:   make(map[uint]*models.Tag),
		NextID: 1,
	}
}

func (m *MockTagRepo) GetTagByID(tagID uint) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag, ok := m.Tags[tagID]
	if !ok {
		return nil, repository.NewNotFoundError("tag not found")
	}
	return tag, nil
}

func (m *MockTagRepo) GetTagsByIDs(tagIDs []uint) ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tags []models.Tag
	for _, id := range tagIDs {
		if tag, ok := m.Tags[id]; ok {
			tags = append(tags, *tag)
		}
	}
	return tags, nil
}

func (m *MockTagRepo) ListTags() ([]models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var tags []models.Tag
	for _, tag := range m.Tags {
		tags = append(tags, *tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

func (m *MockTagRepo) CreateTags(tags []models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range tags {
		tag := tags[i]
		tag.ID = m.NextID
		m.NextID++
		m.Tags[tag.ID] = &tag
	}
	return nil
}

// --- MockImageStore ---

// MockImageStore is a mock implementation of service.ImageStore. Uploaded
// keys are recorded for assertions.
type MockImageStore struct {
	mu       sync.Mutex
	Uploaded []string
	Deleted  []string

	UploadErr error
}

func (m *MockImageStore) UploadRecipeImage(ctx context.Context, imgBytes []byte, ext string, key string) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Uploaded = append(m.Uploaded, key)
	return "https://images.example.com/" + key, nil
}

func (m *MockImageStore) DeleteRecipeImage(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Deleted = append(m.Deleted, key)
	return nil
}

// --- MockRenderer ---

// MockRenderer is a mock implementation of service.ShoppingListRenderer that
// records the items it was asked to render.
type MockRenderer struct {
	Rendered [][]repository.ShoppingCartItem
	Output   []byte
	Err      error
}

func (m *MockRenderer) Render(items []repository.ShoppingCartItem) ([]byte, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Rendered = append(m.Rendered, items)
	if m.Output != nil {
		return m.Output, nil
	}
	return []byte("%PDF-1.4 mock"), nil
}
