package service

import (
	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
)

// SubscriptionService is the business logic layer for user-to-user follow
// relationships.
type SubscriptionService struct {
	Cfg     *config.Config
	Users   repository.UserRepo
	Recipes repository.RecipeRepo
}

// NewSubscriptionService is the constructor function for initializing a new
// SubscriptionService.
func NewSubscriptionService(cfg *config.Config, users repository.UserRepo, recipes repository.RecipeRepo) *SubscriptionService {
	return &SubscriptionService{
		Cfg:     cfg,
		Users:   users,
		Recipes: recipes,
	}
}

// Subscribe makes subscriber follow the target user and returns the
// target's expanded representation. Self-subscription and duplicate
// subscriptions are validation errors; a missing target is a not-found.
func (s *SubscriptionService) Subscribe(subscriber *models.User, targetID uint, recipesLimit int) (*ExpandedUserResponse, error) {
	target, err := s.Users.GetUserByID(targetID)
	if err != nil {
		return nil, err
	}

	if subscriber.ID == targetID {
		return nil, NewValidationError("errors", "cannot subscribe to yourself")
	}

	exists, err := s.Users.SubscriptionExists(subscriber.ID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, NewValidationError("errors", "already subscribed")
	}

	if err := s.Users.CreateSubscription(subscriber.ID, targetID); err != nil {
		return nil, err
	}

	return s.expandUser(target, true, recipesLimit)
}

// Unsubscribe removes the follow relationship. A missing target user is a
// not-found; a missing subscription row is a validation error.
func (s *SubscriptionService) Unsubscribe(subscriber *models.User, targetID uint) error {
	if _, err := s.Users.GetUserByID(targetID); err != nil {
		return err
	}

	if err := s.Users.DeleteSubscription(subscriber.ID, targetID); err != nil {
		if _, ok := err.(repository.NotFoundError); ok {
			return NewValidationError("errors", "not subscribed")
		}
		return err
	}
	return nil
}

// ListSubscriptions returns a page of the users the subscriber follows,
// ordered by username, each expanded with a capped recipe list and total
// recipe count.
func (s *SubscriptionService) ListSubscriptions(subscriber *models.User, recipesLimit, page, pageSize int) ([]ExpandedUserResponse, int64, error) {
	users, total, err := s.Users.ListSubscribedUsers(subscriber.ID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	results := make([]ExpandedUserResponse, 0, len(users))
	for i := range users {
		expanded, err := s.expandUser(&users[i], true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		results = append(results, *expanded)
	}

	return results, total, nil
}

// expandUser builds the expanded user representation: profile fields plus
// the user's recipes (capped at recipesLimit when > 0) and recipe count.
func (s *SubscriptionService) expandUser(user *models.User, isSubscribed bool, recipesLimit int) (*ExpandedUserResponse, error) {
	recipes, err := s.Recipes.ListRecipesByAuthor(user.ID, recipesLimit)
	if err != nil {
		return nil, err
	}
	count, err := s.Recipes.CountRecipesByAuthor(user.ID)
	if err != nil {
		return nil, err
	}

	shortRecipes := make([]ShortRecipeResponse, 0, len(recipes))
	for i := range recipes {
		shortRecipes = append(shortRecipes, ToShortRecipeResponse(&recipes[i]))
	}

	return &ExpandedUserResponse{
		UserResponse: ToUserResponse(user, isSubscribed),
		Recipes:      shortRecipes,
		RecipesCount: count,
	}, nil
}
