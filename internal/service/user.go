package service

import (
	"errors"
	"fmt"
	"regexp"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/foodgram/foodgram-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)

// UserService is the business logic layer for user-related operations.
type UserService struct {
	Cfg  *config.Config
	Repo repository.UserRepo
}

// NewUserService is the constructor function for initializing a new UserService.
func NewUserService(cfg *config.Config, repo repository.UserRepo) *UserService {
	return &UserService{
		Cfg:  cfg,
		Repo: repo,
	}
}

// CreateUser creates a new user with a bcrypt-hashed password.
func (s *UserService) CreateUser(username, email, firstName, lastName, password string) (*models.User, error) {
	if err := s.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := s.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %v", err)
	}

	user := &models.User{
		Username:       username,
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		HashedPassword: string(hashedPassword),
	}

	user, err = s.Repo.CreateUser(user)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// LoginUser checks a user's credentials and returns the user on success.
func (s *UserService) LoginUser(username, password string) (*models.User, error) {
	user, err := s.Repo.GetUserByUsername(username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	return user, nil
}

// SetPassword changes a user's password after verifying the current one.
func (s *UserService) SetPassword(user *models.User, currentPassword, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		return NewValidationError("current_password", "wrong password")
	}
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), 10)
	if err != nil {
		return fmt.Errorf("error hashing password: %v", err)
	}
	return s.Repo.UpdateUserPassword(user.ID, string(hashedPassword))
}

// GetUserByID gets a user by their ID.
func (s *UserService) GetUserByID(userID uint) (*models.User, error) {
	return s.Repo.GetUserByID(userID)
}

// ListUsers retrieves a page of users, optionally narrowed to an exact
// username match.
func (s *UserService) ListUsers(username string, page, pageSize int) ([]models.User, int64, error) {
	return s.Repo.ListUsers(username, page, pageSize)
}

// IsSubscribed reports whether currentUserID follows targetID. Anonymous
// callers (currentUserID 0) are never subscribed.
func (s *UserService) IsSubscribed(currentUserID, targetID uint) bool {
	if currentUserID == 0 || currentUserID == targetID {
		return false
	}
	exists, err := s.Repo.SubscriptionExists(currentUserID, targetID)
	if err != nil {
		return false
	}
	return exists
}

// ValidateUsername validates a username against a set of rules.
func (s *UserService) ValidateUsername(username string) error {
	// "me" is reserved for the /users/me/ route.
	if username == "me" {
		return NewValidationError("username", "username cannot be 'me'")
	}

	minLength := 3
	if len(username) < minLength {
		return NewValidationError("username", fmt.Sprintf("username must be at least %d characters", minLength))
	}

	if !usernameRe.MatchString(username) {
		return NewValidationError("username", "username may only contain letters, digits and .@+-")
	}

	// Profanity check
	profanityDetector := goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true).WithSanitizeAccents(false)
	if profanityDetector.IsProfane(username) {
		return NewValidationError("username", "username contains inappropriate language")
	}

	// Also caught as a unique violation in the repository.
	exists, err := s.Repo.UsernameExists(username)
	if err != nil {
		return fmt.Errorf("error checking username: %v", err)
	}
	if exists {
		return NewValidationError("username", "username is already taken")
	}

	return nil
}

// ValidateEmail validates an email address.
func (s *UserService) ValidateEmail(email string) error {
	if !govalidator.IsEmail(email) {
		return NewValidationError("email", "invalid email format")
	}
	return nil
}

// ValidatePassword validates a password against a set of rules.
func (s *UserService) ValidatePassword(password string) error {
	minLength := 8
	if len(password) < minLength {
		return NewValidationError("password", fmt.Sprintf("password must be at least %d characters", minLength))
	}
	return nil
}
