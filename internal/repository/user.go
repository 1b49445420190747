package repository

import (
	"errors"
	"strings"

	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserRepository is a repository for interacting with users and
// subscriptions.
type UserRepository struct {
	DB *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// CreateUser creates a new user.
func (r *UserRepository) CreateUser(user *models.User) (*models.User, error) {
	tx := r.DB.Begin()
	if err := tx.Create(user).Error; err != nil {
		tx.Rollback()
		return nil, translateUniqueViolation(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, translateUniqueViolation(err)
	}

	return user, nil
}

// translateUniqueViolation maps Postgres unique-constraint violations on the
// users table to caller-friendly errors. The gorm postgres driver speaks
// pgx, so violations surface as *pgconn.PgError.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// Match on the constraint name, not the detail: the detail
		// embeds the submitted value, and an email local part can
		// contain "username".
		name := pgErr.ConstraintName
		if name == "" {
			name = pgErr.Message
		}
		if strings.Contains(name, "username") {
			return NewConflictError("username already in use")
		}
		if strings.Contains(name, "email") {
			return NewConflictError("email already in use")
		}
	}
	return err
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(userID uint) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by their username.
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, err
	}

	return &user, nil
}

// ListUsers retrieves a page of users ordered by id. A non-empty username
// narrows the result to an exact username match.
func (r *UserRepository) ListUsers(username string, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.DB.Model(&models.User{})
	if username != "" {
		query = query.Where("username = ?", username)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// UpdateUserPassword updates a user's password hash.
func (r *UserRepository) UpdateUserPassword(userID uint, hashedPassword string) error {
	err := r.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("hashed_password", hashedPassword).Error
	if err != nil {
		logger.Get().Error("failed to update user password", zap.Uint("user_id", userID), zap.Error(err))
	}
	return err
}

// UsernameExists checks whether a username is already taken.
func (r *UserRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.DB.Model(&models.User{}).
		Where("username = ?", username).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateSubscription creates a follow relationship between two users. The
// unique index on (subscriber, subscribe_to) backstops concurrent
// subscribe requests; a violation is reported as a conflict.
func (r *UserRepository) CreateSubscription(subscriberID, subscribeToID uint) error {
	sub := models.Subscription{
		SubscriberID:  subscriberID,
		SubscribeToID: subscribeToID,
	}
	if err := r.DB.Create(&sub).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return NewConflictError("subscription already exists")
		}
		logger.Get().Error("failed to create subscription",
			zap.Uint("subscriber_id", subscriberID),
			zap.Uint("subscribe_to_id", subscribeToID),
			zap.Error(err))
		return err
	}
	return nil
}

// DeleteSubscription removes a follow relationship. Returns a NotFoundError
// if no subscription row exists.
func (r *UserRepository) DeleteSubscription(subscriberID, subscribeToID uint) error {
	// Hard delete: a soft-deleted row would keep occupying the unique
	// (subscriber, subscribe_to) index and block resubscribing.
	result := r.DB.Unscoped().
		Where("subscriber_id = ? AND subscribe_to_id = ?", subscriberID, subscribeToID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NewNotFoundError("subscription not found")
	}
	return nil
}

// SubscriptionExists checks whether a subscription row exists for the pair.
func (r *UserRepository) SubscriptionExists(subscriberID, subscribeToID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&models.Subscription{}).
		Where("subscriber_id = ? AND subscribe_to_id = ?", subscriberID, subscribeToID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListSubscribedUsers retrieves a page of the users the subscriber follows,
// ordered by username.
func (r *UserRepository) ListSubscribedUsers(subscriberID uint, page, pageSize int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := r.DB.Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.subscribe_to_id = users.id").
		Where("subscriptions.subscriber_id = ? AND subscriptions.deleted_at IS NULL", subscriberID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("users.username ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}
