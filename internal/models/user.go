package models

import (
	"gorm.io/gorm"
)

// User is the model for a user account.
type User struct {
	gorm.Model
	Username       string `gorm:"unique;index;not null"`
	Email          string `gorm:"unique;not null"`
	FirstName      string
	LastName       string
	HashedPassword string   `json:"-"`
	Recipes        []Recipe `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// Subscription is a directed follow relationship between two users.
// The (subscriber, subscribe_to) pair is unique and self-subscription is
// rejected by a check constraint added during migration.
type Subscription struct {
	gorm.Model
	SubscriberID  uint  `gorm:"uniqueIndex:idx_subscriber_target;not null"`
	Subscriber    *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	SubscribeToID uint  `gorm:"uniqueIndex:idx_subscriber_target;not null"`
	SubscribeTo   *User `gorm:"foreignKey:SubscribeToID;constraint:OnDelete:CASCADE"`
}

// UserRecipe is a user's relationship to a recipe. A row is created lazily
// on the first favorite/cart action and never deleted through the API;
// the flags toggle to false instead.
type UserRecipe struct {
	gorm.Model
	UserID           uint    `gorm:"uniqueIndex:idx_user_recipe;not null"`
	User             *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID         uint    `gorm:"uniqueIndex:idx_user_recipe;not null"`
	Recipe           *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	IsFavorited      bool    `gorm:"default:false"`
	IsInShoppingCart bool    `gorm:"default:false"`
}
