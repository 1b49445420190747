package middleware

import (
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/foodgram/foodgram-api/internal/util"
	"github.com/gin-gonic/gin"
)

// AttachUserToContext attaches the authenticated user to the context.
// Requests without a valid user id pass through with no user set.
func AttachUserToContext(userService *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := util.GetUserIDFromContext(c)
		if err != nil {
			c.Next()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err == nil {
			c.Set("user", user)
		}
		c.Next()
	}
}
