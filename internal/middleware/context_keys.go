package middleware

import "github.com/gin-gonic/gin"

// userIDKey is the key used to store the authenticated actor's user ID.
const userIDKey = contextKey("userID")

// roleKey is the key used to store the authenticated actor's role.
const roleKey = contextKey("role")

// GetUserIDFromContext retrieves the authenticated actor's user ID from the
// Gin context, falling back to the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := v.(string); ok && userID != "" {
			return userID, true
		}
	}
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if userID, ok := v.(string); ok && userID != "" {
			return userID, true
		}
	}
	return "", false
}

// GetRoleFromContext retrieves the authenticated actor's role.
func GetRoleFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(roleKey); v != nil {
		if role, ok := v.(string); ok && role != "" {
			return role, true
		}
	}
	return "", false
}
