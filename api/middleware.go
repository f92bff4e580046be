package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sardarhouse/guesthouse/internal/auth"
)

const (
	ctxGuestID = "guest_id"
	ctxIsAdmin = "is_admin"
)

// AuthRequired validates the bearer token and attaches the caller
// identity to the request context.
func AuthRequired(jwtSvc *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}

		claims, err := jwtSvc.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
			return
		}

		guestID, err := uuid.Parse(claims.GuestID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid guest id in token"})
			return
		}

		c.Set(ctxGuestID, guestID)
		c.Set(ctxIsAdmin, claims.Admin)
		c.Next()
	}
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxIsAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "admin access required"})
			return
		}
		c.Next()
	}
}

func callerGuestID(c *gin.Context) uuid.UUID {
	v, _ := c.Get(ctxGuestID)
	id, _ := v.(uuid.UUID)
	return id
}
