package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/engagebot/timetable-api/internal/middleware"
	"github.com/engagebot/timetable-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// userFromClaims rebuilds the request user from token claims. Services in this
// package only need identity fields, not the stored row.
func userFromClaims(claims *models.JWTClaims) *models.User {
	return &models.User{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}
}
