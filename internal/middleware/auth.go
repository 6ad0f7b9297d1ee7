package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

const (
	ContextStaffID    = "staffID"
	ContextStaffEmail = "staffEmail"
)

// AuthMiddleware admits requests carrying a valid staff bearer token whose
// email is on the allow-list.
func AuthMiddleware(tokens *auth.Tokens, allow auth.AllowList) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Respond(c, httperr.Unauthorized("missing_token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Respond(c, httperr.Unauthorized("invalid_token"))
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Respond(c, httperr.Unauthorized("invalid_token"))
			return
		}
		if !allow.Allows(claims.Email) {
			httperr.Respond(c, httperr.Forbidden("not_staff"))
			return
		}

		staffID, _ := claims.StaffID()
		c.Set(ContextStaffID, staffID)
		c.Set(ContextStaffEmail, claims.Email)

		c.Next()
	}
}

// OptionalAuth identifies staff on public routes. A missing or bad token
// is not an error; the request simply stays anonymous.
func OptionalAuth(tokens *auth.Tokens, allow auth.AllowList) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok {
			if claims, err := tokens.Parse(strings.TrimSpace(raw)); err == nil && allow.Allows(claims.Email) {
				staffID, _ := claims.StaffID()
				c.Set(ContextStaffID, staffID)
				c.Set(ContextStaffEmail, claims.Email)
			}
		}
		c.Next()
	}
}

// StaffID returns the authenticated staff user, or nil on public routes.
func StaffID(c *gin.Context) *uuid.UUID {
	v, ok := c.Get(ContextStaffID)
	if !ok {
		return nil
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return nil
	}
	return &id
}
