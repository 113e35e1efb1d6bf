package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/klixid/movie-booking/internal/model"
)

const (
	ctxUserIDKey = "userID"
	ctxRoleKey   = "userRole"
)

// RequireAuth validates the bearer token and stores the caller's
// identity in the request context.
func (h *Handler) RequireAuth(ctx *gin.Context) {
	header := ctx.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Authentication required",
		})
		return
	}

	claims, err := h.app.AuthService.ParseToken(token)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid or expired token",
		})
		return
	}

	ctx.Set(ctxUserIDKey, claims.UserID)
	ctx.Set(ctxRoleKey, claims.Role)
	ctx.Next()
}

// RequireAdmin must run after RequireAuth.
func (h *Handler) RequireAdmin(ctx *gin.Context) {
	role, _ := ctx.Get(ctxRoleKey)
	if userRole, ok := role.(model.UserRole); !ok || userRole != model.RoleAdmin {
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Admin access required",
		})
		return
	}
	ctx.Next()
}

func currentUserID(ctx *gin.Context) uint {
	id, _ := ctx.Get(ctxUserIDKey)
	userID, _ := id.(uint)
	return userID
}
