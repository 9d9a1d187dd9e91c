package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard-backend/internal/policy"
	"jobboard-backend/internal/utilities"
)

// CheckRole will protect endpoint from user that is not a specific role
func CheckRole(roles ...string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
				Error: err.Error(),
			})
			return
		}

		for _, role := range roles {
			if policy.RequireRole(user, role) == nil {
				ctx.Next()
				return
			}
		}

		ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "User doesn't have permission to access",
		})
	}
}
