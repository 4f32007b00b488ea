package delivery

import (
	"leafscan-backend/internal/auth/usecase"
	"leafscan-backend/pkg/logging"
	"leafscan-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where AuthMiddleware stores the verified user id.
const ContextUserIDKey = logging.UserIDKey

// AuthMiddleware guards protected routes: extract the bearer token, verify
// it, inject the user id, proceed. Any failure aborts with 401.
func AuthMiddleware(authUsecase usecase.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := authUsecase.ValidateToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Abort(c, err)
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
