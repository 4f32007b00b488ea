// Package response writes JSON error envelopes for Gin handlers.
package response

import (
	"leafscan-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// Error writes {"message": ...} with the status mapped from err's kind.
func Error(c *gin.Context, err error) {
	c.JSON(apperr.Status(apperr.KindOf(err)), gin.H{"message": apperr.PublicMessage(err)})
}

// Abort is Error for middleware: it stops the handler chain.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(apperr.Status(apperr.KindOf(err)), gin.H{"message": apperr.PublicMessage(err)})
}
