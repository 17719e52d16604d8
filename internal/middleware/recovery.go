package middleware

import (
	"fmt"
	"log"
	"net/http"

	"github.com/devhub-dev/devhub/internal/types"
	"github.com/gin-gonic/gin"
)

// Recovery maps unexpected panics to the standard error envelope. Full
// detail goes to the server log; the client only sees it in debug mode.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, recovered interface{}) {
		log.Printf("Panic recovered: %v", recovered)

		message := "Something went wrong"

		if gin.Mode() == gin.DebugMode {
			message = fmt.Sprintf("%v", recovered)
		}

		ctx.AbortWithStatusJSON(http.StatusInternalServerError, types.Error(message))
	})
}
