package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func meHandler(users userRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}
