package api

import (
	"github.com/gin-gonic/gin"

	pubapi "github.com/VeltarosLabs/hello/pkg/api"
)

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, pubapi.ErrorBody{OK: false, Error: msg})
}
