package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VeltarosLabs/hello/internal/greeting"
	pubapi "github.com/VeltarosLabs/hello/pkg/api"
	"github.com/VeltarosLabs/hello/pkg/version"
)

// handleGreeting answers with the greeting as plain text unless the client
// asks for JSON.
func handleGreeting(c *gin.Context) {
	switch c.NegotiateFormat(gin.MIMEPlain, gin.MIMEJSON) {
	case gin.MIMEJSON:
		c.JSON(http.StatusOK, pubapi.Greeting{Message: greeting.Greet()})
	default:
		c.String(http.StatusOK, greeting.Greet())
	}
}

func handleHealth(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, pubapi.Health{
			OK:   true,
			Time: now().UTC().Format(time.RFC3339Nano),
		})
	}
}

func handleVersion(c *gin.Context) {
	v := version.Get()
	c.JSON(http.StatusOK, pubapi.VersionInfo{
		Version:   v.Version,
		Commit:    v.Commit,
		GoVersion: v.GoVersion,
		Platform:  v.Platform,
	})
}
