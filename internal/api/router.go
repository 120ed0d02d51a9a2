// Package api serves the greeting over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GreetingPaths lists every route that answers with the greeting.
var GreetingPaths = []string{"/", "/hello"}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type Options struct {
	Logger   *zap.Logger
	Security SecurityConfig
	Limiter  *Limiter         // nil disables rate limiting
	Now      func() time.Time // defaults to time.Now
}

func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.RedirectTrailingSlash = false

	r.Use(
		RequestID(),
		RequestLog(log),
		Recover(log),
		Security(opts.Security),
		RateLimit(opts.Limiter),
	)

	for _, p := range GreetingPaths {
		r.GET(p, handleGreeting)
		r.HEAD(p, handleGreeting)
	}
	r.GET("/healthz", handleHealth(now))
	r.GET("/version", handleVersion)

	r.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "not found")
	})
	r.NoMethod(func(c *gin.Context) {
		abortWithError(c, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
