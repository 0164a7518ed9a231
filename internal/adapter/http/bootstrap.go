package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer builds the http.Server the API runs on. Timeouts bound slow
// clients; handler latency is bounded by the database.
func NewServer(port string, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Shutdown drains in-flight requests before closing the container.
func Shutdown(ctx context.Context, srv *http.Server, container *Container) error {
	if err := srv.Shutdown(ctx); err != nil {
		container.Close()
		return err
	}

	return container.Close()
}
