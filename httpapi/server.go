// Package httpapi exposes the charette core over HTTP and websocket,
// replacing the original Express/Socket.io surface with one set of
// entry points.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"charette-lab/observability"
	"charette-lab/services"
)

type Server struct {
	engine *gin.Engine
	log    *slog.Logger
}

func NewServer(svc services.ICharetteService, monitoring *observability.Monitoring,
	connectionBufferSize int, log *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	handler := NewCharetteHandler(svc, monitoring, log)
	gateway := NewGateway(svc, connectionBufferSize, log)

	api := engine.Group("/api")
	{
		api.POST("/charettes", handler.CreateCharette)
		api.GET("/charettes", handler.ListCharettes)
		api.GET("/charettes/:id", handler.GetCharette)
		api.POST("/charettes/:id/participants", handler.UpsertParticipant)
		api.POST("/charettes/:id/analysis", handler.AddAnalysis)
		api.GET("/charettes/:id/messages", handler.ListMessages)
		api.GET("/charettes/:id/report", handler.GetReport)
		api.GET("/charettes/:id/search", handler.SearchMessages)
		api.GET("/stats", handler.GetStats)
	}
	engine.GET("/ws", gateway.Handle)

	return &Server{engine: engine, log: log}
}

// Engine exposes the gin engine for httptest-based handler tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, host string, port int) error {
	address := fmt.Sprintf("%s:%d", host, port)
	srv := &http.Server{Addr: address, Handler: s.engine}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
