package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"vizstudio/internal/dataset"
	"vizstudio/internal/storage"
)

// Server exposes the query/analytics engine over a JSON API. Analytics
// requests carry their query in the URL query string, in the exact wire
// format the codec defines, so a dashboard URL fragment and an API call are
// interchangeable.
type Server struct {
	addr      string
	catalog   *dataset.Catalog
	store     *storage.Gateway
	server    *http.Server
	startTime time.Time
}

// NewServer creates an HTTP API server over the given catalog and storage
// gateway.
func NewServer(addr string, catalog *dataset.Catalog, store *storage.Gateway) *Server {
	if addr == "" {
		addr = "127.0.0.1:8787"
	}
	return &Server{
		addr:    addr,
		catalog: catalog,
		store:   store,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/datasets", s.handleDatasets)
	r.GET("/api/datasets/:id", s.handleDataset)
	r.GET("/api/analytics", s.handleAnalytics)
	r.GET("/api/theme", s.handleGetTheme)
	r.PUT("/api/theme", s.handlePutTheme)
	r.GET("/api/views", s.handleListViews)
	r.POST("/api/views", s.handleSaveView)
	r.DELETE("/api/views/:id", s.handleDeleteView)

	return r
}

// Serve listens and blocks until Shutdown is called. A closed-server return
// is reported as nil.
func (s *Server) Serve() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	s.startTime = time.Now()

	if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
