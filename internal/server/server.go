package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"aiview/internal/domain"
	"aiview/internal/ports"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Server exposes the read API over the persisted article store. It is a
// consumer of pipeline outputs; it never triggers ingestion itself.
type Server struct {
	store  ports.ArticleStore
	logger *slog.Logger
	http   *http.Server
}

// New builds the HTTP server with all routes registered. staticDir may be
// empty to disable static file serving.
func New(addr, staticDir string, store ports.ArticleStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{store: store, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/api/articles", s.handleListArticles)
	router.GET("/api/health", s.handleHealth)

	if staticDir != "" {
		router.Static("/static", staticDir)
		router.StaticFile("/", staticDir+"/index.html")
	}

	s.http = &http.Server{Addr: addr, Handler: router}
	return s
}

// articleResponse mirrors the persisted record for external consumers.
// Skills is always a list, never null: a missing or corrupt stored value
// has already degraded to an empty slice at the store boundary.
type articleResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	URL           string    `json:"url"`
	PublishedDate time.Time `json:"published_date"`
	Summary       string    `json:"summary"`
	Skills        []string  `json:"skills"`
	CreatedAt     time.Time `json:"created_at"`
}

// handleListArticles returns stored articles ordered by published date
// descending. Query parameters: skip (default 0) and limit (default 10,
// capped at 100).
func (s *Server) handleListArticles(c *gin.Context) {
	skip := parseIntParam(c, "skip", 0)
	limit := parseIntParam(c, "limit", defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	articles, err := s.store.List(c.Request.Context(), skip, limit)
	if err != nil {
		s.logger.Error("list articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load articles"})
		return
	}

	c.JSON(http.StatusOK, toResponse(articles))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start begins serving in a background goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped", "error", err)
		}
	}()
	s.logger.Info("http server listening", "addr", s.http.Addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func toResponse(articles []domain.Article) []articleResponse {
	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		skills := a.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, articleResponse{
			ID:            a.ID,
			Title:         a.Title,
			URL:           a.URL,
			PublishedDate: a.PublishedDate,
			Summary:       a.Summary,
			Skills:        skills,
			CreatedAt:     a.CreatedAt,
		})
	}
	return out
}

func parseIntParam(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
