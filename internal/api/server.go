// Package api serves the catalog, assessment scoring and the persisted
// results document over HTTP for the enrollment frontend.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/coursefit/internal/assessment"
	"github.com/abhisek/coursefit/internal/blog"
	"github.com/abhisek/coursefit/internal/catalog"
	"github.com/abhisek/coursefit/internal/logger"
	"github.com/abhisek/coursefit/internal/scoring"
	"github.com/abhisek/coursefit/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Deps are the collaborators the server needs. Blog is optional.
type Deps struct {
	Catalog      *catalog.Catalog
	Recorder     *store.Recorder
	Blog         *blog.Client
	Logger       *logger.Logger
	Registry     *prometheus.Registry
	AllowOrigins []string
}

type Server struct {
	cat     *catalog.Catalog
	rec     *store.Recorder
	blog    *blog.Client
	log     *logger.Logger
	metrics *Metrics
	engine  *gin.Engine
}

// AssessmentResponse is returned by POST /api/assessments. The result is
// returned even when persistence fails; Warning then says why.
type AssessmentResponse struct {
	Result    *assessment.Result `json:"result"`
	Persisted bool               `json:"persisted"`
	Warning   string             `json:"warning,omitempty"`
}

func New(deps Deps) (*Server, error) {
	if deps.Catalog == nil {
		return nil, errors.New("api: catalog is required")
	}
	if deps.Recorder == nil {
		return nil, errors.New("api: recorder is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := NewMetrics(reg)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware(deps.AllowOrigins))
	engine.Use(requestLogger(log))
	engine.Use(metrics.middleware())

	s := &Server{
		cat:     deps.Catalog,
		rec:     deps.Recorder,
		blog:    deps.Blog,
		log:     log.With("component", "api"),
		metrics: metrics,
		engine:  engine,
	}

	engine.GET("/healthz", s.healthz)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	api.GET("/courses", s.listCourses)
	api.GET("/paths", s.listPaths)
	api.POST("/assessments", s.createAssessment)
	api.GET("/assessments/latest", s.latestAssessment)
	api.GET("/posts", s.listPosts)
	api.GET("/posts/:slug", s.getPost)

	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		kv := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		if status >= http.StatusInternalServerError {
			log.Error("http request", kv...)
			return
		}
		log.Debug("http request", kv...)
	}
}

func (s *Server) healthz(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok"})
}

func (s *Server) listCourses(c *gin.Context) {
	respondOK(c, gin.H{"courses": s.cat.Courses})
}

func (s *Server) listPaths(c *gin.Context) {
	respondOK(c, gin.H{"paths": s.cat.Paths})
}

func (s *Server) createAssessment(c *gin.Context) {
	var in assessment.Answers
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	res, err := assessment.Replay(s.cat, in)
	if err != nil {
		status, code := replayErrorStatus(err)
		respondError(c, status, code, err)
		return
	}

	out := AssessmentResponse{Result: res, Persisted: true}
	if err := s.rec.Record(c.Request.Context(), res); err != nil {
		out.Persisted = false
		out.Warning = "result could not be saved: " + err.Error()
	}
	s.metrics.ObserveResult(res, out.Persisted)

	c.JSON(http.StatusCreated, out)
}

func (s *Server) latestAssessment(c *gin.Context) {
	doc, err := s.rec.Latest(c.Request.Context())
	if err != nil {
		if errors.Is(err, assessment.ErrInvalidDocument) {
			respondError(c, http.StatusInternalServerError, "corrupt_document", err)
			return
		}
		respondError(c, http.StatusServiceUnavailable, "storage_unavailable", err)
		return
	}
	if doc == nil {
		respondError(c, http.StatusNotFound, "not_found", errors.New("no assessment results recorded"))
		return
	}
	respondOK(c, gin.H{assessment.DocumentKey: doc})
}

func (s *Server) listPosts(c *gin.Context) {
	if s.blog == nil {
		respondError(c, http.StatusNotFound, "blog_disabled", blog.ErrNotConfigured)
		return
	}
	posts, err := s.blog.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusBadGateway, "upstream_error", err)
		return
	}
	respondOK(c, gin.H{"posts": posts})
}

func (s *Server) getPost(c *gin.Context) {
	if s.blog == nil {
		respondError(c, http.StatusNotFound, "blog_disabled", blog.ErrNotConfigured)
		return
	}
	post, err := s.blog.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, blog.ErrNotFound) {
			respondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		respondError(c, http.StatusBadGateway, "upstream_error", err)
		return
	}
	respondOK(c, gin.H{"post": post})
}

// replayErrorStatus maps a replay failure to an HTTP status and error code.
func replayErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, assessment.ErrUnknownPath):
		return http.StatusNotFound, "unknown_path"
	case errors.Is(err, assessment.ErrInvalidOption):
		return http.StatusUnprocessableEntity, "invalid_option"
	case errors.Is(err, assessment.ErrIncompleteAnswers),
		errors.Is(err, assessment.ErrWrongPhase):
		return http.StatusUnprocessableEntity, "answer_count"
	case errors.Is(err, assessment.ErrNotEnoughSkills),
		errors.Is(err, scoring.ErrEmptySkill),
		errors.Is(err, scoring.ErrTooManySkills),
		errors.Is(err, scoring.ErrDuplicateSkill):
		return http.StatusUnprocessableEntity, "invalid_skills"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
