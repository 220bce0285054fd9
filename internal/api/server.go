// Package api serves presigned URLs over JSON HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"github.com/forestrie/go-presign/internal/config"
	"github.com/forestrie/go-presign/internal/metrics"
	"github.com/forestrie/go-presign/internal/objectkey"
	"github.com/forestrie/go-presign/signer"
)

// Server hands out presigned URLs for one bucket and verifies URLs signed
// with its credentials.
type Server struct {
	presigner *signer.Presigner
	creds     signer.Credentials
	store     signer.CredentialsStore
	bucket    string
	region    string
	upload    config.UploadConfig
	keys      *objectkey.Generator
	metrics   *metrics.Metrics
	log       logrus.FieldLogger
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics instruments the router and mounts /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithClock replaces the clock used for signing and verification.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithKeyGenerator replaces the generator of upload keys.
func WithKeyGenerator(g *objectkey.Generator) Option {
	return func(s *Server) {
		s.keys = g
	}
}

// NewServer builds a Server from validated configuration.
func NewServer(cfg *config.Config, log logrus.FieldLogger, opts ...Option) *Server {
	s := &Server{
		creds:  cfg.Credentials(),
		store:  signer.NewStaticStore(cfg.Credentials()),
		bucket: cfg.S3.Bucket,
		region: cfg.AWS.Region,
		upload: cfg.Upload,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.keys == nil {
		s.keys = objectkey.New(objectkey.WithPrefix(cfg.Upload.Prefix), objectkey.WithClock(s.now))
	}
	s.presigner = cfg.Presigner(signer.WithClock(s.now))
	return s
}

// Routes returns the HTTP handler of the service.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/presign", s.Presign)
		r.Post("/verify", s.Verify)
	})

	return r
}

// logRequests logs one line per request. Only the path is logged: query
// strings may carry signatures.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.WithFields(logrus.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"remote":     r.RemoteAddr,
		}).Info("request")
	})
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
