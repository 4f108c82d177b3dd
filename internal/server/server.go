package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/resumes"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Enricher produces candidate documents through a text-generation provider
type Enricher interface {
	Adapt(ctx context.Context, doc *resume.Document, jobDescription, credential string) (*resume.Document, error)
	Enhance(ctx context.Context, doc *resume.Document, credential string) (*resume.Document, string, error)
}

// Deps are the collaborators of the HTTP API
type Deps struct {
	Resumes      *resumes.Service
	Users        UserStore
	Password     *config.PasswordConfig
	JWT          *config.JWTConfig
	Enricher     Enricher
	Exporter     rendering.Exporter
	Limiter      *ratelimit.Limiter
	LLMKey       string
	SecureCookie bool
	Logger       *zap.Logger
}

// Server is the HTTP API
type Server struct {
	resumes  *resumes.Service
	enricher Enricher
	exporter rendering.Exporter
	limiter  *ratelimit.Limiter
	llmKey   string
	jwt      *JWTService
	auth     *AuthHandler
	logger   *zap.Logger
	router   chi.Router
}

// New builds the server and its routes
func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = ratelimit.NewLimiter(nil)
	}

	jwtService := NewJWTService(d.JWT)
	s := &Server{
		resumes:  d.Resumes,
		enricher: d.Enricher,
		exporter: d.Exporter,
		limiter:  limiter,
		llmKey:   d.LLMKey,
		jwt:      jwtService,
		auth:     NewAuthHandler(NewUserService(d.Users, d.Password), jwtService, d.SecureCookie),
		logger:   logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.auth.Register)
		r.Post("/login", s.auth.Login)
		r.Post("/logout", s.auth.Logout)
	})

	limited := ratelimit.Middleware(s.limiter, identityOrAddr, s.logger)

	r.Route("/resumes", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(s.jwt.AsTokenValidator()))

		r.Get("/", s.handleListResumes)
		r.Post("/", s.handleCreateResume)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetResume)
			r.Put("/", s.handleSaveResume)
			r.Delete("/", s.handleDeleteResume)
			r.Post("/duplicate", s.handleDuplicateResume)
			r.Get("/pdf", s.handleExportPDF)

			r.Put("/sections/{section}", s.handleSetText)
			r.Post("/sections/{section}/entries", s.handleAddEntry)
			r.Delete("/sections/{section}/entries/{index}", s.handleRemoveEntry)
			r.Patch("/sections/{section}/entries/{index}", s.handleSetField)
			r.Post("/sections/{section}/entries/{index}/bullets", s.handleAddBullet)
			r.Put("/sections/{section}/entries/{index}/bullets/{bullet}", s.handleSetBullet)
			r.Delete("/sections/{section}/entries/{index}/bullets/{bullet}", s.handleRemoveBullet)

			r.With(limited).Post("/adapt", s.handleAdapt)
			r.With(limited).Post("/enhance", s.handleEnhance)
		})
	})
	return r
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server starting", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		defer s.limiter.Stop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.logger.Info("server stopped")
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

type loggerKey struct{}

// requestLogger logs each request with its status and duration and makes a
// request-scoped logger available to handlers.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqLogger := logger.With(zap.String("request_id", chimw.GetReqID(r.Context())))
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey{}, reqLogger)))

			reqLogger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}

func loggerFrom(r *http.Request) *zap.Logger {
	if l, ok := r.Context().Value(loggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}

// identityOrAddr keys rate limits by identity, falling back to the remote address
func identityOrAddr(r *http.Request) string {
	if identity, err := middleware.GetIdentity(r); err == nil {
		return identity
	}
	return r.RemoteAddr
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		loggerFrom(r).Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps err to a status and writes {"error": code, "message": text}.
// Server-side failures are logged and their details withheld.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway &&
		status != http.StatusGatewayTimeout && status != http.StatusServiceUnavailable {
		loggerFrom(r).Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		message = "internal server error"
	} else if status >= http.StatusInternalServerError {
		loggerFrom(r).Warn("upstream failure", zap.String("path", r.URL.Path), zap.Error(err))
	}
	jsonResponse(w, r, status, map[string]string{
		"error":   errorCode(err),
		"message": message,
	})
}
