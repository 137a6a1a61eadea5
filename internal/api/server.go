package api

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/baxromumarov/campus-faq/internal/core"
	"github.com/baxromumarov/campus-faq/internal/knowledge"
)

//go:embed web
var webFiles embed.FS

// Responder produces the reply for a chat message.
type Responder interface {
	Answer(input string) core.Answer
}

type Options struct {
	MaxMessageLength int
	RequestTimeout   time.Duration
	Logger           *slog.Logger
}

type Server struct {
	router    *chi.Mux
	base      *knowledge.Base
	responder Responder
	validate  *validator.Validate
	logger    *slog.Logger
	opts      Options
}

func NewServer(base *knowledge.Base, responder Responder, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	s := &Server{
		router:    chi.NewRouter(),
		base:      base,
		responder: responder,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    opts.Logger,
		opts:      opts,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	}))
	if s.opts.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.opts.RequestTimeout))
	}

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Get("/topics", s.handleListTopics)
	s.router.With(s.recoverChat).Post("/chat", s.handleChat)

	web, err := fs.Sub(webFiles, "web")
	if err != nil {
		panic(err)
	}
	FileServer(s.router, "/", http.FS(web))
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		handler := http.StripPrefix(pathPrefix, http.FileServer(root))
		handler.ServeHTTP(w, r)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message, "status": statusError})
}
