package api

import (
	"net/http"
	"os"
	"path/filepath"

	"wordflip/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Options configures the HTTP surface
type Options struct {
	CORSOrigins []string
	StaticDir   string
}

// Handler serves the JSON API
type Handler struct {
	authService *service.AuthService
	listService *service.ListService
	logger      *zap.Logger
}

// NewHandler creates a new API handler
func NewHandler(authService *service.AuthService, listService *service.ListService, logger *zap.Logger) *Handler {
	return &Handler{
		authService: authService,
		listService: listService,
		logger:      logger,
	}
}

// NewRouter wires routes, middleware and CORS
func NewRouter(h *Handler, opts Options) http.Handler {
	r := mux.NewRouter()
	r.Use(h.recoverer, h.requestLogger, h.optionalAuth)

	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	// the web frontend talks to /api/...
	h.registerRoutes(r)
	h.registerRoutes(r.PathPrefix("/api").Subrouter())

	if opts.StaticDir != "" {
		r.PathPrefix("/").Handler(staticHandler(opts.StaticDir)).Methods(http.MethodGet)
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", "Accept", "Origin"},
		MaxAge:         86400,
	}).Handler(r)
}

func (h *Handler) registerRoutes(r *mux.Router) {
	r.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.handleLogin).Methods(http.MethodPost)

	r.HandleFunc("/words/translate", h.handleTranslate).Methods(http.MethodPost)
	r.HandleFunc("/words/add", h.handleAddList).Methods(http.MethodPost)
	r.HandleFunc("/words", h.handleGetLists).Methods(http.MethodGet)
	r.HandleFunc("/words/{listId}/toggle-favorite", h.handleToggleFavorite).Methods(http.MethodPost)
}

// staticHandler serves files from dir and falls back to index.html
func staticHandler(dir string) http.Handler {
	index := filepath.Join(dir, "index.html")
	files := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}
