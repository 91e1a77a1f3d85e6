package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/eyeway/uxlens/internal/application/analysis"
	appauth "github.com/eyeway/uxlens/internal/application/auth"
	domain "github.com/eyeway/uxlens/internal/domain/analysis"
	domusers "github.com/eyeway/uxlens/internal/domain/users"
	"github.com/eyeway/uxlens/internal/middleware"
)

type Router struct {
	analysisSvc *appanalysis.Service
	authSvc     *appauth.Service
	images      domain.ImageStore
}

// Options configure the outer HTTP surface.
type Options struct {
	CORSOrigins    []string
	HealthCheckers map[string]middleware.HealthChecker
	RateCapacity   int
	RateRefill     int
}

func NewRouter(analysisSvc *appanalysis.Service, authSvc *appauth.Service, images domain.ImageStore, opts Options) http.Handler {
	r := &Router{analysisSvc: analysisSvc, authSvc: authSvc, images: images}
	mux := chi.NewRouter()

	if opts.RateCapacity <= 0 {
		opts.RateCapacity = 60
	}
	if opts.RateRefill <= 0 {
		opts.RateRefill = 1
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"http://localhost:8080"}
	}

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.RateLimitMiddleware(opts.RateCapacity, opts.RateRefill))

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/auth", func(rt chi.Router) {
		rt.Post("/signup", r.wrap(r.handleSignUp))
		rt.Post("/login", r.wrap(r.handleLogin))
		rt.Get("/check-email/{email}", r.wrap(r.handleCheckEmail))

		rt.Group(func(pr chi.Router) {
			pr.Use(middleware.BearerAuth(r.authSvc.VerifyToken))
			pr.Post("/logout", r.wrap(r.handleLogout))
			pr.Delete("/account", r.wrap(r.handleDeleteAccount))
		})
	})

	mux.Route("/analysis", func(rt chi.Router) {
		rt.Use(middleware.BearerAuth(r.authSvc.VerifyToken))
		rt.Post("/", r.wrap(r.handleCreateAnalysis))
		rt.Get("/", r.wrap(r.handleListAnalyses))
		rt.Get("/{id}", r.wrap(r.handleGetAnalysis))
		rt.Delete("/{id}", r.wrap(r.handleDeleteAnalysis))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequestError marks client input errors raised inside handlers.
type badRequestError struct {
	msg string
}

func (e badRequestError) Error() string { return e.msg }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var br badRequestError
		switch {
		case errors.Is(err, domain.ErrNotFound),
			errors.Is(err, domusers.ErrNotFound),
			errors.Is(err, sql.ErrNoRows):
			http.Error(w, "not found", http.StatusNotFound)
		case errors.Is(err, domain.ErrNoFile),
			errors.Is(err, domain.ErrUnsupportedFile),
			errors.As(err, &br):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, domusers.ErrInvalidCredentials),
			errors.Is(err, domusers.ErrNotApproved):
			http.Error(w, err.Error(), http.StatusUnauthorized)
		case errors.Is(err, domusers.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

//
// ==== auth handlers ====
//

// POST /auth/signup
func (r *Router) handleSignUp(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Age      int    `json:"age"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestError{msg: "invalid JSON body"}
	}
	if err := middleware.ValidateEmail(body.Email); err != nil {
		return badRequestError{msg: err.Error()}
	}
	if body.Password == "" || body.Name == "" {
		return badRequestError{msg: "password and name are required"}
	}

	u, err := r.authSvc.SignUp(req.Context(), appauth.SignUpCommand{
		Email:    body.Email,
		Password: body.Password,
		Name:     middleware.SanitizeString(body.Name),
		Age:      body.Age,
	})
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, map[string]any{"user": u})
}

// POST /auth/login
func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequestError{msg: "invalid JSON body"}
	}

	u, token, err := r.authSvc.Login(req.Context(), body.Email, body.Password)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusOK, map[string]any{
		"user":        u,
		"accessToken": token,
	})
}

// GET /auth/check-email/{email}
func (r *Router) handleCheckEmail(w http.ResponseWriter, req *http.Request) error {
	email := chi.URLParam(req, "email")

	available, err := r.authSvc.EmailAvailable(req.Context(), email)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"available": available})
}

// POST /auth/logout
// JWT is stateless; nothing to revoke server-side. The client drops the token.
func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

// DELETE /auth/account
func (r *Router) handleDeleteAccount(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	if err := r.authSvc.DeleteAccount(req.Context(), userID); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"message": "account deleted"})
}

//
// ==== analysis handlers ====
//

// POST /analysis
// multipart form: file (image, max 10MB) + userIntent
func (r *Router) handleCreateAnalysis(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())

	req.Body = http.MaxBytesReader(w, req.Body, middleware.MaxUploadBytes+1<<20)
	if err := req.ParseMultipartForm(middleware.MaxUploadBytes); err != nil {
		return badRequestError{msg: "invalid multipart form"}
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return domain.ErrNoFile
	}
	defer file.Close()

	if err := middleware.ValidateImageFilename(header.Filename); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
	}
	if err := middleware.ValidateImageMIME(header.Header.Get("Content-Type")); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
	}
	if err := middleware.ValidateUploadSize(header.Size); err != nil {
		return badRequestError{msg: err.Error()}
	}

	userIntent := middleware.SanitizeString(req.FormValue("userIntent"))

	path, err := r.images.Save(req.Context(), header.Filename, file)
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}

	a, err := r.analysisSvc.Submit(req.Context(), userID, path, userIntent)
	if err != nil {
		return err
	}

	return writeJSON(w, http.StatusCreated, a)
}

// GET /analysis
func (r *Router) handleListAnalyses(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())

	list, err := r.analysisSvc.List(req.Context(), userID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Analysis{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// GET /analysis/{id}
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	id := chi.URLParam(req, "id")

	a, err := r.analysisSvc.Get(req.Context(), userID, domain.AnalysisID(id))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, a)
}

// DELETE /analysis/{id}
func (r *Router) handleDeleteAnalysis(w http.ResponseWriter, req *http.Request) error {
	userID := middleware.GetUserIDFromContext(req.Context())
	id := chi.URLParam(req, "id")

	if err := r.analysisSvc.Delete(req.Context(), userID, domain.AnalysisID(id)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"message": "analysis deleted"})
}
