package main

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/pawbase/pawbase/internal/config"
	"github.com/pawbase/pawbase/internal/db"
	"github.com/pawbase/pawbase/internal/handlers"
	"github.com/pawbase/pawbase/internal/middleware"
	"github.com/pawbase/pawbase/internal/repo"
	"github.com/pawbase/pawbase/internal/sync"
)

func main() {

	// Load configuration
	cfg := config.Load()

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	log.Println("Successfully connected to the database")

	// Apply migrations and seed the admin user
	if err := db.Run(cfg.DatabaseURL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.SeedAdmin(database); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	r := newRouter(database, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Println("Starting API server on :" + cfg.Port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// newRouter builds the full middleware chain and route table. Split out from
// main so integration tests can mount it on a mock-backed database.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	// Repositories
	userRepo := repo.NewUserRepo(database)
	petRepo := repo.NewPetRepo(database)
	categoryRepo := repo.NewCategoryRepo(database)
	tokenRepo := repo.NewTokenRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	// Handlers (constructor injection, no global registry)
	authHandler := &handlers.AuthHandler{UserRepo: userRepo, TokenRepo: tokenRepo}
	userHandler := &handlers.UserHandler{Repo: userRepo, AuditRepo: auditRepo}
	petHandler := &handlers.PetHandler{
		Repo:         petRepo,
		CategoryRepo: categoryRepo,
		Synchronizer: sync.New(database),
		AuditRepo:    auditRepo,
	}
	categoryHandler := &handlers.CategoryHandler{Repo: categoryRepo, AuditRepo: auditRepo}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.SecurityHeaders(false))
	r.Use(middleware.Prometheus)
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	limiter := middleware.NewIPRateLimiter(rate.Limit(float64(cfg.RateLimitPerMinute)/60.0), 20)
	r.Use(limiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Login is the only basic-auth route; everything else needs a bearer token.
	authLimiter := middleware.AuthRateLimiter()
	r.With(authLimiter.Middleware).Post("/api/users/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.TokenAuth(tokenRepo))
		r.Use(middleware.RequireUser)

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/", userHandler.ListUsers)
			r.Post("/", userHandler.CreateUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Put("/{id}", userHandler.UpdateUser)
			r.Delete("/{id}", userHandler.DeleteUser)
			r.Get("/{id}/pets", userHandler.GetUserPets)
		})

		r.Route("/api/pets", func(r chi.Router) {
			r.Get("/", petHandler.ListPets)
			r.Post("/", petHandler.CreatePet)
			r.Get("/{id}", petHandler.GetPet)
			r.Put("/{id}", petHandler.UpdatePet)
			r.Delete("/{id}", petHandler.DeletePet)
			r.Get("/{id}/user", petHandler.GetPetUser)
			r.Get("/{id}/categories", petHandler.GetPetCategories)
			r.Put("/{id}/categories", petHandler.SyncCategories)
			r.Post("/{id}/categories/{categoryID}", petHandler.AttachCategory)
			r.Delete("/{id}/categories/{categoryID}", petHandler.DetachCategory)
		})

		r.Route("/api/categories", func(r chi.Router) {
			r.Get("/", categoryHandler.ListCategories)
			r.Post("/", categoryHandler.CreateCategory)
			r.Get("/{id}", categoryHandler.GetCategory)
			r.Put("/{id}", categoryHandler.UpdateCategory)
			r.Delete("/{id}", categoryHandler.DeleteCategory)
			r.Get("/{id}/pets", categoryHandler.GetCategoryPets)
		})

		r.Get("/api/audit", auditHandler.ListAudit)
	})

	return r
}
