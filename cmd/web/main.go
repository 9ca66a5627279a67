package main

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pawbase/pawbase/internal/config"
	"github.com/pawbase/pawbase/internal/db"
	"github.com/pawbase/pawbase/internal/middleware"
	"github.com/pawbase/pawbase/internal/repo"
	"github.com/pawbase/pawbase/internal/scheduler"
	"github.com/pawbase/pawbase/internal/session"
	"github.com/pawbase/pawbase/internal/sync"
)

//go:embed templates
var templatesFS embed.FS

const (
	sessionCookieName = "pawbase_session"
	sweepSchedule     = "@every 5m"
)

func main() {
	cfg := config.Load()

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

	if err := db.Run(cfg.DatabaseURL()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := db.SeedAdmin(database); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	sessions := session.NewMemoryStore(time.Duration(cfg.SessionTTLMinutes) * time.Minute)
	sweeper, err := scheduler.RunSessionSweeper(sessions, sweepSchedule)
	if err != nil {
		log.Fatalf("Failed to start session sweeper: %v", err)
	}
	defer sweeper.Stop()

	h := &WebHandlers{
		Users:      repo.NewUserRepo(database),
		Pets:       repo.NewPetRepo(database),
		Categories: repo.NewCategoryRepo(database),
		Sync:       sync.New(database),
		Sessions:   sessions,
		Templates:  tmpl,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Public
	r.Get("/", h.Index)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.LoginSubmit)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.RegisterSubmit)
	r.Post("/logout", h.Logout)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Get("/users", h.AllUsers)
		r.Get("/users/{id}", h.UserDetail)
		r.Get("/users/{id}/edit", h.EditUserForm)
		r.Post("/users/{id}/edit", h.EditUserSubmit)
		r.Post("/users/{id}/delete", h.DeleteUser)

		r.Get("/pets", h.AllPets)
		r.Get("/pets/create", h.CreatePetForm)
		r.Post("/pets/create", h.CreatePetSubmit)
		r.Get("/pets/{id}", h.PetDetail)
		r.Get("/pets/{id}/edit", h.EditPetForm)
		r.Post("/pets/{id}/edit", h.EditPetSubmit)
		r.Post("/pets/{id}/delete", h.DeletePet)

		r.Get("/categories", h.AllCategories)
		r.Get("/categories/{id}", h.CategoryDetail)
	})

	webPort := getEnv("WEB_PORT", "3000")
	log.Printf("Web UI running on http://localhost:%s", webPort)
	if err := http.ListenAndServe(":"+webPort, r); err != nil {
		log.Fatal(err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
