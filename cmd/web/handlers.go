package main

import (
	"context"
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"

	"github.com/pawbase/pawbase/internal/auth"
	"github.com/pawbase/pawbase/internal/models"
	"github.com/pawbase/pawbase/internal/repo"
	"github.com/pawbase/pawbase/internal/session"
	"github.com/pawbase/pawbase/internal/sync"
)

// WebHandlers serves the server-rendered pages. Dependencies are injected by
// the constructor call in main; there is no global service registry.
type WebHandlers struct {
	Users      *repo.UserRepo
	Pets       *repo.PetRepo
	Categories *repo.CategoryRepo
	Sync       *sync.Synchronizer
	Sessions   session.Store
	Templates  *template.Template
}

type ctxKey string

const sessionCtxKey ctxKey = "web_session"

// currentSession returns the session placed in context by RequireSession.
func currentSession(ctx context.Context) (string, session.Session, bool) {
	v, ok := ctx.Value(sessionCtxKey).(sessionWithID)
	if !ok {
		return "", session.Session{}, false
	}
	return v.id, v.sess, true
}

type sessionWithID struct {
	id   string
	sess session.Session
}

// RequireSession redirects to /login when no valid session cookie is present.
func (h *WebHandlers) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		sess, ok := h.Sessions.Get(cookie.Value)
		if !ok {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), sessionCtxKey, sessionWithID{id: cookie.Value, sess: sess})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *WebHandlers) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.Templates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render template", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// ==========================
// Index
// ==========================

func (h *WebHandlers) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", map[string]interface{}{"Title": "Pawbase"})
}

// ==========================
// Login / Logout
// ==========================

func (h *WebHandlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if _, ok := h.Sessions.Get(cookie.Value); ok {
			http.Redirect(w, r, "/pets", http.StatusFound)
			return
		}
	}
	h.render(w, "login.html", map[string]interface{}{
		"Title":   "Log In",
		"Message": r.URL.Query().Get("message"),
	})
}

func (h *WebHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil || !auth.VerifyPassword(password, user.PasswordHash) {
		h.render(w, "login.html", map[string]interface{}{
			"Title":   "Log In",
			"Message": "Invalid username or password",
		})
		return
	}

	h.startSession(w, r, user)
}

// Logout clears the session. Logging out twice is harmless: clearing an
// absent session id is a no-op.
func (h *WebHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		h.Sessions.Clear(cookie.Value)
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *WebHandlers) startSession(w http.ResponseWriter, r *http.Request, user models.User) {
	csrf, err := auth.GenerateToken()
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	id := session.NewID()
	h.Sessions.Set(id, session.Session{
		UserID:    user.ID,
		Username:  user.Username,
		CSRFToken: csrf,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	next := r.URL.Query().Get("next")
	if next == "" || !strings.HasPrefix(next, "/") {
		next = "/pets"
	}
	http.Redirect(w, r, next, http.StatusFound)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", MaxAge: -1})
}

// ==========================
// Register
// ==========================

func (h *WebHandlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "register.html", map[string]interface{}{
		"Title":   "Register",
		"Message": r.URL.Query().Get("message"),
	})
}

func (h *WebHandlers) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirmPassword")

	// Validation failures bounce back to the form with an encoded message.
	msg := ""
	switch {
	case name == "" || username == "":
		msg = "Name and username are required"
	case len(password) < 8:
		msg = "Password must be at least 8 characters"
	case password != confirm:
		msg = "Passwords do not match"
	}
	if msg != "" {
		http.Redirect(w, r, "/register?message="+url.QueryEscape(msg), http.StatusFound)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), name, username, hash)
	if err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			http.Redirect(w, r, "/register?message="+url.QueryEscape("Username already taken"), http.StatusFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.startSession(w, r, user)
}

// ==========================
// Users
// ==========================

func (h *WebHandlers) AllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	out := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	h.render(w, "allUsers.html", map[string]interface{}{
		"Title":   "All Users",
		"Users":   out,
		"Message": r.URL.Query().Get("message"),
	})
}

func (h *WebHandlers) UserDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	pets, err := h.Users.Pets(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "user.html", map[string]interface{}{
		"Title": user.Name,
		"User":  user.Public(),
		"Pets":  pets,
	})
}

func (h *WebHandlers) EditUserForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	user, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, "editUser.html", map[string]interface{}{
		"Title":   "Edit User",
		"User":    user.Public(),
		"Message": r.URL.Query().Get("message"),
	})
}

func (h *WebHandlers) EditUserSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	username := strings.TrimSpace(r.FormValue("username"))
	if name == "" || username == "" {
		http.Redirect(w, r, "/users/"+strconv.Itoa(id)+"/edit?message="+url.QueryEscape("Name and username are required"), http.StatusFound)
		return
	}

	// Password only changes when a new one is supplied.
	hash := ""
	if password := r.FormValue("password"); password != "" {
		hash, err = auth.HashPassword(password)
		if err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}

	if _, err := h.Users.Update(r.Context(), id, name, username, hash); err != nil {
		if err == sql.ErrNoRows {
			http.NotFound(w, r)
			return
		}
		if e, ok := err.(*pq.Error); ok && e.Code == "23505" {
			http.Redirect(w, r, "/users/"+strconv.Itoa(id)+"/edit?message="+url.QueryEscape("Username already taken"), http.StatusFound)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/users/"+strconv.Itoa(id), http.StatusFound)
}

func (h *WebHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.Users.Delete(r.Context(), id); err != nil {
		if e, ok := err.(*pq.Error); ok && e.Code == "23503" {
			http.Redirect(w, r, "/users?message="+url.QueryEscape("Cannot delete a user who still owns pets"), http.StatusFound)
			return
		}
		if err != sql.ErrNoRows {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, "/users", http.StatusFound)
}

// ==========================
// Pets
// ==========================

func (h *WebHandlers) AllPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.Pets.List(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "allPets.html", map[string]interface{}{
		"Title": "All Pets",
		"Pets":  pets,
	})
}

func (h *WebHandlers) PetDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	pet, err := h.Pets.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	owner, err := h.Pets.Owner(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	categories, err := h.Pets.Categories(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "pet.html", map[string]interface{}{
		"Title":      pet.Name,
		"Pet":        pet,
		"Owner":      owner.Public(),
		"Categories": categories,
	})
}

// petFormData collects what the create/edit form needs, including the CSRF
// token that the POST handlers demand back.
func (h *WebHandlers) petFormData(r *http.Request, title string, pet *models.Pet, categories []models.Category) (map[string]interface{}, error) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		return nil, err
	}
	owners := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		owners = append(owners, u.Public())
	}

	_, sess, _ := currentSession(r.Context())

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	data := map[string]interface{}{
		"Title":      title,
		"Users":      owners,
		"CSRFToken":  sess.CSRFToken,
		"Categories": strings.Join(names, ", "),
		"Message":    r.URL.Query().Get("message"),
	}
	if pet != nil {
		data["Pet"] = *pet
		data["Editing"] = true
	}
	return data, nil
}

func (h *WebHandlers) CreatePetForm(w http.ResponseWriter, r *http.Request) {
	data, err := h.petFormData(r, "Create a Pet", nil, nil)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "createPet.html", data)
}

func (h *WebHandlers) CreatePetSubmit(w http.ResponseWriter, r *http.Request) {
	if !h.checkCSRF(w, r) {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	age, ageErr := strconv.Atoi(r.FormValue("age"))
	userID, userErr := strconv.Atoi(r.FormValue("user_id"))
	if name == "" || ageErr != nil || age < 0 || userErr != nil {
		http.Redirect(w, r, "/pets/create?message="+url.QueryEscape("Name, a non-negative age, and an owner are required"), http.StatusFound)
		return
	}

	pet, err := h.Pets.Create(r.Context(), name, age, userID)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.Sync.Sync(r.Context(), pet.ID, splitCategoryNames(r.FormValue("categories"))); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/pets/"+strconv.Itoa(pet.ID), http.StatusFound)
}

func (h *WebHandlers) EditPetForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	pet, err := h.Pets.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	categories, err := h.Pets.Categories(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	data, err := h.petFormData(r, "Edit Pet", &pet, categories)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "createPet.html", data)
}

func (h *WebHandlers) EditPetSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !h.checkCSRF(w, r) {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	age, ageErr := strconv.Atoi(r.FormValue("age"))
	userID, userErr := strconv.Atoi(r.FormValue("user_id"))
	if name == "" || ageErr != nil || age < 0 || userErr != nil {
		http.Redirect(w, r, "/pets/"+strconv.Itoa(id)+"/edit?message="+url.QueryEscape("Name, a non-negative age, and an owner are required"), http.StatusFound)
		return
	}

	if _, err := h.Pets.Update(r.Context(), id, name, age, userID); err != nil {
		if err == sql.ErrNoRows {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.Sync.Sync(r.Context(), id, splitCategoryNames(r.FormValue("categories"))); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/pets/"+strconv.Itoa(id), http.StatusFound)
}

func (h *WebHandlers) DeletePet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if err := h.Pets.Delete(r.Context(), id); err != nil && err != sql.ErrNoRows {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/pets", http.StatusFound)
}

// checkCSRF parses the form and verifies the csrf_token field against the
// session. Returns false after writing the response when the check fails.
func (h *WebHandlers) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return false
	}
	_, sess, ok := currentSession(r.Context())
	if !ok || sess.CSRFToken == "" || r.FormValue("csrf_token") != sess.CSRFToken {
		http.Error(w, "invalid CSRF token", http.StatusBadRequest)
		return false
	}
	return true
}

// splitCategoryNames turns the comma-separated form field into a name list.
func splitCategoryNames(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ==========================
// Categories
// ==========================

func (h *WebHandlers) AllCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Categories.List(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "allCategories.html", map[string]interface{}{
		"Title":      "All Categories",
		"Categories": categories,
	})
}

func (h *WebHandlers) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	category, err := h.Categories.GetByID(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	pets, err := h.Categories.Pets(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, "category.html", map[string]interface{}{
		"Title":    category.Name,
		"Category": category,
		"Pets":     pets,
	})
}
