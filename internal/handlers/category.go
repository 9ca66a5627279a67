package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pawbase/pawbase/internal/middleware"
	"github.com/pawbase/pawbase/internal/models"
	"github.com/pawbase/pawbase/internal/repo"
)

// ==========================
// CategoryHandler
// ==========================
type CategoryHandler struct {
	Repo      *repo.CategoryRepo
	AuditRepo *repo.AuditRepo
}

// ==========================
// Create Category
// ==========================
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name string `json:"name"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		JSONValidationError(w, "validation failed", map[string]string{"name": "required"}, http.StatusBadRequest)
		return
	}

	category, err := h.Repo.Create(r.Context(), input.Name)
	if err != nil {
		JSONStoreError(w, err, "category not found")
		return
	}

	h.audit(r, "create", category.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(category)
}

// ==========================
// List Categories
// ==========================
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.List(r.Context())
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}

// ==========================
// Get Category
// ==========================
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	category, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONStoreError(w, err, "category not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(category)
}

// ==========================
// Update Category
// ==========================
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var input struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if input.Name == "" {
		JSONValidationError(w, "validation failed", map[string]string{"name": "required"}, http.StatusBadRequest)
		return
	}

	category, err := h.Repo.Update(r.Context(), id, input.Name)
	if err != nil {
		JSONStoreError(w, err, "category not found")
		return
	}

	h.audit(r, "update", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(category)
}

// ==========================
// Delete Category (pivot rows cascade)
// ==========================
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		JSONStoreError(w, err, "category not found")
		return
	}

	h.audit(r, "delete", id)

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Pets attached to a category
// ==========================
func (h *CategoryHandler) GetCategoryPets(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.GetByID(r.Context(), id); err != nil {
		JSONStoreError(w, err, "category not found")
		return
	}

	pets, err := h.Repo.Pets(r.Context(), id)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if pets == nil {
		pets = []models.Pet{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pets)
}

func (h *CategoryHandler) audit(r *http.Request, action string, entityID int) {
	if h.AuditRepo == nil {
		return
	}
	if actorID, ok := middleware.GetUserID(r.Context()); ok {
		_ = h.AuditRepo.Log(r.Context(), actorID, action, "category", entityID, "")
	}
}
