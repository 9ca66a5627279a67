package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pawbase/pawbase/internal/middleware"
	"github.com/pawbase/pawbase/internal/models"
	"github.com/pawbase/pawbase/internal/repo"
	"github.com/pawbase/pawbase/internal/sync"
)

// ==========================
// PetHandler
// ==========================
type PetHandler struct {
	Repo         *repo.PetRepo
	CategoryRepo *repo.CategoryRepo
	Synchronizer *sync.Synchronizer
	AuditRepo    *repo.AuditRepo
}

// ==========================
// Create Pet
// ==========================
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name   string `json:"name"`
		Age    *int   `json:"age"`
		UserID int    `json:"user_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Name == "" {
		fields["name"] = "required"
	}
	if input.Age == nil {
		fields["age"] = "required"
	} else if *input.Age < 0 {
		fields["age"] = "must be non-negative"
	}
	if input.UserID == 0 {
		// An authenticated caller may omit user_id to self-assign ownership.
		if actorID, ok := middleware.GetUserID(r.Context()); ok {
			input.UserID = actorID
		} else {
			fields["user_id"] = "required"
		}
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	pet, err := h.Repo.Create(r.Context(), input.Name, *input.Age, input.UserID)
	if err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	h.audit(r, "create", pet.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pet)
}

// ==========================
// List Pets
// ==========================
func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	pets, err := h.Repo.List(r.Context())
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

// ==========================
// Get Pet
// ==========================
func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	pet, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pet)
}

// ==========================
// Update Pet (owner can be reassigned)
// ==========================
func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	var input struct {
		Name   string `json:"name"`
		Age    *int   `json:"age"`
		UserID int    `json:"user_id"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	fields := make(map[string]string)
	if input.Name == "" {
		fields["name"] = "required"
	}
	if input.Age == nil {
		fields["age"] = "required"
	} else if *input.Age < 0 {
		fields["age"] = "must be non-negative"
	}
	if input.UserID == 0 {
		fields["user_id"] = "required"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}

	pet, err := h.Repo.Update(r.Context(), id, input.Name, *input.Age, input.UserID)
	if err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	h.audit(r, "update", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pet)
}

// ==========================
// Delete Pet (pivot rows cascade)
// ==========================
func (h *PetHandler) DeletePet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	h.audit(r, "delete", id)

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Owner of a pet (public projection)
// ==========================
func (h *PetHandler) GetPetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	owner, err := h.Repo.Owner(r.Context(), id)
	if err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(owner.Public())
}

// ==========================
// Categories attached to a pet
// ==========================
func (h *PetHandler) GetPetCategories(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.GetByID(r.Context(), id); err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	categories, err := h.Repo.Categories(r.Context(), id)
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
// Attach one category
// ==========================
func (h *PetHandler) AttachCategory(w http.ResponseWriter, r *http.Request) {
	petID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		JSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if _, err := h.Repo.GetByID(r.Context(), petID); err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}
	if _, err := h.CategoryRepo.GetByID(r.Context(), categoryID); err != nil {
		JSONStoreError(w, err, "category not found")
		return
	}

	if err := h.Repo.AttachCategory(r.Context(), petID, categoryID); err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	h.audit(r, "attach", petID)

	w.WriteHeader(http.StatusCreated)
}

// ==========================
// Detach one category
// ==========================
func (h *PetHandler) DetachCategory(w http.ResponseWriter, r *http.Request) {
	petID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}
	categoryID, err := strconv.Atoi(chi.URLParam(r, "categoryID"))
	if err != nil {
		JSONError(w, "invalid category id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.DetachCategory(r.Context(), petID, categoryID); err != nil {
		JSONStoreError(w, err, "category not attached")
		return
	}

	h.audit(r, "detach", petID)

	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Synchronize the full category name set
// ==========================
func (h *PetHandler) SyncCategories(w http.ResponseWriter, r *http.Request) {
	petID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid pet id", http.StatusBadRequest)
		return
	}

	var input struct {
		Categories []string `json:"categories"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	for _, name := range input.Categories {
		if strings.TrimSpace(name) == "" {
			JSONValidationError(w, "validation failed", map[string]string{"categories": "names must be non-empty"}, http.StatusBadRequest)
			return
		}
	}

	result, err := h.Synchronizer.Sync(r.Context(), petID, input.Categories)
	if err != nil {
		JSONStoreError(w, err, "pet not found")
		return
	}

	h.audit(r, "sync", petID)

	if result.Added == nil {
		result.Added = []string{}
	}
	if result.Removed == nil {
		result.Removed = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *PetHandler) audit(r *http.Request, action string, entityID int) {
	if h.AuditRepo == nil {
		return
	}
	if actorID, ok := middleware.GetUserID(r.Context()); ok {
		_ = h.AuditRepo.Log(r.Context(), actorID, action, "pet", entityID, "")
	}
}
