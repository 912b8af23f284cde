package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/milan1710/mern-ayurveda/internal/cache"
	"github.com/milan1710/mern-ayurveda/internal/models"
	"github.com/milan1710/mern-ayurveda/internal/repositories"
	"github.com/milan1710/mern-ayurveda/pkg/utils"
)

// CategoryHandler serves both categories and collections; the repository
// instance decides which table it works on.
type CategoryHandler struct {
	Repo *repositories.CategoryRepository
}

func NewCategoryHandler(repo *repositories.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{Repo: repo}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	category := &models.Category{Name: req.Name}
	if err := h.Repo.Create(r.Context(), category); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req models.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.Repo.Rename(r.Context(), id, req.Name); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	cache.InvalidateProductCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
