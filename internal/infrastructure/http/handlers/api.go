// Package handlers provides HTTP handlers for the REST API
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// maxBodyBytes bounds an add-recipe request body
const maxBodyBytes = 64 << 10

// APIHandlers handles REST API requests
type APIHandlers struct {
	catalog inbound.CatalogService
	logger  *zap.Logger
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(catalog inbound.CatalogService, logger *zap.Logger) *APIHandlers {
	return &APIHandlers{
		catalog: catalog,
		logger:  logger.Named("api"),
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool                 `json:"success"`
	Data    interface{}          `json:"data,omitempty"`
	Error   *errors.ErrorDetails `json:"error,omitempty"`
	Message string               `json:"message,omitempty"`
	Count   *int                 `json:"count,omitempty"`
}

// HealthierResponse is the body of a healthier-alternative lookup
type HealthierResponse struct {
	Dish        string             `json:"dish"`
	Found       bool               `json:"found"`
	Alternative *inbound.RecipeDTO `json:"alternative,omitempty"`
}

// ListRecipes handles GET /api/v1/recipes
func (h *APIHandlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, h.catalog.All())
}

// CreateRecipe handles POST /api/v1/recipes
func (h *APIHandlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.AddRecipeCommand

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cmd); err != nil {
		h.writeError(w, r, errors.NewBadRequestError("Invalid JSON body").WithCause(err))
		return
	}

	dto, err := h.catalog.Add(r.Context(), cmd)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, APIResponse{
		Success: true,
		Data:    dto,
		Message: "Recipe added successfully",
	})
}

// GetRecipe handles GET /api/v1/recipes/{name}
func (h *APIHandlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dto, ok := h.catalog.FindByName(name)
	if !ok {
		h.writeError(w, r, errors.NewRecipeNotFoundError(name, nil))
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// HealthierAlternative handles GET /api/v1/recipes/{name}/healthier
func (h *APIHandlers) HealthierAlternative(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	dto, found, err := h.catalog.HealthierAlternative(name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response := HealthierResponse{Dish: name, Found: found}
	if found {
		response.Alternative = &dto
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: response})
}

// SortedRecipes handles GET /api/v1/recipes/sorted
func (h *APIHandlers) SortedRecipes(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, h.catalog.SortByCalories())
}

// RandomRecipe handles GET /api/v1/recipes/random
func (h *APIHandlers) RandomRecipe(w http.ResponseWriter, r *http.Request) {
	dto, err := h.catalog.RandomSuggestion()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: dto})
}

// SearchByIngredient handles GET /api/v1/search/ingredient?q=
func (h *APIHandlers) SearchByIngredient(w http.ResponseWriter, r *http.Request) {
	token, ok := h.requireQuery(w, r, "q")
	if !ok {
		return
	}
	h.writeList(w, h.catalog.FindByIngredient(token))
}

// SearchByIngredientSet handles GET /api/v1/search/ingredients?q=a&q=b.
// Repeating a value requires the ingredient that many times.
func (h *APIHandlers) SearchByIngredientSet(w http.ResponseWriter, r *http.Request) {
	tokens := r.URL.Query()["q"]
	h.writeList(w, h.catalog.FindByIngredientSet(tokens))
}

// SearchByCategory handles GET /api/v1/search/category?q=
func (h *APIHandlers) SearchByCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.requireQuery(w, r, "q")
	if !ok {
		return
	}
	h.writeList(w, h.catalog.FindByCategory(category))
}

// SearchByCalories handles GET /api/v1/search/calories?min=&max=&category=
func (h *APIHandlers) SearchByCalories(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	low, err := strconv.Atoi(query.Get("min"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("min must be an integer").WithCause(err))
		return
	}
	high, err := strconv.Atoi(query.Get("max"))
	if err != nil {
		h.writeError(w, r, errors.NewBadRequestError("max must be an integer").WithCause(err))
		return
	}
	category, ok := h.requireQuery(w, r, "category")
	if !ok {
		return
	}

	h.writeList(w, h.catalog.FindByCalorieRangeAndCategory(low, high, category))
}

// MealPlan handles GET /api/v1/meal-plan?breakfast=&lunch=&dinner=
func (h *APIHandlers) MealPlan(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	plan := h.catalog.MealPlan(query.Get("breakfast"), query.Get("lunch"), query.Get("dinner"))

	h.writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: plan})
}

// Reload handles POST /api/v1/reload
func (h *APIHandlers) Reload(w http.ResponseWriter, r *http.Request) {
	report, err := h.catalog.Reload(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    report,
		Message: "Catalog reloaded",
	})
}

// NotFound answers unknown routes with the API error envelope
func (h *APIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, errors.NewNotFoundError("Route "+r.URL.Path))
}

func (h *APIHandlers) requireQuery(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		h.writeError(w, r, errors.NewBadRequestError(key+" query parameter is required"))
		return "", false
	}
	return value, true
}

func (h *APIHandlers) writeList(w http.ResponseWriter, recipes []inbound.RecipeDTO) {
	count := len(recipes)
	h.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    recipes,
		Count:   &count,
	})
}

// writeError maps err onto an AppError status and body
func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Wrap(err, "Request failed")
	}

	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	details := errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())).Error
	h.writeJSON(w, status, APIResponse{Success: false, Error: &details})
}

// writeJSON writes a JSON response
func (h *APIHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON response", zap.Error(err))
	}
}
