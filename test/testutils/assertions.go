// Package testutils provides custom assertions and testing utilities
package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RecipeAssertions provides recipe-specific assertion methods
type RecipeAssertions struct {
	t *testing.T
}

// NewRecipeAssertions creates a new recipe assertions helper
func NewRecipeAssertions(t *testing.T) *RecipeAssertions {
	return &RecipeAssertions{t: t}
}

// MatchesRecipe asserts that a DTO carries exactly the recipe's fields
func (ra *RecipeAssertions) MatchesRecipe(expected recipe.Recipe, actual inbound.RecipeDTO, msgAndArgs ...interface{}) {
	ingredients := expected.Ingredients()
	if ingredients == nil {
		ingredients = []string{}
	}

	assert.Equal(ra.t, expected.Name(), actual.Name, msgAndArgs...)
	assert.Equal(ra.t, ingredients, actual.Ingredients, msgAndArgs...)
	assert.Equal(ra.t, expected.IngredientCount(), actual.IngredientCount, msgAndArgs...)
	assert.Equal(ra.t, expected.Calories(), actual.Calories, msgAndArgs...)
	assert.Equal(ra.t, expected.Category(), actual.Category, msgAndArgs...)
}

// Names asserts the exact sequence of recipe names
func (ra *RecipeAssertions) Names(expected []string, actual []inbound.RecipeDTO, msgAndArgs ...interface{}) {
	names := make([]string, len(actual))
	for i, dto := range actual {
		names[i] = dto.Name
	}
	assert.Equal(ra.t, expected, names, msgAndArgs...)
}

// Subsequence asserts that subset appears in catalog in the same relative order
func (ra *RecipeAssertions) Subsequence(catalog, subset []inbound.RecipeDTO, msgAndArgs ...interface{}) {
	next := 0
	for _, dto := range catalog {
		if next < len(subset) && equalDTO(dto, subset[next]) {
			next++
		}
	}
	assert.Equal(ra.t, len(subset), next, msgAndArgs...)
}

// SortedByCalories asserts a non-decreasing calorie sequence
func (ra *RecipeAssertions) SortedByCalories(dtos []inbound.RecipeDTO, msgAndArgs ...interface{}) {
	ok := slices.IsSortedFunc(dtos, func(a, b inbound.RecipeDTO) int {
		return a.Calories - b.Calories
	})
	assert.True(ra.t, ok, msgAndArgs...)
}

func equalDTO(a, b inbound.RecipeDTO) bool {
	return a.Name == b.Name &&
		a.Calories == b.Calories &&
		a.Category == b.Category &&
		slices.Equal(a.Ingredients, b.Ingredients)
}

// HTTPAssertions provides HTTP-specific assertion methods
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates a new HTTP assertions helper
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// StatusCode asserts the recorded status code
func (ha *HTTPAssertions) StatusCode(rec *httptest.ResponseRecorder, expectedCode int, msgAndArgs ...interface{}) {
	assert.Equal(ha.t, expectedCode, rec.Code, msgAndArgs...)
}

// JSONResponse asserts a JSON body and decodes it into target
func (ha *HTTPAssertions) JSONResponse(rec *httptest.ResponseRecorder, target interface{}, msgAndArgs ...interface{}) {
	contentType := rec.Header().Get("Content-Type")
	assert.Contains(ha.t, contentType, "application/json", msgAndArgs...)

	if target != nil {
		require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), target), msgAndArgs...)
	}
}

// ErrorCode asserts a JSON error body carrying the given code
func (ha *HTTPAssertions) ErrorCode(rec *httptest.ResponseRecorder, expectedStatus int, expectedCode string, msgAndArgs ...interface{}) {
	ha.StatusCode(rec, expectedStatus, msgAndArgs...)

	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	ha.JSONResponse(rec, &body, msgAndArgs...)
	assert.False(ha.t, body.Success, msgAndArgs...)
	assert.Equal(ha.t, expectedCode, body.Error.Code, msgAndArgs...)
}

// Header asserts that a response header has the expected value
func (ha *HTTPAssertions) Header(resp http.Header, headerName, expectedValue string, msgAndArgs ...interface{}) {
	assert.Equal(ha.t, expectedValue, resp.Get(headerName), msgAndArgs...)
}

// Eventually polls cond until it holds or the timeout elapses
func Eventually(t *testing.T, cond func() bool, timeout time.Duration, msgAndArgs ...interface{}) {
	assert.Eventually(t, cond, timeout, 10*time.Millisecond, msgAndArgs...)
}

// MeasureTime measures execution time of a function
func MeasureTime(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}
