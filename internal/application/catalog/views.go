package catalog

import (
	"cmp"
	"slices"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"go.uber.org/zap"
)

// SortByCalories returns the catalog ordered by ascending calories.
// Equal counts keep catalog order and the catalog itself is not reordered.
func (s *Service) SortByCalories() []inbound.RecipeDTO {
	s.mu.RLock()
	sorted := slices.Clone(s.recipes)
	s.mu.RUnlock()

	slices.SortStableFunc(sorted, func(a, b recipe.Recipe) int {
		return cmp.Compare(a.Calories(), b.Calories())
	})

	s.metrics.QueryExecuted("sort_by_calories", len(sorted))
	return toDTOs(sorted)
}

// HealthierAlternative finds the recipe in the same category as name with the
// highest calorie count strictly below it. Ties go to the earliest in catalog order.
// found is false when no recipe qualifies; an unknown name is an error.
func (s *Service) HealthierAlternative(name string) (inbound.RecipeDTO, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	target, ok := s.lookup(name)
	if !ok {
		return inbound.RecipeDTO{}, false, errors.NewRecipeNotFoundError(name, recipe.ErrRecipeNotFound)
	}

	var best recipe.Recipe
	found := false
	for _, r := range s.recipes {
		if r.Category() != target.Category() || r.Calories() >= target.Calories() {
			continue
		}
		if !found || r.Calories() > best.Calories() {
			best = r
			found = true
		}
	}

	results := 0
	if found {
		results = 1
	}
	s.metrics.QueryExecuted("healthier_alternative", results)

	if !found {
		return inbound.RecipeDTO{}, false, nil
	}
	return toDTO(best), true, nil
}

// RandomSuggestion returns a uniformly chosen recipe
func (s *Service) RandomSuggestion() (inbound.RecipeDTO, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.recipes) == 0 {
		return inbound.RecipeDTO{}, errors.NewEmptyCatalogError(recipe.ErrEmptyCatalog)
	}

	s.randMu.Lock()
	idx := s.random.IntN(len(s.recipes))
	s.randMu.Unlock()

	picked := s.recipes[idx]
	s.logger.Debug("Random suggestion", zap.String("name", picked.Name()), zap.Int("index", idx))
	s.metrics.QueryExecuted("random_suggestion", 1)

	return toDTO(picked), nil
}

// MealPlan runs three independent name lookups; a miss in one slot does not affect the others
func (s *Service) MealPlan(breakfast, lunch, dinner string) inbound.MealPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan := inbound.MealPlan{
		Breakfast: s.mealSlot(breakfast),
		Lunch:     s.mealSlot(lunch),
		Dinner:    s.mealSlot(dinner),
	}

	s.metrics.QueryExecuted("meal_plan", plan.Filled())
	return plan
}

// mealSlot must be called with mu held
func (s *Service) mealSlot(query string) inbound.MealSlot {
	slot := inbound.MealSlot{Query: query}
	if r, ok := s.lookup(query); ok {
		dto := toDTO(r)
		slot.Found = true
		slot.Recipe = &dto
	}
	return slot
}

// lookup must be called with mu held
func (s *Service) lookup(name string) (recipe.Recipe, bool) {
	for _, r := range s.recipes {
		if r.Name() == name {
			return r, true
		}
	}
	return recipe.Recipe{}, false
}
