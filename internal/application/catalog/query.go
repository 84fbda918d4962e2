package catalog

import (
	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
)

// FindByIngredient returns every recipe that uses token, once each, in catalog order
func (s *Service) FindByIngredient(token string) []inbound.RecipeDTO {
	return s.filter("find_by_ingredient", func(r recipe.Recipe) bool {
		return r.HasIngredient(token)
	})
}

// FindByName returns the first recipe whose name equals name
func (s *Service) FindByName(name string) (inbound.RecipeDTO, bool) {
	r, ok := s.firstByName(name)

	results := 0
	if ok {
		results = 1
	}
	s.metrics.QueryExecuted("find_by_name", results)

	if !ok {
		return inbound.RecipeDTO{}, false
	}
	return toDTO(r), true
}

// FindByCategory returns every recipe in category
func (s *Service) FindByCategory(category string) []inbound.RecipeDTO {
	return s.filter("find_by_category", func(r recipe.Recipe) bool {
		return r.Category() == category
	})
}

// FindByCalorieRangeAndCategory returns recipes in category with low <= calories <= high.
// low > high simply matches nothing.
func (s *Service) FindByCalorieRangeAndCategory(low, high int, category string) []inbound.RecipeDTO {
	return s.filter("find_by_calorie_range", func(r recipe.Recipe) bool {
		return r.Calories() >= low && r.Calories() <= high && r.Category() == category
	})
}

// FindByIngredientSet returns recipes containing every token, counting repeats:
// a token listed k times needs at least k matching ingredient entries.
func (s *Service) FindByIngredientSet(tokens []string) []inbound.RecipeDTO {
	required := make(map[string]int, len(tokens))
	for _, token := range tokens {
		required[token]++
	}

	return s.filter("find_by_ingredient_set", func(r recipe.Recipe) bool {
		for token, k := range required {
			if r.CountIngredient(token) < k {
				return false
			}
		}
		return true
	})
}

// filter scans the catalog in order under the read lock
func (s *Service) filter(operation string, match func(recipe.Recipe) bool) []inbound.RecipeDTO {
	s.mu.RLock()
	results := []inbound.RecipeDTO{}
	for _, r := range s.recipes {
		if match(r) {
			results = append(results, toDTO(r))
		}
	}
	s.mu.RUnlock()

	s.metrics.QueryExecuted(operation, len(results))
	return results
}

func (s *Service) firstByName(name string) (recipe.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookup(name)
}
