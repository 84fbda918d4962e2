// Package recipe contains the core domain model for the recipe catalog.
// A Recipe is an immutable value; every accessor hands out copies.
package recipe

import "slices"

// Recipe represents one catalog entry.
type Recipe struct {
	name        string
	ingredients []string
	calories    int
	category    string
}

// New creates a Recipe with validation.
// Empty names and categories are accepted; the add-recipe command enforces them.
func New(name string, ingredients []string, calories int, category string) (Recipe, error) {
	if calories < 0 {
		return Recipe{}, ErrNegativeCalories
	}

	for _, ingredient := range ingredients {
		if ingredient == "" {
			return Recipe{}, ErrEmptyIngredient
		}
	}

	return Recipe{
		name:        name,
		ingredients: slices.Clone(ingredients),
		calories:    calories,
		category:    category,
	}, nil
}

// Name returns the recipe's name
func (r Recipe) Name() string {
	return r.name
}

// Ingredients returns a copy of the ingredient tokens in declaration order
func (r Recipe) Ingredients() []string {
	return slices.Clone(r.ingredients)
}

// IngredientCount returns the number of ingredient tokens
func (r Recipe) IngredientCount() int {
	return len(r.ingredients)
}

// Calories returns the calorie count
func (r Recipe) Calories() int {
	return r.calories
}

// Category returns the recipe's category
func (r Recipe) Category() string {
	return r.category
}

// HasIngredient reports whether token is one of the ingredients (exact match).
func (r Recipe) HasIngredient(token string) bool {
	return slices.Contains(r.ingredients, token)
}

// CountIngredient returns how many ingredient entries equal token.
func (r Recipe) CountIngredient(token string) int {
	n := 0
	for _, ingredient := range r.ingredients {
		if ingredient == token {
			n++
		}
	}
	return n
}

// Equal reports whether two recipes carry identical fields.
func (r Recipe) Equal(other Recipe) bool {
	return r.name == other.name &&
		r.calories == other.calories &&
		r.category == other.category &&
		slices.Equal(r.ingredients, other.ingredients)
}
