package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrNegativeCalories = errors.New("calories must not be negative")
	ErrEmptyIngredient  = errors.New("ingredient must not be empty")

	// Record parsing errors
	ErrInvalidIngredientCount = errors.New("ingredient count is not a non-negative integer")
	ErrMissingFields          = errors.New("record has fewer fields than its ingredient count requires")
	ErrInvalidCalories        = errors.New("calories is not a non-negative integer")

	// Catalog outcomes
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrEmptyCatalog   = errors.New("catalog is empty")
)
