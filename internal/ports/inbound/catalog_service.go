// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the CLI and the HTTP API
package inbound

import "context"

// CatalogService defines the use cases for the recipe catalog.
// Query methods never fail; "not found" is an empty result or found=false.
type CatalogService interface {
	// Catalog store
	Load(ctx context.Context) (*LoadReport, error)
	Reload(ctx context.Context) (*LoadReport, error)
	LoadRecords(lines []string) *LoadReport
	Add(ctx context.Context, cmd AddRecipeCommand) (*RecipeDTO, error)
	All() []RecipeDTO
	Len() int

	// Queries
	FindByIngredient(token string) []RecipeDTO
	FindByName(name string) (RecipeDTO, bool)
	FindByCategory(category string) []RecipeDTO
	FindByCalorieRangeAndCategory(low, high int, category string) []RecipeDTO
	FindByIngredientSet(tokens []string) []RecipeDTO

	// Derived views
	SortByCalories() []RecipeDTO
	HealthierAlternative(name string) (RecipeDTO, bool, error)
	RandomSuggestion() (RecipeDTO, error)
	MealPlan(breakfast, lunch, dinner string) MealPlan
}

// AddRecipeCommand contains data for adding a recipe.
// Commas and newlines are rejected because they would corrupt the record line.
type AddRecipeCommand struct {
	Name        string   `json:"name" validate:"required,record_field"`
	Ingredients []string `json:"ingredients" validate:"dive,required,record_field"`
	Calories    int      `json:"calories" validate:"min=0"`
	Category    string   `json:"category" validate:"required,record_field"`
}

// RecipeDTO is the data transfer object for recipes
type RecipeDTO struct {
	Name            string   `json:"name"`
	Ingredients     []string `json:"ingredients"`
	IngredientCount int      `json:"ingredient_count"`
	Calories        int      `json:"calories"`
	Category        string   `json:"category"`
}

// MealSlot is the outcome of one meal-plan lookup
type MealSlot struct {
	Query  string     `json:"query"`
	Found  bool       `json:"found"`
	Recipe *RecipeDTO `json:"recipe,omitempty"`
}

// MealPlan holds three independent lookups
type MealPlan struct {
	Breakfast MealSlot `json:"breakfast"`
	Lunch     MealSlot `json:"lunch"`
	Dinner    MealSlot `json:"dinner"`
}

// Filled counts the slots that resolved to a recipe
func (p MealPlan) Filled() int {
	n := 0
	for _, slot := range []MealSlot{p.Breakfast, p.Lunch, p.Dinner} {
		if slot.Found {
			n++
		}
	}
	return n
}

// SkippedRecord describes a record dropped during load
type SkippedRecord struct {
	Line   int    `json:"line"`
	Raw    string `json:"raw"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

// LoadReport summarizes a load or reload
type LoadReport struct {
	Loaded  int             `json:"loaded"`
	Skipped []SkippedRecord `json:"skipped,omitempty"`
}
