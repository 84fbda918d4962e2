// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"strings"
	"time"

	"github.com/alchemorsel/recipebook/internal/domain/recipe"
	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/brianvoe/gofakeit/v6"
)

// Categories used by generated recipes. Kept small so category queries hit.
var Categories = []string{"Breakfast", "Lunch", "Dinner", "Dessert", "Snack"}

// recordUnsafe strips characters that cannot live inside a record field
var recordUnsafe = strings.NewReplacer(",", "", "\n", "", "\r", "")

// RecipeFactory provides methods to create test recipes
type RecipeFactory struct {
	faker *gofakeit.Faker
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker: gofakeit.New(seed),
	}
}

// Faker exposes the seeded faker for ad-hoc values
func (rf *RecipeFactory) Faker() *gofakeit.Faker {
	return rf.faker
}

// Ingredient returns a random single-word-ish ingredient
func (rf *RecipeFactory) Ingredient() string {
	if rf.faker.Bool() {
		return clean(rf.faker.Fruit())
	}
	return clean(rf.faker.Vegetable())
}

// Ingredients returns between min and max ingredients, repeats allowed
func (rf *RecipeFactory) Ingredients(min, max int) []string {
	n := rf.faker.IntRange(min, max)
	ingredients := make([]string, n)
	for i := range ingredients {
		ingredients[i] = rf.Ingredient()
	}
	return ingredients
}

// Category picks one of Categories
func (rf *RecipeFactory) Category() string {
	return rf.faker.RandomString(Categories)
}

// DishName returns a dish name matching the category
func (rf *RecipeFactory) DishName(category string) string {
	var name string
	switch category {
	case "Breakfast":
		name = rf.faker.Breakfast()
	case "Lunch":
		name = rf.faker.Lunch()
	case "Dinner":
		name = rf.faker.Dinner()
	case "Dessert":
		name = rf.faker.Dessert()
	default:
		name = rf.faker.Snack()
	}

	name = clean(name)
	if name == "" {
		name = rf.faker.Noun()
	}
	return name
}

// CreateRecipe creates a random valid recipe
func (rf *RecipeFactory) CreateRecipe() recipe.Recipe {
	category := rf.Category()
	return NewRecipeBuilder().
		WithName(rf.DishName(category)).
		WithIngredients(rf.Ingredients(1, 6)...).
		WithCalories(rf.faker.IntRange(0, 1200)).
		WithCategory(category).
		MustBuild()
}

// CreateCatalog creates n random recipes
func (rf *RecipeFactory) CreateCatalog(n int) []recipe.Recipe {
	recipes := make([]recipe.Recipe, n)
	for i := range recipes {
		recipes[i] = rf.CreateRecipe()
	}
	return recipes
}

// CreateRecords serializes n random recipes
func (rf *RecipeFactory) CreateRecords(n int) []string {
	return Records(rf.CreateCatalog(n)...)
}

// CreateAddCommand creates a random valid add command
func (rf *RecipeFactory) CreateAddCommand() inbound.AddRecipeCommand {
	category := rf.Category()
	return inbound.AddRecipeCommand{
		Name:        rf.DishName(category),
		Ingredients: rf.Ingredients(1, 6),
		Calories:    rf.faker.IntRange(0, 1200),
		Category:    category,
	}
}

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	name        string
	ingredients []string
	calories    int
	category    string
}

// NewRecipeBuilder creates a new recipe builder with default values
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		name:        clean(faker.Lunch()),
		ingredients: []string{clean(faker.Vegetable())},
		calories:    faker.IntRange(100, 800),
		category:    "Lunch",
	}
}

// WithName sets the recipe name
func (rb *RecipeBuilder) WithName(name string) *RecipeBuilder {
	rb.name = name
	return rb
}

// WithIngredients sets the recipe ingredients
func (rb *RecipeBuilder) WithIngredients(ingredients ...string) *RecipeBuilder {
	rb.ingredients = ingredients
	return rb
}

// WithCalories sets the calorie count
func (rb *RecipeBuilder) WithCalories(calories int) *RecipeBuilder {
	rb.calories = calories
	return rb
}

// WithCategory sets the recipe category
func (rb *RecipeBuilder) WithCategory(category string) *RecipeBuilder {
	rb.category = category
	return rb
}

// Build creates the recipe
func (rb *RecipeBuilder) Build() (recipe.Recipe, error) {
	return recipe.New(rb.name, rb.ingredients, rb.calories, rb.category)
}

// MustBuild creates the recipe and panics on invalid input
func (rb *RecipeBuilder) MustBuild() recipe.Recipe {
	r, err := rb.Build()
	if err != nil {
		panic(err)
	}
	return r
}

// Record serializes the built recipe
func (rb *RecipeBuilder) Record() string {
	return recipe.FormatRecord(rb.MustBuild())
}

// Records serializes recipes in order
func Records(recipes ...recipe.Recipe) []string {
	lines := make([]string, len(recipes))
	for i, r := range recipes {
		lines[i] = recipe.FormatRecord(r)
	}
	return lines
}

func clean(s string) string {
	return strings.TrimSpace(recordUnsafe.Replace(s))
}
