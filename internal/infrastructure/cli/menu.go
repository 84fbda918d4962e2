package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/alchemorsel/recipebook/pkg/errors"
	"go.uber.org/zap"
)

// Menu choice values
const (
	ChoiceAdd           = "1"
	ChoiceDisplayAll    = "2"
	ChoiceByIngredient  = "3"
	ChoiceByCategory    = "4"
	ChoiceDetails       = "5"
	ChoiceCalorieRange  = "6"
	ChoiceMealPlan      = "7"
	ChoiceIngredientSet = "8"
	ChoiceSortCalories  = "9"
	ChoiceHealthier     = "10"
	ChoiceSurprise      = "11"
	ChoiceExit          = "0"
)

// MenuChoices lists the main menu in display order
var MenuChoices = []Choice{
	{Label: "Add recipe", Value: ChoiceAdd},
	{Label: "Display all recipes", Value: ChoiceDisplayAll},
	{Label: "Search by ingredient", Value: ChoiceByIngredient},
	{Label: "Search by category", Value: ChoiceByCategory},
	{Label: "Show recipe details", Value: ChoiceDetails},
	{Label: "Smart meal suggestion", Value: ChoiceCalorieRange},
	{Label: "Full day meal plan", Value: ChoiceMealPlan},
	{Label: "Multi-ingredient search", Value: ChoiceIngredientSet},
	{Label: "Sort recipes by calories", Value: ChoiceSortCalories},
	{Label: "Healthier alternative", Value: ChoiceHealthier},
	{Label: "Surprise me!", Value: ChoiceSurprise},
	{Label: "Exit", Value: ChoiceExit},
}

// Menu runs the interactive loop against a catalog
type Menu struct {
	catalog  inbound.CatalogService
	prompter Prompter
	render   *Renderer
	logger   *zap.Logger
}

// NewMenu creates a menu
func NewMenu(catalog inbound.CatalogService, prompter Prompter, render *Renderer, logger *zap.Logger) *Menu {
	return &Menu{
		catalog:  catalog,
		prompter: prompter,
		render:   render,
		logger:   logger.Named("menu"),
	}
}

// Run shows the menu until the user exits or aborts.
// Errors from individual actions are reported and the loop continues.
func (m *Menu) Run(ctx context.Context) error {
	for {
		choice, err := m.prompter.Choose(ctx, "Recipe Management System", MenuChoices)
		if err != nil {
			if stderrors.Is(err, ErrAborted) {
				return nil
			}
			return err
		}
		if choice == ChoiceExit {
			return nil
		}

		if err := m.Dispatch(ctx, choice); err != nil {
			if stderrors.Is(err, ErrAborted) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// Dispatch performs one menu action.
// Domain failures are rendered; only prompt failures are returned.
func (m *Menu) Dispatch(ctx context.Context, choice string) error {
	m.logger.Debug("Menu action", zap.String("choice", choice))

	switch choice {
	case ChoiceAdd:
		return m.addRecipe(ctx)
	case ChoiceDisplayAll:
		m.displayAll()
	case ChoiceByIngredient:
		return m.byIngredient(ctx)
	case ChoiceByCategory:
		return m.byCategory(ctx)
	case ChoiceDetails:
		return m.details(ctx)
	case ChoiceCalorieRange:
		return m.calorieRange(ctx)
	case ChoiceMealPlan:
		return m.mealPlan(ctx)
	case ChoiceIngredientSet:
		return m.ingredientSet(ctx)
	case ChoiceSortCalories:
		m.sortByCalories()
	case ChoiceHealthier:
		return m.healthier(ctx)
	case ChoiceSurprise:
		m.surprise()
	default:
		m.render.Error("Invalid choice.")
	}
	return nil
}

func (m *Menu) addRecipe(ctx context.Context) error {
	answers, err := m.prompter.Form(ctx, "Add recipe", []Field{
		{Title: "Name", Validate: required("name")},
		{Title: "Ingredients", Description: "Comma-separated", Placeholder: "egg, cheese"},
		{Title: "Calories", Validate: nonNegativeInt("calories")},
		{Title: "Category", Validate: required("category")},
	})
	if err != nil {
		return err
	}

	calories, _ := strconv.Atoi(strings.TrimSpace(answers[2]))
	cmd := inbound.AddRecipeCommand{
		Name:        strings.TrimSpace(answers[0]),
		Ingredients: splitList(answers[1]),
		Calories:    calories,
		Category:    strings.TrimSpace(answers[3]),
	}

	dto, err := m.catalog.Add(ctx, cmd)
	if err != nil {
		m.renderError(err)
		return nil
	}

	m.render.Success(fmt.Sprintf("Added %s.", dto.Name))
	return nil
}

func (m *Menu) displayAll() {
	recipes := m.catalog.All()
	m.render.Heading("All recipes")
	if len(recipes) == 0 {
		m.render.Notice("No recipes in the catalog.")
		return
	}
	m.render.Table(recipes)
}

func (m *Menu) byIngredient(ctx context.Context) error {
	token, err := m.ask(ctx, "Search by ingredient", "Ingredient")
	if err != nil {
		return err
	}
	m.render.Matches(m.catalog.FindByIngredient(token), "No recipe uses this ingredient.")
	return nil
}

func (m *Menu) byCategory(ctx context.Context) error {
	category, err := m.ask(ctx, "Search by category", "Category")
	if err != nil {
		return err
	}
	m.render.Matches(m.catalog.FindByCategory(category), "There is no recipe with this category.")
	return nil
}

func (m *Menu) details(ctx context.Context) error {
	name, err := m.ask(ctx, "Recipe details", "Recipe name")
	if err != nil {
		return err
	}

	dto, found := m.catalog.FindByName(name)
	if !found {
		m.render.Notice("The recipe is not in our database.")
		return nil
	}
	m.render.Details(dto)
	return nil
}

func (m *Menu) calorieRange(ctx context.Context) error {
	answers, err := m.prompter.Form(ctx, "Smart meal suggestion", []Field{
		{Title: "Lowest calories", Validate: integer("low")},
		{Title: "Highest calories", Validate: integer("high")},
		{Title: "Category", Validate: required("category")},
	})
	if err != nil {
		return err
	}

	low, _ := strconv.Atoi(strings.TrimSpace(answers[0]))
	high, _ := strconv.Atoi(strings.TrimSpace(answers[1]))
	m.render.Matches(
		m.catalog.FindByCalorieRangeAndCategory(low, high, strings.TrimSpace(answers[2])),
		"No recipe found in this range and category.",
	)
	return nil
}

func (m *Menu) mealPlan(ctx context.Context) error {
	answers, err := m.prompter.Form(ctx, "Full day meal plan", []Field{
		{Title: "Breakfast"},
		{Title: "Lunch"},
		{Title: "Dinner"},
	})
	if err != nil {
		return err
	}

	plan := m.catalog.MealPlan(
		strings.TrimSpace(answers[0]),
		strings.TrimSpace(answers[1]),
		strings.TrimSpace(answers[2]),
	)
	m.render.MealPlan(plan)
	return nil
}

func (m *Menu) ingredientSet(ctx context.Context) error {
	answers, err := m.prompter.Form(ctx, "Multi-ingredient search", []Field{
		{
			Title:       "Ingredients you have",
			Description: "Comma-separated; repeat an ingredient to require it more than once",
			Placeholder: "egg, milk",
		},
	})
	if err != nil {
		return err
	}

	m.render.Matches(m.catalog.FindByIngredientSet(splitList(answers[0])), "No recipe uses all these ingredients.")
	return nil
}

func (m *Menu) sortByCalories() {
	m.render.Heading("Recipes sorted by calories")
	m.render.Calories(m.catalog.SortByCalories())
}

func (m *Menu) healthier(ctx context.Context) error {
	dish, err := m.ask(ctx, "Healthier alternative", "Dish name")
	if err != nil {
		return err
	}

	alt, found, err := m.catalog.HealthierAlternative(dish)
	if err != nil {
		m.renderError(err)
		return nil
	}
	if !found {
		m.render.Notice("No healthier alternative available.")
		return nil
	}

	m.render.Heading("Healthier alternative to " + dish)
	m.render.Details(alt)
	return nil
}

func (m *Menu) surprise() {
	dto, err := m.catalog.RandomSuggestion()
	if err != nil {
		m.renderError(err)
		return
	}

	m.render.Heading("Surprise recipe suggestion")
	m.render.Details(dto)
}

// ask prompts for one required value
func (m *Menu) ask(ctx context.Context, title, label string) (string, error) {
	answers, err := m.prompter.Form(ctx, title, []Field{{Title: label, Validate: required(strings.ToLower(label))}})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answers[0]), nil
}

// renderError prints an AppError in user terms, listing field failures when present
func (m *Menu) renderError(err error) {
	if fields, ok := errors.GetValidationErrors(err); ok {
		for _, f := range fields {
			m.render.Error(fmt.Sprintf("%s: %s", f.Field, f.Message))
		}
		return
	}

	switch errors.GetCode(err) {
	case errors.CodeRecipeNotFound:
		m.render.Notice("Recipe not found.")
	case errors.CodeEmptyCatalog:
		m.render.Notice("No recipes in the catalog.")
	default:
		m.logger.Error("Menu action failed", zap.Error(err))
		msg := err.Error()
		if cause := stderrors.Unwrap(err); cause != nil {
			msg += ": " + cause.Error()
		}
		m.render.Error(msg)
	}
}

// splitList splits a comma-separated answer, dropping empty items
func splitList(s string) []string {
	items := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func integer(field string) func(string) error {
	return func(s string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s must be a whole number", field)
		}
		return nil
	}
}

func nonNegativeInt(field string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a whole number of at least 0", field)
		}
		return nil
	}
}
