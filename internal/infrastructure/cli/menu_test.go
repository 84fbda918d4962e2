package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/alchemorsel/recipebook/internal/application/catalog"
	"github.com/alchemorsel/recipebook/internal/infrastructure/persistence/memory"
	"github.com/alchemorsel/recipebook/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// scriptedPrompter replays canned answers.
// Each Form call consumes one entry of forms; validators run like the real prompt would.
type scriptedPrompter struct {
	choices []string
	forms   [][]string
	titles  []string
}

func (p *scriptedPrompter) Choose(_ context.Context, _ string, _ []Choice) (string, error) {
	if len(p.choices) == 0 {
		return "", ErrAborted
	}
	choice := p.choices[0]
	p.choices = p.choices[1:]
	return choice, nil
}

func (p *scriptedPrompter) Form(_ context.Context, title string, fields []Field) ([]string, error) {
	p.titles = append(p.titles, title)
	if len(p.forms) == 0 {
		return nil, ErrAborted
	}
	answers := p.forms[0]
	p.forms = p.forms[1:]

	if len(answers) != len(fields) {
		return nil, errors.New("script does not match form")
	}
	for i, f := range fields {
		if f.Validate != nil {
			if err := f.Validate(answers[i]); err != nil {
				return nil, err
			}
		}
	}
	return answers, nil
}

type MenuTestSuite struct {
	suite.Suite
	store    *memory.RecordStore
	catalog  *catalog.Service
	prompter *scriptedPrompter
	out      *bytes.Buffer
	menu     *Menu
}

func (suite *MenuTestSuite) SetupTest() {
	suite.store = memory.NewRecordStore(
		"Omelette,2,egg,cheese,320,Breakfast",
		"Pancakes,3,flour,egg,milk,450,Breakfast",
		"Scrambled Eggs,2,egg,egg,210,Breakfast",
		"Tomato Soup,2,tomato,onion,150,Soup",
	)
	suite.catalog = catalog.NewService(suite.store, zap.NewNop(),
		catalog.WithRandomSource(testutils.NewSequenceRandom(1)),
	)
	_, err := suite.catalog.Load(context.Background())
	suite.Require().NoError(err)

	suite.prompter = &scriptedPrompter{}
	suite.out = &bytes.Buffer{}
	suite.menu = NewMenu(suite.catalog, suite.prompter, NewRenderer(suite.out, false), zap.NewNop())
}

func (suite *MenuTestSuite) dispatch(choice string, forms ...[]string) string {
	suite.prompter.forms = forms
	suite.out.Reset()
	suite.Require().NoError(suite.menu.Dispatch(context.Background(), choice))
	return suite.out.String()
}

func (suite *MenuTestSuite) TestAddRecipe() {
	out := suite.dispatch(ChoiceAdd, []string{"Toast", "bread, butter", "180", "Breakfast"})

	suite.Contains(out, "Added Toast.")
	suite.Equal(5, suite.catalog.Len())
	suite.Equal("Toast,2,bread,butter,180,Breakfast", suite.store.Lines()[4])
}

func (suite *MenuTestSuite) TestAddRecipeRejected() {
	out := suite.dispatch(ChoiceAdd, []string{"Bad,Name", "", "10", "Snack"})

	suite.Contains(out, "Name")
	suite.Equal(4, suite.catalog.Len())
}

func (suite *MenuTestSuite) TestAddRecipeStorageFailure() {
	suite.store.FailAppends(errors.New("disk full"))

	out := suite.dispatch(ChoiceAdd, []string{"Toast", "bread", "180", "Breakfast"})

	suite.Contains(out, "disk full")
	suite.Equal(4, suite.catalog.Len())
}

func (suite *MenuTestSuite) TestDisplayAll() {
	out := suite.dispatch(ChoiceDisplayAll)

	suite.Contains(out, "All recipes")
	suite.Contains(out, "Omelette | egg, cheese | 320 cal | Breakfast")
	suite.Contains(out, "Tomato Soup | tomato, onion | 150 cal | Soup")
}

func (suite *MenuTestSuite) TestSearchByIngredient() {
	out := suite.dispatch(ChoiceByIngredient, []string{"egg"})
	suite.Equal("You can make: Omelette\nYou can make: Pancakes\nYou can make: Scrambled Eggs\n", out)

	out = suite.dispatch(ChoiceByIngredient, []string{"saffron"})
	suite.Contains(out, "No recipe uses this ingredient.")
}

func (suite *MenuTestSuite) TestSearchByCategory() {
	out := suite.dispatch(ChoiceByCategory, []string{"Soup"})
	suite.Equal("You can make: Tomato Soup\n", out)

	out = suite.dispatch(ChoiceByCategory, []string{"Dessert"})
	suite.Contains(out, "There is no recipe with this category.")
}

func (suite *MenuTestSuite) TestDetails() {
	out := suite.dispatch(ChoiceDetails, []string{"Pancakes"})
	suite.Contains(out, "Ingredients : flour, egg, milk")
	suite.Contains(out, "Calories    : 450")

	out = suite.dispatch(ChoiceDetails, []string{"Waffles"})
	suite.Contains(out, "The recipe is not in our database.")
}

func (suite *MenuTestSuite) TestCalorieRange() {
	out := suite.dispatch(ChoiceCalorieRange, []string{"200", "330", "Breakfast"})
	suite.Equal("You can make: Omelette\nYou can make: Scrambled Eggs\n", out)

	out = suite.dispatch(ChoiceCalorieRange, []string{"500", "100", "Breakfast"})
	suite.Contains(out, "No recipe found in this range and category.")
}

func (suite *MenuTestSuite) TestCalorieRangeRejectsNonNumeric() {
	suite.prompter.forms = [][]string{{"low", "330", "Breakfast"}}
	err := suite.menu.Dispatch(context.Background(), ChoiceCalorieRange)
	suite.EqualError(err, "low must be a whole number")
}

func (suite *MenuTestSuite) TestMealPlan() {
	out := suite.dispatch(ChoiceMealPlan, []string{"Omelette", "Waffles", "Tomato Soup"})

	suite.Contains(out, "Breakfast")
	suite.Contains(out, "Ingredients : egg, cheese")
	suite.Contains(out, `"Waffles" is not in the catalog.`)
	suite.Contains(out, "Ingredients : tomato, onion")
}

func (suite *MenuTestSuite) TestIngredientSet() {
	out := suite.dispatch(ChoiceIngredientSet, []string{"egg, egg"})
	suite.Equal("You can make: Scrambled Eggs\n", out)

	out = suite.dispatch(ChoiceIngredientSet, []string{"egg, tomato"})
	suite.Contains(out, "No recipe uses all these ingredients.")
}

func (suite *MenuTestSuite) TestSortByCalories() {
	out := suite.dispatch(ChoiceSortCalories)
	suite.Contains(out, "Tomato Soup - 150 cal\nScrambled Eggs - 210 cal\nOmelette - 320 cal\nPancakes - 450 cal\n")
}

func (suite *MenuTestSuite) TestHealthier() {
	out := suite.dispatch(ChoiceHealthier, []string{"Pancakes"})
	suite.Contains(out, "Healthier alternative to Pancakes")
	suite.Contains(out, "Omelette")

	out = suite.dispatch(ChoiceHealthier, []string{"Tomato Soup"})
	suite.Contains(out, "No healthier alternative available.")

	out = suite.dispatch(ChoiceHealthier, []string{"Waffles"})
	suite.Contains(out, "Recipe not found.")
}

func (suite *MenuTestSuite) TestSurprise() {
	out := suite.dispatch(ChoiceSurprise)
	suite.Contains(out, "Surprise recipe suggestion")
	suite.Contains(out, "Pancakes")
}

func (suite *MenuTestSuite) TestSurpriseEmptyCatalog() {
	empty := catalog.NewService(memory.NewRecordStore(), zap.NewNop())
	suite.menu = NewMenu(empty, suite.prompter, NewRenderer(suite.out, false), zap.NewNop())

	out := suite.dispatch(ChoiceSurprise)
	suite.Contains(out, "No recipes in the catalog.")
}

func (suite *MenuTestSuite) TestInvalidChoice() {
	out := suite.dispatch("42")
	suite.Contains(out, "Invalid choice.")
}

func (suite *MenuTestSuite) TestRunUntilExit() {
	suite.prompter.choices = []string{ChoiceByCategory, ChoiceDetails, ChoiceSortCalories, ChoiceExit, ChoiceDisplayAll}
	suite.prompter.forms = [][]string{{"Soup"}}

	suite.Require().NoError(suite.menu.Run(context.Background()))

	// the aborted details prompt returns to the menu; nothing after exit runs
	suite.Equal([]string{"Search by category", "Recipe details"}, suite.prompter.titles)
	suite.Equal([]string{ChoiceDisplayAll}, suite.prompter.choices)
	suite.Contains(suite.out.String(), "Recipes sorted by calories")
}

func (suite *MenuTestSuite) TestRunStopsOnAbortedMenu() {
	suite.NoError(suite.menu.Run(context.Background()))
}

func TestMenuTestSuite(t *testing.T) {
	suite.Run(t, new(MenuTestSuite))
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"", []string{}},
		{"egg", []string{"egg"}},
		{" egg , milk,, ", []string{"egg", "milk"}},
		{"egg,egg", []string{"egg", "egg"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitList(tt.input))
		})
	}
}

func TestFieldValidators(t *testing.T) {
	require.Error(t, required("name")("  "))
	require.NoError(t, required("name")("Toast"))

	require.NoError(t, integer("low")("-5"))
	require.Error(t, integer("low")("five"))

	require.NoError(t, nonNegativeInt("calories")(" 0 "))
	require.Error(t, nonNegativeInt("calories")("-1"))
}
