package recipe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantName string
		wantIngr []string
		wantCal  int
		wantCat  string
		wantErr  error
	}{
		{
			name:     "well formed",
			line:     "Pancakes,3,egg,milk,flour,350,Breakfast",
			wantName: "Pancakes",
			wantIngr: []string{"egg", "milk", "flour"},
			wantCal:  350,
			wantCat:  "Breakfast",
		},
		{
			name:     "zero ingredients",
			line:     "Tea,0,5,Drinks",
			wantName: "Tea",
			wantIngr: []string{},
			wantCal:  5,
			wantCat:  "Drinks",
		},
		{
			name:     "carriage return stripped",
			line:     "Toast,1,bread,120,Breakfast\r",
			wantName: "Toast",
			wantIngr: []string{"bread"},
			wantCal:  120,
			wantCat:  "Breakfast",
		},
		{
			name:     "numeric fields tolerate spaces",
			line:     "Toast, 1 ,bread, 120 ,Breakfast",
			wantName: "Toast",
			wantIngr: []string{"bread"},
			wantCal:  120,
			wantCat:  "Breakfast",
		},
		{
			name:     "category keeps the remainder of the line",
			line:     "Trail Mix,2,nuts,raisins,300,Snack,On the go",
			wantName: "Trail Mix",
			wantIngr: []string{"nuts", "raisins"},
			wantCal:  300,
			wantCat:  "Snack,On the go",
		},
		{
			name:     "empty name accepted",
			line:     ",1,rice,200,Dinner",
			wantName: "",
			wantIngr: []string{"rice"},
			wantCal:  200,
			wantCat:  "Dinner",
		},
		{
			name:    "fewer ingredients than declared",
			line:    "Toast,3,bread,butter,200,Breakfast",
			wantErr: ErrMissingFields,
		},
		{
			name:    "count not a number",
			line:    "Toast,two,bread,butter,200,Breakfast",
			wantErr: ErrInvalidIngredientCount,
		},
		{
			name:    "negative count",
			line:    "Toast,-1,200,Breakfast",
			wantErr: ErrInvalidIngredientCount,
		},
		{
			name:    "calories not a number",
			line:    "Toast,1,bread,lots,Breakfast",
			wantErr: ErrInvalidCalories,
		},
		{
			name:    "negative calories",
			line:    "Toast,1,bread,-5,Breakfast",
			wantErr: ErrInvalidCalories,
		},
		{
			name:    "name only",
			line:    "Toast",
			wantErr: ErrMissingFields,
		},
		{
			name:    "missing category",
			line:    "Toast,1,bread,120",
			wantErr: ErrMissingFields,
		},
		{
			name:    "empty ingredient token",
			line:    "Toast,2,bread,,120,Breakfast",
			wantErr: ErrEmptyIngredient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRecord(tt.line)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var malformed *MalformedRecordError
				require.True(t, errors.As(err, &malformed))
				assert.Equal(t, 0, malformed.Line)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, r.Name())
			assert.Equal(t, tt.wantIngr, r.Ingredients())
			assert.Equal(t, len(tt.wantIngr), r.IngredientCount())
			assert.Equal(t, tt.wantCal, r.Calories())
			assert.Equal(t, tt.wantCat, r.Category())
		})
	}
}

func TestFormatRecord(t *testing.T) {
	r, err := New("Pancakes", []string{"egg", "milk", "flour"}, 350, "Breakfast")
	require.NoError(t, err)

	assert.Equal(t, "Pancakes,3,egg,milk,flour,350,Breakfast", FormatRecord(r))

	empty, err := New("Tea", nil, 5, "Drinks")
	require.NoError(t, err)

	assert.Equal(t, "Tea,0,5,Drinks", FormatRecord(empty))
}

func TestRecordRoundTrip(t *testing.T) {
	originals := []Recipe{
		mustNew(t, "Pancakes", []string{"egg", "milk", "flour"}, 350, "Breakfast"),
		mustNew(t, "Tea", nil, 5, "Drinks"),
		mustNew(t, "Eggnog", []string{"egg", "egg", "milk"}, 420, "Drinks"),
		mustNew(t, "", []string{"rice"}, 0, ""),
		mustNew(t, "Trail Mix", []string{"nuts"}, 300, "Snack,On the go"),
	}

	for _, original := range originals {
		parsed, err := ParseRecord(FormatRecord(original))
		require.NoError(t, err)
		assert.True(t, original.Equal(parsed), "round trip changed %q", FormatRecord(original))
	}
}

func TestMalformedRecordError(t *testing.T) {
	err := &MalformedRecordError{Line: 7, Raw: "x", Err: ErrMissingFields}

	assert.Contains(t, err.Error(), "line 7")
	assert.ErrorIs(t, err, ErrMissingFields)

	noLine := &MalformedRecordError{Raw: "x", Err: ErrInvalidCalories}
	assert.NotContains(t, noLine.Error(), "line")
}

func TestIsBlankRecord(t *testing.T) {
	assert.True(t, IsBlankRecord(""))
	assert.True(t, IsBlankRecord("   \t\r"))
	assert.False(t, IsBlankRecord("Tea,0,5,Drinks"))
}

func mustNew(t *testing.T, name string, ingredients []string, calories int, category string) Recipe {
	t.Helper()
	r, err := New(name, ingredients, calories, category)
	require.NoError(t, err)
	return r
}
