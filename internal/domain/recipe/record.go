package recipe

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldSeparator delimits the fields of a serialized record.
const FieldSeparator = ","

// minRecordFields counts name, ingredient count, calories and category.
const minRecordFields = 4

// MalformedRecordError reports a record that could not be parsed into a Recipe.
// Line is 1-based and zero when the record was parsed outside a file.
type MalformedRecordError struct {
	Line int
	Raw  string
	Err  error
}

// Error implements the error interface
func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed record: %v", e.Err)
}

// Unwrap returns the underlying cause
func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// ParseRecord parses one line of the form
//
//	name,ingredientCount,ingredient_1,...,ingredient_N,calories,category
//
// The category is the remainder of the line, so it may itself contain commas.
func ParseRecord(line string) (Recipe, error) {
	line = strings.TrimSuffix(line, "\r")
	fields := strings.Split(line, FieldSeparator)

	if len(fields) < 2 {
		return Recipe{}, &MalformedRecordError{Raw: line, Err: ErrMissingFields}
	}

	count, err := parseNonNegative(fields[1])
	if err != nil {
		return Recipe{}, &MalformedRecordError{Raw: line, Err: ErrInvalidIngredientCount}
	}

	if count > len(fields)-minRecordFields {
		return Recipe{}, &MalformedRecordError{Raw: line, Err: ErrMissingFields}
	}

	calories, err := parseNonNegative(fields[2+count])
	if err != nil {
		return Recipe{}, &MalformedRecordError{Raw: line, Err: ErrInvalidCalories}
	}

	r, err := New(
		fields[0],
		fields[2:2+count],
		calories,
		strings.Join(fields[3+count:], FieldSeparator),
	)
	if err != nil {
		return Recipe{}, &MalformedRecordError{Raw: line, Err: err}
	}

	return r, nil
}

// FormatRecord serializes a Recipe into a single record line without a line terminator.
func FormatRecord(r Recipe) string {
	var b strings.Builder

	b.WriteString(r.name)
	b.WriteString(FieldSeparator)
	b.WriteString(strconv.Itoa(len(r.ingredients)))
	for _, ingredient := range r.ingredients {
		b.WriteString(FieldSeparator)
		b.WriteString(ingredient)
	}
	b.WriteString(FieldSeparator)
	b.WriteString(strconv.Itoa(r.calories))
	b.WriteString(FieldSeparator)
	b.WriteString(r.category)

	return b.String()
}

// IsBlankRecord reports whether a raw line carries no record at all.
func IsBlankRecord(line string) bool {
	return strings.TrimSpace(line) == ""
}

func parseNonNegative(field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
