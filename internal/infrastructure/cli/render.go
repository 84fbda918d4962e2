package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alchemorsel/recipebook/internal/ports/inbound"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Renderer writes catalog results to a terminal
type Renderer struct {
	out io.Writer

	heading lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	pass    lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
}

// NewRenderer creates a renderer for out. With color disabled every style renders plain text.
func NewRenderer(out io.Writer, color bool) *Renderer {
	var opts []termenv.OutputOption
	if !color {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	r := lipgloss.NewRenderer(out, opts...)

	return &Renderer{
		out:     out,
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}),
		name:    r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}),
		pass:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}),
		warn:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}),
		fail:    r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"}),
	}
}

// Heading prints a section title
func (r *Renderer) Heading(title string) {
	fmt.Fprintf(r.out, "\n%s\n", r.heading.Render(title))
}

// Success prints a confirmation line
func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.out, r.pass.Render("✓ "+msg))
}

// Notice prints an informational line, used for empty results
func (r *Renderer) Notice(msg string) {
	fmt.Fprintln(r.out, r.warn.Render(msg))
}

// Error prints a failure line
func (r *Renderer) Error(msg string) {
	fmt.Fprintln(r.out, r.fail.Render("✗ "+msg))
}

// Details prints every field of one recipe
func (r *Renderer) Details(dto inbound.RecipeDTO) {
	fmt.Fprintf(r.out, "%s\n", r.name.Render(dto.Name))
	fmt.Fprintf(r.out, "  Ingredients : %s\n", strings.Join(dto.Ingredients, ", "))
	fmt.Fprintf(r.out, "  Category    : %s\n", dto.Category)
	fmt.Fprintf(r.out, "  Calories    : %d\n", dto.Calories)
}

// Table prints one line per recipe
func (r *Renderer) Table(dtos []inbound.RecipeDTO) {
	for _, dto := range dtos {
		fmt.Fprintf(r.out, "%s %s %s %s %s %s\n",
			r.name.Render(dto.Name),
			r.muted.Render("|"),
			strings.Join(dto.Ingredients, ", "),
			r.muted.Render("|"),
			fmt.Sprintf("%d cal", dto.Calories),
			r.muted.Render("| "+dto.Category),
		)
	}
}

// Matches prints the names a query produced, or empty when there are none
func (r *Renderer) Matches(dtos []inbound.RecipeDTO, empty string) {
	if len(dtos) == 0 {
		r.Notice(empty)
		return
	}
	for _, dto := range dtos {
		fmt.Fprintf(r.out, "You can make: %s\n", r.name.Render(dto.Name))
	}
}

// Calories prints name and calories, one per line
func (r *Renderer) Calories(dtos []inbound.RecipeDTO) {
	for _, dto := range dtos {
		fmt.Fprintf(r.out, "%s - %d cal\n", dto.Name, dto.Calories)
	}
}

// MealPlan prints each slot's details or a not-found notice
func (r *Renderer) MealPlan(plan inbound.MealPlan) {
	for _, slot := range []struct {
		label string
		slot  inbound.MealSlot
	}{
		{"Breakfast", plan.Breakfast},
		{"Lunch", plan.Lunch},
		{"Dinner", plan.Dinner},
	} {
		r.Heading(slot.label)
		if !slot.slot.Found {
			r.Notice(fmt.Sprintf("%q is not in the catalog.", slot.slot.Query))
			continue
		}
		r.Details(*slot.slot.Recipe)
	}
}

// LoadReport summarizes a load, listing skipped records
func (r *Renderer) LoadReport(report *inbound.LoadReport) {
	fmt.Fprintln(r.out, r.muted.Render(fmt.Sprintf("Loaded %d recipes.", report.Loaded)))
	for _, skipped := range report.Skipped {
		r.Notice(fmt.Sprintf("Skipped line %d: %s", skipped.Line, skipped.Reason))
	}
}
