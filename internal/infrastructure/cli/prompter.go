// Package cli implements the interactive recipe menu on top of the catalog service
package cli

import (
	"context"
	"errors"
	"io"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned by a Prompter when the user cancels a prompt
var ErrAborted = errors.New("prompt aborted")

// Choice is one selectable menu entry
type Choice struct {
	Label string
	Value string
}

// Field describes a single line of user input
type Field struct {
	Title       string
	Description string
	Placeholder string
	Validate    func(string) error
}

// Prompter asks the user for input
type Prompter interface {
	// Choose returns the Value of the selected choice
	Choose(ctx context.Context, title string, choices []Choice) (string, error)
	// Form asks every field in one screen and returns the answers in field order
	Form(ctx context.Context, title string, fields []Field) ([]string, error)
}

// HuhPrompter renders prompts with charmbracelet/huh
type HuhPrompter struct {
	in         io.Reader
	out        io.Writer
	accessible bool
	theme      *huh.Theme
}

// PrompterOption configures a HuhPrompter
type PrompterOption func(*HuhPrompter)

// WithIO redirects prompt input and output
func WithIO(in io.Reader, out io.Writer) PrompterOption {
	return func(p *HuhPrompter) {
		p.in = in
		p.out = out
	}
}

// WithAccessible switches to line-based prompts that work without a TTY
func WithAccessible(accessible bool) PrompterOption {
	return func(p *HuhPrompter) {
		p.accessible = accessible
	}
}

// NewHuhPrompter creates a prompter using the Dracula theme
func NewHuhPrompter(opts ...PrompterOption) *HuhPrompter {
	p := &HuhPrompter{theme: huh.ThemeDracula()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Choose shows a select list
func (p *HuhPrompter) Choose(ctx context.Context, title string, choices []Choice) (string, error) {
	options := make([]huh.Option[string], len(choices))
	for i, c := range choices {
		options[i] = huh.NewOption(c.Label, c.Value)
	}

	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(title).
				Options(options...).
				Value(&value),
		),
	)

	if err := p.run(ctx, form); err != nil {
		return "", err
	}
	return value, nil
}

// Form shows one input per field in a single group
func (p *HuhPrompter) Form(ctx context.Context, title string, fields []Field) ([]string, error) {
	answers := make([]string, len(fields))
	inputs := make([]huh.Field, 0, len(fields)+1)
	if title != "" {
		inputs = append(inputs, huh.NewNote().Title(title))
	}

	for i, f := range fields {
		input := huh.NewInput().
			Title(f.Title).
			Description(f.Description).
			Placeholder(f.Placeholder).
			Value(&answers[i])
		if f.Validate != nil {
			input = input.Validate(f.Validate)
		}
		inputs = append(inputs, input)
	}

	form := huh.NewForm(huh.NewGroup(inputs...))
	if err := p.run(ctx, form); err != nil {
		return nil, err
	}
	return answers, nil
}

func (p *HuhPrompter) run(ctx context.Context, form *huh.Form) error {
	form = form.WithTheme(p.theme).WithAccessible(p.accessible)
	if p.in != nil {
		form = form.WithInput(p.in)
	}
	if p.out != nil {
		form = form.WithOutput(p.out)
	}

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}
