package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/taskflow/internal/cli/formatter"
	"github.com/alexanderramin/taskflow/internal/domain"
	"github.com/alexanderramin/taskflow/internal/service"
	"github.com/alexanderramin/taskflow/internal/timeutil"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func taskflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// manualEntryForm collects a manual entry into in. Empty times default to
// the last hour ending at now.
func manualEntryForm(in *service.ManualEntry, now time.Time, loc *time.Location) *huh.Form {
	const layout = "2006-01-02 15:04"
	local := now.In(loc)
	if in.Start == "" {
		in.Start = local.Add(-time.Hour).Format(layout)
	}
	if in.End == "" {
		in.End = local.Format(layout)
	}

	categories := make([]huh.Option[string], 0, len(domain.TimeCategories))
	for _, c := range domain.TimeCategories {
		categories = append(categories, huh.NewOption(c, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task ID").
				Value(&in.TaskID).
				Validate(validateRequired("task id")),
			huh.NewInput().
				Title("Start").
				Placeholder(layout).
				Value(&in.Start).
				Validate(validateTimestamp(loc)),
			huh.NewInput().
				Title("End").
				Placeholder(layout).
				Value(&in.End).
				Validate(validateTimestamp(loc)),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Category").
				Options(categories...).
				Value(&in.Category),
			huh.NewText().
				Title("Description (optional)").
				CharLimit(domain.MaxDescriptionLength).
				Value(&in.Description),
		),
	).WithTheme(taskflowHuhTheme()).WithShowHelp(false)
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validateTimestamp(loc *time.Location) func(string) error {
	return func(s string) error {
		if _, ok := timeutil.ParseTimestamp(s, loc); !ok {
			return errors.New("use YYYY-MM-DD HH:MM")
		}
		return nil
	}
}

// confirmForm asks a yes/no question.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(taskflowHuhTheme()).WithShowHelp(false)
}
