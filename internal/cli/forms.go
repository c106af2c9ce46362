package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/racecoach/internal/cli/formatter"
	"github.com/alexanderramin/racecoach/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// racecoachHuhTheme returns a huh theme matching the formatter palette.
func racecoachHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

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

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// userForm collects a new athlete in two groups: identity, then training
// preferences.
func userForm(in *userInput) *huh.Form {
	distances := make([]huh.Option[string], 0, len(domain.RaceDistances))
	for _, d := range domain.RaceDistances {
		distances = append(distances, huh.NewOption(string(d), string(d)))
	}
	if in.RaceDistance == "" {
		in.RaceDistance = string(domain.RaceNone)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Strava Athlete ID").
				Value(&in.AthleteID).
				Validate(validateAthleteID),
			huh.NewInput().
				Title("Email").
				Placeholder("runner@example.com").
				Value(&in.Email),
			huh.NewInput().
				Title("Strava Access Token").
				EchoMode(huh.EchoModePassword).
				Value(&in.AccessToken).
				Validate(validateRequired("access token")),
			huh.NewInput().
				Title("Push Device Token (blank to disable)").
				Value(&in.DeviceToken),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Goal Race").
				Options(distances...).
				Value(&in.RaceDistance),
			huh.NewInput().
				Title("Race Date (YYYY-MM-DD, blank for none)").
				Placeholder("2025-10-12").
				Value(&in.RaceDate).
				Validate(validateOptionalDate),
			huh.NewInput().
				Title("Ideal Week").
				Description("day:session pairs, e.g. sat:long run,tues:speed workout").
				Value(&in.IdealWeek).
				Validate(func(s string) error {
					_, err := parseIdealWeek(s)
					return err
				}),
		),
	).WithTheme(racecoachHuhTheme()).WithShowHelp(false)
}

func validateAthleteID(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive athlete ID")
	}
	return nil
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// validateOptionalDate accepts empty or YYYY-MM-DD.
func validateOptionalDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, s); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}
