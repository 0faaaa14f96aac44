package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"taskloop/internal/form"
	"taskloop/internal/task"
)

// runDraftForm lets the user fill in a draft interactively. Field checks use
// the same limits and messages as the server.
func runDraftForm(heading string, d form.Draft) (form.Draft, error) {
	if !d.Priority.Valid() {
		d.Priority = task.PriorityMedium
	}
	priority := string(d.Priority)

	options := make([]huh.Option[string], 0, len(task.Priorities))
	for _, p := range task.Priorities {
		options = append(options, huh.NewOption(strings.ToUpper(string(p[:1]))+string(p[1:]), string(p)))
	}

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(heading).
				Description("Title").
				CharLimit(task.MaxTitleLen).
				Value(&d.Title).
				Validate(checkField("Title")),
			huh.NewText().
				Title("Description").
				CharLimit(task.MaxDescriptionLen).
				Value(&d.Description).
				Validate(checkField("Description")),
			huh.NewSelect[string]().
				Title("Priority").
				Options(options...).
				Value(&priority),
		),
	)
	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return d, errors.New("cancelled")
		}
		return d, err
	}
	d.Priority = task.Priority(priority)
	return d, nil
}

// checkField validates a single text field with the shared task rules.
func checkField(field string) func(string) error {
	return func(s string) error {
		var in task.Input
		switch field {
		case "Title":
			in.Title = s
		case "Description":
			in.Description = s
		}
		return task.ValidateFields(in, field)
	}
}
