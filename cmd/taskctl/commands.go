package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"taskloop/internal/client"
	"taskloop/internal/events"
	"taskloop/internal/form"
	"taskloop/internal/query"
	"taskloop/internal/session"
	"taskloop/internal/task"
	"taskloop/internal/tui"
)

func newListCmd(a *app) *cobra.Command {
	var (
		filter string
		search string
		sort   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := query.Filter(filter)
			if !f.Valid() {
				return fmt.Errorf("invalid filter %q: want all, completed or pending", filter)
			}
			k := query.SortKey(sort)
			if !k.Valid() {
				return fmt.Errorf("invalid sort %q", sort)
			}

			tasks, err := a.client.List(cmd.Context(), query.Options{
				Completed: f.Completed(),
				Search:    search,
				Sort:      k,
			})
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}
			fmt.Fprintln(a.out, renderTable(tasks))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(query.FilterAll), "all, completed or pending")
	cmd.Flags().StringVar(&search, "search", "", "case-insensitive title search")
	cmd.Flags().StringVar(&sort, "sort", "", "date_asc, date_desc, title_asc or title_desc")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func renderTable(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found."
	}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := ""
		if t.Completed {
			done = "x"
		}
		rows = append(rows, []string{
			fmt.Sprint(t.ID),
			done,
			t.Title,
			string(t.Priority),
			t.CreatedAt.Format("2006-01-02"),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "TITLE", "PRIORITY", "CREATED").
		Rows(rows...).
		String()
}

type draftFlags struct {
	title       string
	description string
	priority    string
}

func (f *draftFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "task title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "task description")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "low, medium or high")
}

// apply overlays the flags that were set onto d.
func (f *draftFlags) apply(cmd *cobra.Command, d form.Draft) form.Draft {
	if cmd.Flags().Changed("title") {
		d.Title = f.title
	}
	if cmd.Flags().Changed("description") {
		d.Description = f.description
	}
	if cmd.Flags().Changed("priority") {
		d.Priority = task.Priority(strings.ToLower(strings.TrimSpace(f.priority)))
	}
	return d
}

func newAddCmd(a *app) *cobra.Command {
	var (
		flags       draftFlags
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fc := form.NewController(a.client)
			fc.SetDraft(flags.apply(cmd, fc.Draft()))

			if interactive || strings.TrimSpace(fc.Draft().Title) == "" || strings.TrimSpace(fc.Draft().Description) == "" {
				d, err := runDraftForm("New task", fc.Draft())
				if err != nil {
					return err
				}
				fc.SetDraft(d)
			}
			return a.submit(cmd.Context(), fc, "Task created successfully")
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "always open the form")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var (
		flags       draftFlags
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a task's title, description or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.find(cmd.Context(), id)
			if err != nil {
				return err
			}

			fc := form.NewController(a.client)
			fc.Edit(t)
			fc.SetDraft(flags.apply(cmd, fc.Draft()))

			anyFlag := cmd.Flags().Changed("title") || cmd.Flags().Changed("description") || cmd.Flags().Changed("priority")
			if interactive || !anyFlag {
				d, err := runDraftForm(fmt.Sprintf("Edit task %d", id), fc.Draft())
				if err != nil {
					return err
				}
				fc.SetDraft(d)
			}
			return a.submit(cmd.Context(), fc, "Task updated successfully")
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "always open the form")
	return cmd
}

func (a *app) submit(ctx context.Context, fc *form.Controller, okMsg string) error {
	saved, err := fc.Submit(ctx)
	if err != nil {
		if form.IsValidation(err) {
			return errors.New(fc.Err())
		}
		return err
	}
	a.logger.Info("task_saved", "task_id", saved.ID)
	fmt.Fprintf(a.out, "%s: #%d %s\n", okMsg, saved.ID, saved.Title)
	return nil
}

// find looks a task up by id; the API has no single-task read.
func (a *app) find(ctx context.Context, id int64) (task.Task, error) {
	tasks, err := a.client.List(ctx, query.Options{})
	if err != nil {
		return task.Task{}, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return task.Task{}, &task.NotFoundError{ID: id}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.client.Toggle(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "pending"
			if t.Completed {
				state = "completed"
			}
			fmt.Fprintf(a.out, "Task completion status toggled: #%d %s is now %s\n", t.ID, t.Title, state)
			return nil
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			t, err := a.client.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Task deleted: #%d %s\n", t.ID, t.Title)
			return nil
		},
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	var live bool
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse tasks in an infinite carousel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			sess := session.New(a.client)
			model := tui.New(sess, tui.Options{
				Context:  ctx,
				Carousel: a.cfg.Carousel.CarouselOptions(),
			})
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

			if live {
				go func() {
					err := a.client.Subscribe(ctx, func(ev events.Event) {
						p.Send(tui.RemoteChangeMsg{Event: ev})
					})
					if err != nil {
						a.logger.Warn("event_stream_ended", "err", err)
					}
				}()
			}

			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&live, "live", true, "refresh when other clients change tasks")
	return cmd
}

var _ form.Submitter = (*client.Client)(nil)
