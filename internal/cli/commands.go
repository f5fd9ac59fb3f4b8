package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/client"
	"github.com/idilsaglam/todo-inline/internal/date"
	"github.com/idilsaglam/todo-inline/internal/logging"
	"github.com/idilsaglam/todo-inline/internal/model"
	"github.com/idilsaglam/todo-inline/internal/output"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

// cliClient builds a client that logs to the configured log file, if any.
func (a *app) cliClient() (*client.Client, func(), error) {
	logger, closer, err := logging.OpenFile(a.cfg.LogFile, a.cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	c, err := a.newClient(logger)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return c, func() { _ = closer.Close() }, nil
}

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(a.flags.format)
			if err != nil {
				return clierr.New(clierr.InvalidInput, err.Error())
			}
			c, done, err := a.cliClient()
			if err != nil {
				return err
			}
			defer done()

			rows, err := c.ListTodos(cmd.Context())
			if err != nil {
				return requestErr(err)
			}
			opts := output.Options{Plain: a.flags.noColor}
			if f, ok := a.stdout.(interface{ Fd() uintptr }); ok && ui.IsTerminalFd(f.Fd()) {
				opts.Width, _ = ui.Size()
			}
			return output.Rows(a.stdout, format, rows, opts)
		},
	}
	cmd.Flags().StringVarP(&a.flags.format, "format", "f", "table", "output format: table, json, yaml or markdown")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var deadline, priority string
	cmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if err := checkName(name); err != nil {
				return err
			}
			in := model.NewTodo{Name: name}
			if deadline != "" {
				d, err := parseDeadline(a, deadline)
				if err != nil {
					return err
				}
				in.Deadline = &d
			}
			if priority != "" {
				sel, err := parseSelection(priority)
				if err != nil {
					return err
				}
				p, _ := model.ParsePriority(model.PriorityWireValue(sel))
				in.Priority = p
			}

			c, done, err := a.cliClient()
			if err != nil {
				return err
			}
			defer done()
			if err := c.CreateTodo(cmd.Context(), in); err != nil {
				return requestErr(err)
			}
			ui.OK(a.stdout, fmt.Sprintf("Todo: %s was saved", name))
			return nil
		},
	}
	cmd.Flags().StringVarP(&deadline, "deadline", "d", "", "deadline as YYYY-MM-DD")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority: None, LOW, MEDIUM or HIGH")
	return cmd
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a todo",
		Args:  cobra.MinimumNArgs(2), //nolint:mnd // id and at least one word
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if err := checkName(name); err != nil {
				return err
			}
			return a.update(func(c *client.Client) error {
				return c.UpdateName(cmd.Context(), id, name)
			}, fmt.Sprintf("renamed #%d to %q", id, name))
		},
	}
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <id>",
		Aliases: []string{"done"},
		Short:   "Flip a todo between finished and not finished",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.update(func(c *client.Client) error {
				return c.UpdateIsDoneStatus(cmd.Context(), id)
			}, fmt.Sprintf("toggled #%d", id))
		},
	}
}

func newPriorityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "priority <id> <None|LOW|MEDIUM|HIGH>",
		Short: "Set or remove a todo's priority",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and priority
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			sel, err := parseSelection(args[1])
			if err != nil {
				return err
			}
			return a.update(func(c *client.Client) error {
				return c.UpdatePriority(cmd.Context(), id, sel)
			}, fmt.Sprintf("priority of #%d set to %s", id, sel))
		},
	}
}

func newDeadlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deadline <id> <YYYY-MM-DD>",
		Short: "Set a todo's deadline",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and date
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			d, err := parseDeadline(a, args[1])
			if err != nil {
				return err
			}
			return a.update(func(c *client.Client) error {
				return c.UpdateDeadline(cmd.Context(), id, d)
			}, fmt.Sprintf("deadline of #%d set to %s", id, d))
		},
	}
}

func newClearDeadlineCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-deadline <id>",
		Short: "Remove a todo's deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.update(func(c *client.Client) error {
				return c.ClearDeadline(cmd.Context(), id)
			}, fmt.Sprintf("deadline of #%d cleared", id))
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.update(func(c *client.Client) error {
				return c.DeleteTodo(cmd.Context(), id)
			}, fmt.Sprintf("deleted #%d", id))
		},
	}
}

// update runs one request and reports success.
func (a *app) update(fn func(*client.Client) error, success string) error {
	c, done, err := a.cliClient()
	if err != nil {
		return err
	}
	defer done()
	if err := fn(c); err != nil {
		return requestErr(err)
	}
	ui.OK(a.stdout, success)
	return nil
}

func checkName(name string) error {
	if name == "" {
		return clierr.New(clierr.InvalidName, "task name cannot be empty")
	}
	if err := model.ValidateName(name); err != nil {
		return clierr.New(clierr.InvalidName, err.Error()).
			WithDetails(map[string]any{"length": len([]rune(name)), "max": model.MaxNameLength})
	}
	return nil
}

// parseDeadline parses a date and rejects days before today.
func parseDeadline(a *app, s string) (date.Date, error) {
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, clierr.New(clierr.InvalidDate, err.Error())
	}
	if d.InPast(a.now()) {
		return date.Date{}, clierr.New(clierr.DeadlineInPast, "deadline cannot be in the past").
			WithDetails(map[string]any{"deadline": d.String()})
	}
	return d, nil
}

// parseSelection accepts a priority option in any case, or "null".
func parseSelection(s string) (string, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, model.SelectNone) || strings.EqualFold(s, model.NullWire) {
		return model.SelectNone, nil
	}
	up := strings.ToUpper(s)
	if p, err := model.ParsePriority(up); err == nil && p != model.PriorityNone {
		return up, nil
	}
	return "", clierr.Newf(clierr.InvalidPriority, "invalid priority %q: expected None, LOW, MEDIUM or HIGH", s)
}
