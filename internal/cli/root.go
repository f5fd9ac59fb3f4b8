// Package cli implements the todo command line: the interactive list by
// default, one-shot commands for every update, the server and token handling.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/idilsaglam/todo-inline/internal/auth"
	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/client"
	"github.com/idilsaglam/todo-inline/internal/config"
	"github.com/idilsaglam/todo-inline/internal/output"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

// version is set at build time via ldflags.
var version = "dev"

// app carries the streams, flags and loaded config shared by all commands.
type app struct {
	stdin          io.Reader
	stdout, stderr io.Writer
	now            func() time.Time
	// credsDir overrides the credentials directory.
	credsDir string

	flags struct {
		config   string
		server   string
		token    string
		theme    string
		logFile  string
		logLevel string
		timeout  time.Duration
		noColor  bool
		format   string
	}

	cfg *config.Config
}

func newApp() *app {
	return &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		now:    time.Now,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "Edit your todo list inline from the terminal",
		Long: `todo talks to a todo server. Without a subcommand it opens an interactive
list where every task can be renamed, toggled, prioritised and scheduled
in place. The same updates are available as one-shot commands, and
"todo serve" runs the server itself.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Args:              cobra.NoArgs,
		RunE:              a.runTUI,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.config, "config", "", "config file (default <config dir>/todo/config.toml)")
	pf.StringVar(&a.flags.server, "server", "", "todo server base URL")
	pf.StringVar(&a.flags.token, "token", "", "bearer token sent to the server")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "request timeout")
	pf.StringVar(&a.flags.theme, "theme", "", "colour theme: classic, neon or mono")
	pf.StringVar(&a.flags.logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colour output")

	root.AddCommand(
		newTUICmd(a),
		newListCmd(a),
		newAddCmd(a),
		newRenameCmd(a),
		newToggleCmd(a),
		newPriorityCmd(a),
		newDeadlineCmd(a),
		newClearDeadlineCmd(a),
		newRemoveCmd(a),
		newServeCmd(a),
		newAuthCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads the config and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipLoad] != "" {
		a.cfg = config.Default()
		return nil
	}
	cfg, err := config.Load(a.flags.config)
	if err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "server":
			cfg.Server = a.flags.server
		case "token":
			cfg.Token = a.flags.token
		case "timeout":
			cfg.Timeout = a.flags.timeout
		case "theme":
			cfg.Theme = a.flags.theme
		case "log-file":
			cfg.LogFile = a.flags.logFile
		case "log-level":
			cfg.LogLevel = a.flags.logLevel
		}
	})
	if err := cfg.Finalize(); err != nil {
		return clierr.New(clierr.InvalidInput, err.Error())
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	if a.flags.noColor || os.Getenv("NO_COLOR") != "" {
		ui.SetNoColor(true)
	}
	return nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	return a.exitCode(err)
}

func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		return silent.Code
	}

	var cliErr *clierr.Error
	if a.flags.format == string(output.FormatJSON) {
		if errors.As(err, &cliErr) {
			output.JSONError(a.stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			return cliErr.ExitCode()
		}
		output.JSONError(a.stdout, clierr.InternalError, err.Error(), nil)
		return 2 //nolint:mnd // exit code 2 for internal errors
	}

	ui.Fail(a.stderr, err.Error())
	if errors.As(err, &cliErr) {
		return cliErr.ExitCode()
	}
	return 1
}

// newClient builds a client for the configured server and token.
func (a *app) newClient(logger *slog.Logger) (*client.Client, error) {
	store, err := a.creds()
	if err != nil {
		return nil, err
	}
	opts := []client.Option{client.WithTimeout(a.cfg.Timeout), client.WithLogger(logger)}
	ti, err := store.Resolve(a.cfg.Token)
	if err != nil {
		return nil, err
	}
	if ti != nil {
		if ti.Expired(a.now()) {
			fmt.Fprintln(a.stderr, ui.Current().Pending.Render("warning: token expired, run: todo auth login"))
		}
		opts = append(opts, client.WithToken(ti.Token))
	}
	c, err := client.New(a.cfg.Server, opts...)
	if err != nil {
		return nil, clierr.New(clierr.InvalidInput, err.Error())
	}
	return c, nil
}

func (a *app) creds() (*auth.Store, error) {
	dir := a.credsDir
	if dir == "" {
		d, err := auth.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return auth.NewStore(dir), nil
}

// requestErr turns a client failure into a coded error.
func requestErr(err error) error {
	var se *client.StatusError
	if !errors.As(err, &se) {
		return clierr.Newf(clierr.RequestFailed, "%v", err)
	}
	code := clierr.RequestFailed
	switch se.StatusCode {
	case 404:
		code = clierr.TodoNotFound
	case 401:
		code = clierr.Unauthorized
	}
	msg := se.Message
	if msg == "" {
		msg = se.Error()
	}
	return clierr.New(code, msg).WithDetails(map[string]any{"status": se.StatusCode})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, clierr.Newf(clierr.InvalidTodoID, "invalid todo id %q", s)
	}
	return id, nil
}
