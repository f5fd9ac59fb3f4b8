package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/idilsaglam/todo-inline/internal/auth"
	"github.com/idilsaglam/todo-inline/internal/output"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the bearer token sent to the server",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Save a token",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				fmt.Fprint(a.stdout, "Paste your token: ")
				token, err := a.readSecret()
				fmt.Fprintln(a.stdout)
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				store, err := a.creds()
				if err != nil {
					return err
				}
				ti, err := store.Save(token, a.now())
				if err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK(a.stdout, "logged in")
				if ti.Expired(a.now()) {
					fmt.Fprintln(a.stdout, ui.Current().Pending.Render("note: this token has already expired"))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the saved token",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				store, err := a.creds()
				if err != nil {
					return err
				}
				if err := store.Delete(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK(a.stdout, "logged out")
				if a.cfg.Token != "" {
					fmt.Fprintln(a.stdout, ui.Current().Muted.Render("a token is still set through config, TODO_TOKEN or --token"))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the token comes from",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				store, err := a.creds()
				if err != nil {
					return err
				}
				ti, err := store.Resolve(a.cfg.Token)
				if err != nil {
					return err
				}
				if ti == nil {
					fmt.Fprintln(a.stdout, ui.Current().Muted.Render("not logged in"))
					fmt.Fprintln(a.stdout, "Run: todo auth login")
					return nil
				}
				fmt.Fprintf(a.stdout, "source: %s\n", ti.Source)
				switch {
				case ti.ExpiresAt == nil:
					fmt.Fprintln(a.stdout, "expires: (unknown)")
				case ti.Expired(a.now()):
					fmt.Fprintf(a.stdout, "expires: %s (expired)\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
				default:
					fmt.Fprintf(a.stdout, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
				}
				fmt.Fprintln(a.stdout, "env override: TODO_TOKEN")
				return nil
			},
		},
		&cobra.Command{
			Use:   "whoami",
			Short: "Decode the token's claims locally",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				store, err := a.creds()
				if err != nil {
					return err
				}
				ti, err := store.Resolve(a.cfg.Token)
				if err != nil {
					return err
				}
				if ti == nil {
					return fmt.Errorf("not logged in, run: todo auth login")
				}
				claims, err := auth.Claims(ti.Token)
				if err != nil {
					fmt.Fprintln(a.stdout, "Opaque token (cannot introspect locally).")
					fmt.Fprintln(a.stdout, "source:", ti.Source)
					return nil
				}
				return output.JSON(a.stdout, claims)
			},
		},
	)
	return cmd
}

// readSecret reads one line, without echo when stdin is a terminal.
func (a *app) readSecret() (string, error) {
	if f, ok := a.stdin.(*os.File); ok && ui.IsTerminal(f) {
		b, err := term.ReadPassword(int(f.Fd()))
		return strings.TrimSpace(string(b)), err
	}
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
