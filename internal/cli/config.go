package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo-inline/internal/clierr"
	"github.com/idilsaglam/todo-inline/internal/config"
	"github.com/idilsaglam/todo-inline/internal/ui"
)

const redacted = "********"

// skipLoad marks commands that run before a config file exists.
const skipLoad = "skip-config-load"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the configuration after the config file, environment and flags
have been applied. Tokens are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			eff := *a.cfg
			if eff.Token != "" {
				eff.Token = redacted
			}
			if eff.Serve.Token != "" {
				eff.Serve.Token = redacted
			}
			return eff.Write(a.stdout)
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file in use",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				if p := a.cfg.Path(); p != "" {
					fmt.Fprintln(a.stdout, p)
					return nil
				}
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, p+" (not found)")
				return nil
			},
		},
		&cobra.Command{
			Use:         "init",
			Short:       "Write a config file holding the defaults",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{skipLoad: "true"},
			RunE: func(*cobra.Command, []string) error {
				return a.initConfig()
			},
		},
	)
	return cmd
}

func (a *app) initConfig() error {
	path := a.flags.config
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil {
		return clierr.Newf(clierr.InvalidInput, "config file %s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	if err := config.Default().Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	ui.OK(a.stdout, "wrote "+path)
	return nil
}
