package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"design2prompt/internal/config"
)

func newConfigCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(opts.stdout, p)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.resolvedConfigPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(p); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Write(p, config.Default()); err != nil {
				return err
			}
			fmt.Fprintln(opts.stdout, "wrote", p)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func (o *rootOpts) resolvedConfigPath() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.Path()
}

func newSecretCmd(opts *rootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage database passwords in the OS keychain",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Store a secret read from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			value = []byte(strings.TrimRight(string(value), "\r\n"))
			if len(value) == 0 {
				return errors.New("empty secret")
			}
			return opts.secretStore().Set(args[0], value)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.secretStore().Delete(args[0])
		},
	})
	return cmd
}
