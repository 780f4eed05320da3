package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/labcheck/internal/config"
)

// RootOptions holds the global flags and the configuration they resolve to.
type RootOptions struct {
	ConfigPath string
	Config     config.Config
}

// NewRootCommand creates the labcheck command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "labcheck",
		Short:         "Daily checklist reports for a lab department",
		Long:          "labcheck keeps a dated catalog of doctors, blocks and tasks and the daily checklist reports filed against it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", config.DefaultPath, "YAML config file; environment variables override it")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewAdminCommand(opts))
	cmd.AddCommand(NewImportLegacyCommand(opts))
	cmd.AddCommand(NewExportDayCommand(opts))

	return cmd
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts.Config)
		},
	}
}

func NewAdminCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage administrator accounts",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reset-password [login]",
		Short: "Replace a password with a temporary one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, func(s *store) error {
				return resetPassword(s, loginArg(rootOpts, args), cmd.OutOrStdout())
			})
		},
	})

	var passwordStdin bool
	setPasswordCmd := &cobra.Command{
		Use:   "set-password [login]",
		Short: "Set a password, creating the first administrator if needed",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				password string
				err      error
			)
			if passwordStdin {
				password, err = readPasswordLine(cmd.InOrStdin())
			} else {
				password, err = promptNewPassword(os.Stdin, cmd.ErrOrStderr())
			}
			if err != nil {
				return err
			}
			return withStore(rootOpts, func(s *store) error {
				return setPassword(s, loginArg(rootOpts, args), password, cmd.OutOrStdout())
			})
		},
	}
	setPasswordCmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from the first line of stdin")
	cmd.AddCommand(setPasswordCmd)

	return cmd
}

func NewImportLegacyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import-legacy <dir>",
		Short: "Import state-initial.json and day-*.json files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(rootOpts, func(s *store) error {
				return importLegacyDirectory(s, args[0], cmd.OutOrStdout())
			})
		},
	}
}

func NewExportDayCommand(rootOpts *RootOptions) *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export-day [date]",
		Short: "Write the reports of a day as a day document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := ""
			if len(args) == 1 {
				day = args[0]
			}
			return withStore(rootOpts, func(s *store) error {
				return exportDay(s, day, outputPath, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	return cmd
}

func withStore(rootOpts *RootOptions, run func(s *store) error) error {
	s, err := openStore(rootOpts.Config)
	if err != nil {
		return err
	}
	runErr := run(s)
	if err := s.Close(); err != nil && runErr == nil {
		return fmt.Errorf("close database: %w", err)
	}
	return runErr
}

func loginArg(rootOpts *RootOptions, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return rootOpts.Config.AdminLogin
}
