// Package main provides the argshell CLI application entry point.
// argshell declares commands whose parameters are typed by their name suffix
// and parses command lines against them.
package main

import (
	gocontext "context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"argshell/internal/context"
	"argshell/internal/logger"
	"argshell/internal/services"
	"argshell/internal/shell"
	"argshell/internal/store"
	"argshell/internal/version"
)

// session holds what the subcommands share once setup ran.
type session struct {
	store       store.Store
	types       *services.ArgumentTypeService
	definitions *services.DefinitionService
	commands    *services.CommandService
	markdown    *services.MarkdownService
}

func (s *session) close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree with its own configuration.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var sess *session

	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   "argshell",
		Short: "argshell - typed command arguments from parameter names",
		Long: `argshell declares commands whose parameters are typed by the suffix of their
name (where_pos, coat_level, wall_shade) and parses command lines against them.
Custom argument types are configured per application in YAML definition files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			s, err := setupSession(v)
			if err != nil {
				return err
			}
			sess = s
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return sess.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file [default: ./argshell.yaml]")
	flags.String("log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String("log-file", "", "Write logs to file instead of stderr")
	flags.Bool("test-mode", false, "Run in deterministic test mode")
	flags.String("app", "", "Application whose types and commands are used")
	flags.String("definitions", "", "Definition file applied at startup")
	flags.String("store", "", "Definition store URL (memory://, file://<dir>, redis://...)")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address in shell mode")

	// Bind flags to viper
	for _, name := range []string{"config", "log-level", "log-file", "test-mode", "app", "definitions", "store", "metrics-addr"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", name, err)
			os.Exit(1)
		}
	}

	rootCmd.AddCommand(
		newShellCmd(v),
		newTypesCmd(&sess),
		newResolveCmd(&sess),
		newSuggestCmd(&sess),
		newCheckCmd(&sess),
		newRunCmd(&sess),
		newSaveCmd(&sess),
		newVersionCmd(),
	)
	return rootCmd
}

// initConfig loads .env, the config file and ARGSHELL_* environment
// variables, then configures the logger.
func initConfig(v *viper.Viper) error {
	_ = godotenv.Load()

	v.SetEnvPrefix("ARGSHELL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("argshell")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "argshell"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := logger.Configure(v.GetString("log-level"), v.GetString("log-file"), v.GetBool("test-mode")); err != nil {
		return fmt.Errorf("error configuring logger: %w", err)
	}
	return nil
}

// setupSession initializes services, selects the application, restores its
// stored types and applies the startup definition file.
func setupSession(v *viper.Viper) (s *session, err error) {
	st, err := store.Open(v.GetString("store"))
	if err != nil {
		return nil, err
	}
	s = &session{store: st}
	defer func() {
		if err != nil {
			_ = st.Close()
		}
	}()

	if err := shell.InitializeServices(v.GetBool("test-mode"), st); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	if s.types, err = services.GetGlobalArgumentTypeService(); err != nil {
		return nil, err
	}
	if s.definitions, err = services.GetGlobalDefinitionService(); err != nil {
		return nil, err
	}
	if s.commands, err = services.GetGlobalCommandService(); err != nil {
		return nil, err
	}
	if s.markdown, err = services.GetGlobalMarkdownService(); err != nil {
		return nil, err
	}

	if app := v.GetString("app"); app != "" {
		context.GetGlobalContext().SetCurrentApp(app)
	}
	if err := s.definitions.Restore(gocontext.Background(), ""); err != nil {
		logger.Warn("Stored definitions were not fully restored", "error", err)
	}
	if path := v.GetString("definitions"); path != "" {
		file, err := s.definitions.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if err := s.definitions.Apply("", file); err != nil {
			logger.Warn("Definition file applied with errors", "file", path, "error", err)
		}
	}
	return s, nil
}

func runShell(_ *cobra.Command, v *viper.Viper) error {
	logger.Info("Starting argshell", "version", version.Version, "app", context.GetGlobalContext().CurrentApp())

	history := ""
	if home, err := os.UserHomeDir(); err == nil && !v.GetBool("test-mode") {
		history = filepath.Join(home, ".argshell_history")
	}
	return shell.Run(shell.Options{
		HistoryFile: history,
		MetricsAddr: v.GetString("metrics-addr"),
	})
}

// shellCmd represents the shell command (explicit version of default behavior)
func newShellCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start interactive shell mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, v)
		},
	}
}

func newTypesCmd(sess **session) *cobra.Command {
	var asMarkdown bool
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the argument types of the application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := *sess
			rows, err := shell.Rows(s.types, "")
			if err != nil {
				return err
			}
			if !asMarkdown {
				fmt.Fprintln(cmd.OutOrStdout(), shell.TypesTable(rows))
				return nil
			}
			rendered, err := s.markdown.Render(shell.TypesMarkdown(context.GetGlobalContext().CurrentApp(), rows))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Render the listing as markdown")
	return cmd
}

func newResolveCmd(sess **session) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "resolve <param>...",
		Short: "Show the argument type each parameter name resolves to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			for _, param := range args {
				if strict {
					t, err := s.types.ResolveStrict("", param)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", param, t.Suffix())
					continue
				}
				t, origin, err := s.types.ResolveOrigin("", param)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", param, t.Suffix(), origin)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail instead of falling back to the default type")
	return cmd
}

func newSuggestCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <param> [prefix]",
		Short: "List the suggestions of a parameter",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 2 {
				prefix = args[1]
			}
			suggestions, err := (*sess).types.Suggest("", args[0], prefix)
			if err != nil {
				return err
			}
			for _, s := range suggestions {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newCheckCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a definition file",
		Long: `Apply a definition file to the application and report every type that fails
to build and every command parameter that falls back to the default type.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problems, err := checkDefinitions(*sess, args[0], cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if problems > 0 {
				return fmt.Errorf("%d problem(s) found in %s", problems, args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}

// checkDefinitions applies the file at path and writes one line per problem
// to out. It returns the number of problems found.
func checkDefinitions(s *session, path string, out io.Writer) (int, error) {
	file, err := s.definitions.LoadFile(path)
	if err != nil {
		return 0, err
	}

	problems := 0
	if err := s.definitions.Apply("", file); err != nil {
		if errors.Is(err, services.ErrIncompatibleVersion) {
			return 0, err
		}
		for _, e := range flatten(err) {
			fmt.Fprintf(out, "error: %s\n", e)
			problems++
		}
	}
	for _, c := range file.Commands {
		for _, param := range c.Params {
			if _, err := s.types.ResolveStrict("", param); err != nil {
				fmt.Fprintf(out, "warning: %s: parameter %s uses the default type: %s\n", c.Name, param, err)
				problems++
			}
		}
	}
	return problems, nil
}

// flatten lists the errors collected in err.
func flatten(err error) []error {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		return merr.WrappedErrors()
	}
	return []error{err}
}

func newRunCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "run <command line>",
		Short: "Parse one command line and print its argument values",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *sess
			line := strings.Join(args, " ")
			values, err := s.commands.Execute("", line)
			if err != nil {
				name, _, _ := strings.Cut(strings.TrimSpace(line), " ")
				if c, cerr := s.commands.Command("", name); cerr == nil {
					return fmt.Errorf("%w\nUsage: %s", err, c.Usage())
				}
				return err
			}
			for _, v := range values {
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", v.Param, v.Value)
			}
			return nil
		},
	}
}

func newSaveCmd(sess **session) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Persist the application's custom types to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := *sess
			if err := s.definitions.Persist(cmd.Context(), ""); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d types of %s\n",
				len(s.definitions.Applied("")), context.GetGlobalContext().CurrentApp())
			return nil
		},
	}
}

// versionCmd represents the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
			return nil
		},
	}
}
