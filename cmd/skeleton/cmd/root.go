package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/x/term"
	"github.com/go-kit/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tormodhaugland/skeleton/internal/config"
	"github.com/tormodhaugland/skeleton/internal/console"
	"github.com/tormodhaugland/skeleton/internal/logger"
	"github.com/tormodhaugland/skeleton/internal/skeleton"
	"github.com/tormodhaugland/skeleton/internal/tui"
)

// shownError marks an error the step log has already rendered.
type shownError struct {
	err error
}

func (e *shownError) Error() string { return e.err.Error() }
func (e *shownError) Unwrap() error { return e.err }

// RootCmd builds the command tree. Each call has its own viper instance.
func RootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "skeleton <dest>",
		Short: "Create a project from a skeleton template",
		Long: heredoc.Doc(`
			skeleton copies a template project into <dest>, applies the
			rename rules and presets of the template source, draws the
			resulting tree and installs dependencies with the package
			manager of your choice.

			Every flag can also be set with a SKELETON_ environment
			variable, for example SKELETON_SOURCE or SKELETON_NO_INSTALL.

			A destination named like a subcommand must carry a path
			prefix: use "skeleton ./tree" to create a project called tree.
		`),
		Example: heredoc.Doc(`
			skeleton my-game
			skeleton my-game --variant js --preset tailwind --manager pnpm
			skeleton tree --preset tailwind
			skeleton ./version
		`),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, v, args[0])
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (default: ~/.config/skeleton/config.json)")
	pf.String("source", "", "template source directory")
	pf.String("variant", "", "template variant (ts or js)")
	pf.StringSlice("preset", nil, "preset to layer on top of the variant (repeatable)")
	pf.Bool("no-conflicts", false, "overwrite existing files instead of reporting them")
	pf.String("log-file", "", "write diagnostics to this file")
	pf.String("log-level", "", "diagnostic log level (debug, info, warn, error)")
	pf.String("log-format", "", "diagnostic log format (logfmt or json)")

	f := cmd.Flags()
	f.String("manager", "", "package manager (npm, yarn, pnpm, bun)")
	f.Bool("no-install", false, "skip dependency installation")
	f.BoolP("yes", "y", false, "accept defaults instead of prompting")

	v.SetEnvPrefix("SKELETON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(pf)
	_ = v.BindPFlags(f)
	_ = v.BindEnv("log-stderr")

	cmd.AddCommand(treeCmd(v))
	cmd.AddCommand(versionCmd())
	return cmd
}

// Execute runs the root command and prints any error the step log has not
// already shown.
func Execute() error {
	err := RootCmd().Execute()
	var shown *shownError
	if err != nil && !errors.As(err, &shown) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// loadConfig reads the config file and layers set flags and environment
// variables on top.
func loadConfig(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.Load(v.GetString("config"))
	if err != nil {
		return nil, err
	}

	if v.IsSet("source") {
		cfg.SourceDir = config.ExpandHome(v.GetString("source"))
	}
	if v.IsSet("variant") {
		cfg.Variant = v.GetString("variant")
	}
	if v.IsSet("preset") {
		cfg.Presets = v.GetStringSlice("preset")
	}
	if v.IsSet("manager") {
		cfg.Manager = v.GetString("manager")
	}
	if v.GetBool("no-conflicts") {
		cfg.DetectConflicts = false
	}
	if v.IsSet("log-file") {
		cfg.LogFile = config.ExpandHome(v.GetString("log-file"))
	}
	if v.IsSet("log-level") {
		cfg.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-format") {
		cfg.LogFormat = v.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(v *viper.Viper, cfg *config.Config) (log.Logger, io.Closer, error) {
	opts := logger.Options{File: cfg.LogFile, Level: cfg.LogLevel, Format: cfg.LogFormat}
	if v.GetBool("log-stderr") {
		opts.Stderr = os.Stderr
	}
	return logger.New(afero.NewOsFs(), opts)
}

// newFall binds the step log to out. Prompts are only offered when both
// ends are a terminal.
func newFall(out io.Writer) *console.Fall {
	var opts []console.FallOption
	if f, ok := out.(*os.File); ok && term.IsTerminal(f.Fd()) && term.IsTerminal(os.Stdin.Fd()) {
		opts = append(opts, console.WithPrompter(tui.NewPrompter(os.Stdin, f)))
	}
	return console.NewFall(console.NewSession(out), opts...)
}

func runCreate(cmd *cobra.Command, v *viper.Viper, dest string) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	lg, closer, err := newLogger(v, cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fall := newFall(out)
	creator := skeleton.New(afero.NewOsFs(), fall, lg)

	opts := skeleton.Options{
		Dest:            dest,
		SourceDir:       cfg.SourceDir,
		Variant:         cfg.Variant,
		Presets:         cfg.Presets,
		Manager:         cfg.Manager,
		DetectConflicts: cfg.DetectConflicts,
		NoInstall:       v.GetBool("no-install"),
		Yes:             v.GetBool("yes"),
	}

	result, err := creator.Create(ctx, opts)
	if err != nil {
		return &shownError{err: err}
	}

	if !opts.NoInstall {
		if err := creator.Install(ctx, result.Dest, result.Manager); err != nil {
			return &shownError{err: err}
		}
	}

	fmt.Fprintf(out, "Project created at %s\n", fall.Highlight(result.Dest))
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
