// Package cli implements the formpath command-line interface.
//
// Commands:
//   - list: browse and search the form catalog
//   - quiz: answer one question to find the right form
//   - fill: run the guided question flow for a form
//   - export: render saved answers to a PDF
//   - clear: discard saved answers for a form
//
// All commands support --verbose (-v) for debug-level logging and --config for
// an explicit config file. Loggers travel through context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/formpath/formpath/pkg/buildinfo"
	"github.com/formpath/formpath/pkg/errors"
)

// rootFlags carries the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	lang       string
}

// config loads the configuration, applies the --lang override, and returns the
// matching message catalog.
func (f *rootFlags) config() (Config, messages, error) {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return cfg, messages{}, err
	}
	if f.lang != "" {
		if f.lang != "en" && f.lang != "es" {
			return cfg, messages{}, errors.New(errors.ErrCodeInvalidConfig,
				"unsupported lang %q (want en or es)", f.lang)
		}
		cfg.Lang = f.lang
	}
	return cfg, msgs(cfg.Lang), nil
}

// Execute runs the formpath CLI and returns an error if any command fails.
func Execute(ctx context.Context) error {
	var (
		verbose bool
		flags   rootFlags
	)

	root := &cobra.Command{
		Use:          "formpath",
		Short:        "FormPath guides you through immigration forms",
		Long:         `FormPath is a guided assistant for U.S. immigration forms: answer plain-language questions one at a time, save your progress, and export a filled PDF when you are done.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default ~/.config/formpath/formpath.toml)")
	root.PersistentFlags().StringVar(&flags.lang, "lang", "", "interface language: en or es (overrides config)")

	root.AddCommand(newListCmd(&flags))
	root.AddCommand(newQuizCmd(&flags))
	root.AddCommand(newFillCmd(&flags))
	root.AddCommand(newExportCmd(&flags))
	root.AddCommand(newClearCmd(&flags))

	return root.ExecuteContext(ctx)
}
