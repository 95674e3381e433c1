package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/export"
	"github.com/formpath/formpath/pkg/schema"
	"github.com/formpath/formpath/pkg/wizard"
)

func newFillCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "fill <form-id>",
		Short: "Run the guided question flow for a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, t, err := flags.config()
			if err != nil {
				return err
			}

			registry, err := catalog.Default()
			if err != nil {
				return err
			}
			form, err := registry.Get(args[0])
			if err != nil {
				return err
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			answers, found, err := st.Load(ctx, form.ID)
			if err != nil {
				logger.Warn("could not read saved answers, starting fresh", "err", err)
			}
			if !found || answers == nil {
				answers = schema.AnswerSet{}
			} else {
				printInfo("%s", t.savedProgress)
			}

			ctrl := wizard.New(form.Document,
				answers,
				wizard.WithSaver(st),
				wizard.WithLogger(logger),
			)

			model := newWizardModel(ctx, form, ctrl, t)
			out, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			done := out.(*wizardModel)
			if done.aborted {
				printNewline()
				printInfo("%s", t.savedProgress)
				printDetail("resume anytime with %s", styleHighlight.Render("formpath fill "+form.ID))
				return nil
			}

			printNewline()
			printSuccess("%s", t.formReady)

			exporter := export.New(referenceSource(cfg),
				export.WithStore(st),
				export.WithLogger(logger),
			)
			return runExport(ctx, exporter, form, ctrl.Answers(), cfg.Output.Dir, t)
		},
	}
}

// runExport produces the PDF with a spinner and prints the outcome. Shared by
// the fill and export commands.
func runExport(ctx context.Context, exporter *export.Exporter, form *catalog.Form, answers schema.AnswerSet, outDir string, t messages) error {
	spinner := newSpinnerWithContext(ctx, "rendering "+form.ID)
	spinner.Start()
	result, err := exporter.Export(ctx, form, answers, outDir)
	spinner.Stop()
	if err != nil {
		return err
	}

	if result.Strategy == export.StrategyReport {
		printInfo("reference form unavailable, wrote a summary instead")
	}
	printFile(result.Path)

	if len(form.NextSteps) > 0 {
		printNewline()
		fmt.Println(styleTitle.Render(t.nextSteps))
		for _, step := range form.NextSteps {
			printDetail("%s %s", iconArrow, step)
		}
	}
	printNewline()
	return nil
}
