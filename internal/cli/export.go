package cli

import (
	"github.com/spf13/cobra"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/errors"
	"github.com/formpath/formpath/pkg/export"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export <form-id>",
		Short: "Render saved answers to a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, t, err := flags.config()
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.Output.Dir
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
				return err
			}
			if !found {
				return errors.New(errors.ErrCodeFormNotFound,
					"no saved answers for %s, run `formpath fill %s` first", form.ID, form.ID)
			}

			exporter := export.New(referenceSource(cfg),
				export.WithStore(st),
				export.WithLogger(logger),
			)
			p := newProgress(logger)
			if err := runExport(ctx, exporter, form, answers, outDir, t); err != nil {
				return err
			}
			p.done("export complete")
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	return cmd
}
