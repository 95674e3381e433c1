package cli

import (
	"github.com/spf13/cobra"

	"github.com/formpath/formpath/pkg/catalog"
)

func newClearCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <form-id>",
		Short: "Discard saved answers for a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, _, err := flags.config()
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

			if err := st.Clear(ctx, form.ID); err != nil {
				return err
			}
			printSuccess("cleared saved answers for %s", form.ID)
			return nil
		},
	}
}
