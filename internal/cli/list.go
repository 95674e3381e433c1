package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/formpath/formpath/pkg/catalog"
	"github.com/formpath/formpath/pkg/schema"
)

func newListCmd(flags *rootFlags) *cobra.Command {
	var (
		category string
		search   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse and search the form catalog",
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
			forms := registry.Search(search, category)
			if len(forms) == 0 {
				printInfo("no forms match")
				return nil
			}

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, form := range forms {
				printNewline()
				fmt.Println(styleTitle.Render(form.ID) + " " + styleValue.Render(form.Title))
				printDetail("%s", form.Description)
				printKeyValue(t.category, form.Category)
				printKeyValue(t.estTime, form.EstimatedTime)
				printKeyValue(t.difficulty, form.Difficulty)
				printKeyValue(t.fee, form.FilingFee)

				answers, found, err := st.Load(ctx, form.ID)
				if err != nil {
					logger.Debug("could not read saved answers", "form", form.ID, "error", err)
					continue
				}
				if found {
					ready := schema.Readiness(form.Document, answers)
					printKeyValue(t.savedProgress, fmt.Sprintf("%d%% %s", ready, t.complete))
				}
			}
			printNewline()
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&search, "search", "", "filter by id, title, or description")
	return cmd
}
