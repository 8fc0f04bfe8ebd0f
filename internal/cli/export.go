package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/app"
	"github.com/vladislavdragonenkov/pedidos/internal/export"
	"github.com/vladislavdragonenkov/pedidos/internal/query"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var (
		filters filterFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузить текущее представление в CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filters.filter()
			if err != nil {
				return err
			}
			return opts.withLedger(func(deps *app.Dependencies) error {
				view := query.Apply(deps.Store.List(), filter)
				if output == "-" {
					return export.WriteCSV(cmd.OutOrStdout(), view)
				}
				if err := os.WriteFile(output, []byte(export.CSV(view)), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %d заказов → %s\n", doneStyle.Render("✓"), len(view), output)
				return nil
			})
		},
	}

	filters.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", export.FileName, `Файл CSV; "-" для stdout`)
	return cmd
}
