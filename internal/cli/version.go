package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию сборки",
		Args:  cobra.NoArgs,
		// Версия не требует конфига.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Banner())
			return nil
		},
	}
}
