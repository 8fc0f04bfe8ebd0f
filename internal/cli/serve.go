package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/app"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API, метрики и gRPC health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.Run(cmd.Context(), opts.cfg); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
