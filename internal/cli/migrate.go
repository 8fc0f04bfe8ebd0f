package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/ledger"
	"github.com/vladislavdragonenkov/pedidos/internal/storage/jsonfile"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Перевести файл журнала в текущую версию формата",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := opts.cfg.DataFile
			if path == "" {
				return errors.New("migrate requires a data file (--data or data_file)")
			}
			out := cmd.OutOrStdout()

			switch strings.ToLower(strings.TrimSpace(direction)) {
			case "status":
				status, _, err := jsonfile.Inspect(path)
				if err != nil {
					return fmt.Errorf("migration status failed: %w", err)
				}
				fmt.Fprintf(out, "migration status: schema=%d current=%t orders=%d last_id=%d skipped=%d\n",
					status.SchemaVersion, status.Current(), status.Orders, status.LastID, status.Skipped)
			case "up":
				loc, err := opts.cfg.Location()
				if err != nil {
					return err
				}
				repair := func(s domain.Snapshot) domain.Snapshot {
					return ledger.New(s, ledger.WithLocation(loc)).Snapshot()
				}
				before, after, err := jsonfile.Migrate(path, repair)
				if err != nil {
					return fmt.Errorf("migrate up failed: %w", err)
				}
				fmt.Fprintf(out, "migrate up ok: schema %d -> %d, orders=%d\n",
					before.SchemaVersion, after.SchemaVersion, after.Orders)
			default:
				return fmt.Errorf("unsupported direction: %s (use up|status)", direction)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "status", "up|status")
	return cmd
}
