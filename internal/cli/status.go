package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/app"
)

func newToggleCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Переключить статус заказа",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return opts.withLedger(func(deps *app.Dependencies) error {
				deps.Store.ToggleStatus(id)
				order, ok := deps.Store.Get(id)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", dimStyle.Render(fmt.Sprintf("заказ с id %d не найден", id)))
					return nil
				}
				status := pendingStyle.Render("pendente")
				if order.Completed {
					status = doneStyle.Render("finalizado")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  заказ №%d: %s\n", order.Number, status)
				return nil
			})
		},
	}
}

func newRemoveCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Удалить заказ из журнала",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return opts.withLedger(func(deps *app.Dependencies) error {
				out := cmd.OutOrStdout()
				order, ok := deps.Store.Get(id)
				if !ok {
					fmt.Fprintf(out, "  %s\n", dimStyle.Render(fmt.Sprintf("заказ с id %d не найден", id)))
					return nil
				}
				if !yes {
					fmt.Fprintf(out, "Удалить заказ №%d (%s)? [s/N] ", order.Number, order.ClientName)
					if !confirmed(bufio.NewReader(cmd.InOrStdin())) {
						fmt.Fprintln(out, dimStyle.Render("отменено"))
						return nil
					}
				}
				deps.Store.Remove(id)
				fmt.Fprintf(out, "  %s заказ №%d удалён\n", doneStyle.Render("✓"), order.Number)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Не спрашивать подтверждение")
	return cmd
}

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func confirmed(r *bufio.Reader) bool {
	line, _ := r.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}
