package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/app"
	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/query"
)

// errInvalidOrder возвращается после того, как ошибки полей уже напечатаны.
var errInvalidOrder = errors.New("order rejected")

func newAddCmd(opts *globalOptions) *cobra.Command {
	var draft domain.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить заказ в журнал",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withLedger(func(deps *app.Dependencies) error {
				order, err := deps.Store.Add(draft)
				if err != nil {
					if verrs, ok := domain.AsValidationErrors(err); ok {
						fmt.Fprint(cmd.OutOrStdout(), renderValidation(verrs))
						return errInvalidOrder
					}
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "  %s заказ №%d (id %d) для %s: %s, %s\n",
					doneStyle.Render("✓"), order.Number, order.ID, order.ClientName,
					formatMoney(order.ValueAmount, opts.cfg.Currency), query.FormatWeight(order.WeightKg))
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&draft.Number, "number", "", "Номер заказа (учитывается при numbering=manual)")
	f.StringVar(&draft.ClientName, "client", "", "Имя клиента")
	f.StringVar(&draft.Description, "description", "", "Описание")
	f.StringVar(&draft.WeightKg, "weight", "", "Вес, кг (можно не указывать)")
	f.StringVar(&draft.ValueAmount, "value", "", "Сумма заказа")
	f.BoolVar(&draft.Completed, "completed", false, "Сразу отметить заказ завершённым")
	return cmd
}
