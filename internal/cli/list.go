package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/app"
	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/query"
)

type listJSON struct {
	Count  int         `json:"count"`
	Orders []orderJSON `json:"orders"`
	Totals totalsJSON  `json:"totals"`
}

type orderJSON struct {
	ID          int64   `json:"id"`
	Number      int     `json:"number"`
	ClientName  string  `json:"clientName"`
	Description string  `json:"description"`
	WeightKg    *string `json:"weightKg"`
	ValueAmount string  `json:"valueAmount"`
	Completed   bool    `json:"completed"`
	CreatedDate string  `json:"createdDate"`
}

type totalsJSON struct {
	TotalValue       string `json:"totalValue"`
	TotalWeight      string `json:"totalWeight"`
	CommissionAmount string `json:"commissionAmount"`
}

func newListCmd(opts *globalOptions) *cobra.Command {
	var (
		filters    filterFlags
		commission string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Показать заказы с фильтрами и итогами",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := filters.filter()
			if err != nil {
				return err
			}
			return opts.withLedger(func(deps *app.Dependencies) error {
				view := query.Apply(deps.Store.List(), filter)
				totals := query.Aggregate(view, commission)

				out := cmd.OutOrStdout()
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(toListJSON(view, totals))
				}
				fmt.Fprint(out, renderTable(view, opts.cfg.Currency))
				fmt.Fprint(out, renderTotals(len(view), totals, opts.cfg.Currency))
				return nil
			})
		},
	}

	filters.bind(cmd)
	cmd.Flags().StringVar(&commission, "commission", "", "Процент комиссии от суммы представления")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Вывести JSON вместо таблицы")
	return cmd
}

func toListJSON(view []domain.Order, totals query.Totals) listJSON {
	orders := make([]orderJSON, 0, len(view))
	for _, o := range view {
		item := orderJSON{
			ID:          o.ID,
			Number:      o.Number,
			ClientName:  o.ClientName,
			Description: o.Description,
			ValueAmount: query.FormatAmount(o.ValueAmount),
			Completed:   o.Completed,
			CreatedDate: o.CreatedDate.String(),
		}
		if o.HasWeight() {
			w := query.FormatAmount(o.WeightKg.Decimal)
			item.WeightKg = &w
		}
		orders = append(orders, item)
	}
	return listJSON{
		Count:  len(view),
		Orders: orders,
		Totals: totalsJSON{
			TotalValue:       query.FormatAmount(totals.TotalValue),
			TotalWeight:      query.FormatAmount(totals.TotalWeight),
			CommissionAmount: query.FormatAmount(totals.CommissionAmount),
		},
	}
}
