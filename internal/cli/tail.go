package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/messaging/kafka"
)

const defaultTailGroup = "pedidos-tail"

var errNoBrokers = errors.New("kafka brokers are not configured (kafka.brokers or PEDIDOS_KAFKA_BROKERS)")

func newTailCmd(opts *globalOptions) *cobra.Command {
	var (
		group         string
		fromBeginning bool
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Читать ленту изменений журнала из Kafka",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(opts.cfg.Kafka.Brokers) == 0 {
				return errNoBrokers
			}

			out := cmd.OutOrStdout()
			currency := opts.cfg.Currency
			consumer, err := kafka.NewConsumer(opts.cfg.Kafka.Brokers, group, []string{opts.cfg.Kafka.Topic}, fromBeginning,
				func(_ context.Context, event *kafka.LedgerEvent) error {
					_, err := fmt.Fprintln(out, formatEvent(event, currency))
					return err
				})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := consumer.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return consumer.Stop()
		},
	}

	cmd.Flags().StringVar(&group, "group", defaultTailGroup, "Kafka consumer group")
	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "Читать топик с начала")
	return cmd
}

// formatEvent — одна строка ленты: время, тип, заказ, сумма, размер журнала.
func formatEvent(e *kafka.LedgerEvent, currency string) string {
	kind := headerStyle.Render(string(e.EventType))
	amount := e.ValueAmount
	if d, err := decimal.NewFromString(e.ValueAmount); err == nil {
		amount = formatMoney(d, currency)
	}
	return fmt.Sprintf("%s  %s  №%d %s  %s  %s",
		dimStyle.Render(e.Timestamp.UTC().Format("2006-01-02T15:04:05Z")), kind,
		e.Number, e.ClientName, amount, dimStyle.Render(fmt.Sprintf("(%d в журнале)", e.Orders)))
}
