// Package export превращает отфильтрованное представление журнала в CSV.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

const (
	// FileName — имя файла, под которым отдаётся выгрузка.
	FileName = "pedidos.csv"
	// ContentType — MIME-тип выгрузки.
	ContentType = "text/csv; charset=utf-8"

	header = "Numero,Nome,Peso (Kg),Valor,Data,Status"

	StatusCompleted = "Finalizado"
	StatusPending   = "Nao finalizado"
)

// WriteCSV пишет заголовок и по одной строке на заказ в порядке представления.
// Разделитель строк — '\n'; имя клиента всегда в кавычках, числа с двумя знаками.
func WriteCSV(w io.Writer, view []domain.Order) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header + "\n"); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, order := range view {
		if _, err := bw.WriteString(row(order) + "\n"); err != nil {
			return fmt.Errorf("write csv row %d: %w", order.Number, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// CSV возвращает выгрузку строкой.
func CSV(view []domain.Order) string {
	var sb strings.Builder
	// strings.Builder не возвращает ошибок записи.
	_ = WriteCSV(&sb, view)
	return sb.String()
}

func row(o domain.Order) string {
	weight := ""
	if o.WeightKg.Valid {
		weight = o.WeightKg.Decimal.StringFixed(2)
	}
	status := StatusPending
	if o.Completed {
		status = StatusCompleted
	}
	return strings.Join([]string{
		strconv.Itoa(o.Number),
		quote(o.ClientName),
		weight,
		o.ValueAmount.StringFixed(2),
		o.CreatedDate.String(),
		status,
	}, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
