package cli

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
	"github.com/vladislavdragonenkov/pedidos/internal/query"
)

var (
	accent  = lipgloss.Color("#D97706")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	warning = lipgloss.Color("#F59E0B")
	danger  = lipgloss.Color("#EF4444")
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	doneStyle    = lipgloss.NewStyle().Foreground(success)
	pendingStyle = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)
	totalsStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)
)

const (
	colID     = 6
	colNumber = 8
	colClient = 24
	colWeight = 12
	colValue  = 16
	colDate   = 12
)

// renderTable рисует представление журнала таблицей.
func renderTable(view []domain.Order, currency string) string {
	if len(view) == 0 {
		return "  " + dimStyle.Render("Нет заказов.") + "\n"
	}

	var b strings.Builder
	header := padRight("ID", colID) + padRight("Номер", colNumber) + padRight("Cliente", colClient) +
		padRight("Peso", colWeight) + padRight("Valor", colValue) + padRight("Data", colDate) + "Status"
	b.WriteString("  " + headerStyle.Render(header) + "\n")
	b.WriteString("  " + dimStyle.Render(strings.Repeat("─", utf8.RuneCountInString(header)+4)) + "\n")

	for _, o := range view {
		status := pendingStyle.Render("pendente")
		if o.Completed {
			status = doneStyle.Render("finalizado")
		}
		b.WriteString("  ")
		b.WriteString(padRight(strconv.FormatInt(o.ID, 10), colID))
		b.WriteString(padRight(strconv.Itoa(o.Number), colNumber))
		b.WriteString(padRight(truncate(o.ClientName, colClient-2), colClient))
		b.WriteString(padRight(query.FormatWeight(o.WeightKg), colWeight))
		b.WriteString(padRight(formatMoney(o.ValueAmount, currency), colValue))
		b.WriteString(padRight(o.CreatedDate.String(), colDate))
		b.WriteString(status)
		b.WriteString("\n")
	}
	return b.String()
}

// renderTotals рисует блок итогов под таблицей.
func renderTotals(count int, totals query.Totals, currency string) string {
	lines := []string{
		fmt.Sprintf("Заказов:   %d", count),
		"Сумма:     " + formatMoney(totals.TotalValue, currency),
		"Вес:       " + query.FormatWeight(decimal.NewNullDecimal(totals.TotalWeight)),
		"Комиссия:  " + formatMoney(totals.CommissionAmount, currency),
	}
	return totalsStyle.Render(strings.Join(lines, "\n")) + "\n"
}

// renderValidation печатает ошибки полей черновика по одной на строку.
func renderValidation(errs domain.ValidationErrors) string {
	var b strings.Builder
	for _, fe := range errs {
		b.WriteString("  " + errorStyle.Render("✗") + " " + string(fe.Field) + ": " + string(fe.Reason) + "\n")
	}
	return b.String()
}

func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-n)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-1]) + "…"
}
