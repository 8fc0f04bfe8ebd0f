package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// filterFlags — общие флаги выборки для list и export.
type filterFlags struct {
	status string
	name   string
	from   string
	to     string
}

func (f *filterFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", "all", "Статус: all, completed, pending")
	cmd.Flags().StringVar(&f.name, "q", "", "Подстрока имени клиента, без учёта регистра")
	cmd.Flags().StringVar(&f.from, "from", "", "Дата создания от (YYYY-MM-DD), включительно")
	cmd.Flags().StringVar(&f.to, "to", "", "Дата создания до (YYYY-MM-DD), включительно")
}

func (f *filterFlags) filter() (domain.Filter, error) {
	status, err := domain.ParseStatusFilter(f.status)
	if err != nil {
		return domain.Filter{}, err
	}
	out := domain.Filter{Status: status, NameQuery: f.name}
	if out.DateFrom, err = parseDateFlag("from", f.from); err != nil {
		return domain.Filter{}, err
	}
	if out.DateTo, err = parseDateFlag("to", f.to); err != nil {
		return domain.Filter{}, err
	}
	return out, nil
}

func parseDateFlag(name, raw string) (domain.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Date{}, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return domain.Date{}, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
