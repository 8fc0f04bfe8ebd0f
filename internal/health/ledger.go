package health

import (
	"fmt"
	"time"
)

// LedgerSource — журнал заказов в памяти процесса (ledger.Store).
type LedgerSource interface {
	Count() int
}

// Persistence — куда уходят снимки журнала.
type Persistence string

const (
	PersistenceFile   Persistence = "file"
	PersistenceMemory Persistence = "memory"
)

// LedgerChecker сообщает число заказов и режим хранения.
// Без журнала или без приёмника снимков сервис не готов.
type LedgerChecker struct {
	source      LedgerSource
	persistence Persistence
}

// NewLedgerChecker создаёт проверку журнала.
func NewLedgerChecker(source LedgerSource, persistence Persistence) *LedgerChecker {
	return &LedgerChecker{source: source, persistence: persistence}
}

// Check выполняет проверку.
func (c *LedgerChecker) Check() Check {
	start := time.Now()
	check := Check{Name: "ledger", Status: StatusUnhealthy}

	switch {
	case c.source == nil:
		check.Message = "ledger is not initialized"
	case c.persistence == "":
		check.Message = "ledger has no snapshot sink"
	default:
		check.Status = StatusHealthy
		check.Message = fmt.Sprintf("%d orders, %s", c.source.Count(), c.persistence)
	}

	check.DurationMs = time.Since(start).Milliseconds()
	return check
}
