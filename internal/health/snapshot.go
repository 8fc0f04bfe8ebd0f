package health

import (
	"fmt"
	"time"
)

// SnapshotSource — то, что знает о последней записи журнала на диск (jsonfile.Writer).
type SnapshotSource interface {
	Err() error
	LastWrite() time.Time
}

// SnapshotChecker сообщает unhealthy, если последняя запись снимка не удалась:
// изменения в памяти есть, а на диске их нет.
type SnapshotChecker struct {
	source SnapshotSource
}

// NewSnapshotChecker создаёт проверку записи снимков.
func NewSnapshotChecker(source SnapshotSource) *SnapshotChecker {
	return &SnapshotChecker{source: source}
}

// Check выполняет проверку.
func (c *SnapshotChecker) Check() Check {
	check := Check{Name: "snapshot", Status: StatusHealthy}

	if err := c.source.Err(); err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
		return check
	}
	if last := c.source.LastWrite(); !last.IsZero() {
		check.Message = fmt.Sprintf("last write %s", last.UTC().Format(time.RFC3339))
	}
	return check
}
