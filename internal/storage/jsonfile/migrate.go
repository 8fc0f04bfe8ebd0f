package jsonfile

import (
	"bytes"
	"fmt"
	"os"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// LegacySchemaVersion — голый массив записей старого веб-приложения.
const LegacySchemaVersion = 0

// Status описывает файл журнала на диске.
type Status struct {
	SchemaVersion int
	Orders        int
	LastID        int64
	// Skipped — записи старого формата, которые нельзя перенести.
	Skipped int
}

// Current сообщает, записан ли файл в текущей версии формата.
func (s Status) Current() bool { return s.SchemaVersion == SchemaVersion }

// Inspect строго читает файл и возвращает его версию формата. В отличие от Load,
// ошибки чтения и разбора возвращаются вызывающему.
func Inspect(path string) (Status, domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Status{}, domain.Snapshot{}, fmt.Errorf("read ledger file: %w", err)
	}
	snapshot, report, err := DecodeWithReport(bytes.NewReader(data))
	if err != nil {
		return Status{}, domain.Snapshot{}, err
	}

	status := Status{
		SchemaVersion: SchemaVersion,
		Orders:        len(snapshot.Orders),
		LastID:        snapshot.LastID,
		Skipped:       len(report.Skipped),
	}
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		status.SchemaVersion = LegacySchemaVersion
	}
	return status, snapshot, nil
}

// Migrate переписывает файл в текущей версии формата. Файл, уже записанный
// в текущей версии, не трогается. Если часть записей перенести нельзя, исходник
// сохраняется рядом как <path>.legacy-<время>. normalize (может быть nil) применяется к снимку
// перед записью, например чтобы починить дубли номеров.
func Migrate(path string, normalize func(domain.Snapshot) domain.Snapshot) (before, after Status, err error) {
	before, snapshot, err := Inspect(path)
	if err != nil {
		return Status{}, Status{}, err
	}
	if before.Current() {
		return before, before, nil
	}
	if before.Skipped > 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return before, Status{}, fmt.Errorf("read ledger file: %w", err)
		}
		if _, err := copyAside(path, "legacy", data); err != nil {
			return before, Status{}, fmt.Errorf("keep legacy original: %w", err)
		}
	}
	if normalize != nil {
		snapshot = normalize(snapshot)
	}
	if err := WriteFile(path, snapshot); err != nil {
		return before, Status{}, err
	}
	return before, Status{SchemaVersion: SchemaVersion, Orders: len(snapshot.Orders), LastID: snapshot.LastID}, nil
}
