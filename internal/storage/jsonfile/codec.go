// Package jsonfile хранит журнал заказов в одном JSON-файле.
//
// Формат (schema_version=1):
//
//	{"schema_version":1,"last_id":3,"orders":[{"id":1,"number":1,"client_name":"Ana",...}]}
//
// Decode также понимает формат старого веб-приложения — голый массив записей
// с полями numero/nome/descricao/peso/status/valor/data (schema 0).
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// SchemaVersion — текущая версия формата снимка.
const SchemaVersion = 1

type fileV1 struct {
	SchemaVersion int        `json:"schema_version"`
	LastID        int64      `json:"last_id"`
	Orders        []recordV1 `json:"orders"`
}

type recordV1 struct {
	ID          int64               `json:"id"`
	Number      int                 `json:"number"`
	ClientName  string              `json:"client_name"`
	Description string              `json:"description,omitempty"`
	WeightKg    decimal.NullDecimal `json:"weight_kg"`
	ValueAmount decimal.Decimal     `json:"value_amount"`
	Completed   bool                `json:"completed"`
	CreatedDate string              `json:"created_date"`
}

// Encode пишет снимок в w в формате текущей версии.
func Encode(w io.Writer, snapshot domain.Snapshot) error {
	out := fileV1{
		SchemaVersion: SchemaVersion,
		LastID:        snapshot.LastID,
		Orders:        make([]recordV1, 0, len(snapshot.Orders)),
	}
	for _, o := range snapshot.Orders {
		out.Orders = append(out.Orders, recordV1{
			ID:          o.ID,
			Number:      o.Number,
			ClientName:  o.ClientName,
			Description: o.Description,
			WeightKg:    o.WeightKg,
			ValueAmount: o.ValueAmount,
			Completed:   o.Completed,
			CreatedDate: o.CreatedDate.String(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("cannot encode ledger snapshot: %w", err)
	}
	return nil
}

// Decode читает снимок. Формат v1 читается строго: любая ошибка формата или
// нарушение инвариантов возвращается вызывающему. Записи старого формата, которые
// нельзя восстановить, пропускаются; их список возвращает DecodeWithReport.
func Decode(r io.Reader) (domain.Snapshot, error) {
	snapshot, _, err := DecodeWithReport(r)
	return snapshot, err
}

// Report — что было исправлено или пропущено при чтении старого формата.
type Report struct {
	// Skipped — ошибки по записям, не попавшим в снимок.
	Skipped []error
	// Repaired — число записей, у которых поля были исправлены.
	Repaired int
}

// Lossy сообщает, что часть исходных данных не попала в снимок.
func (r Report) Lossy() bool { return len(r.Skipped) > 0 }

// DecodeWithReport читает снимок как Decode и дополнительно возвращает отчёт по записям.
func DecodeWithReport(r io.Reader) (domain.Snapshot, Report, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Snapshot{}, Report{}, fmt.Errorf("cannot read ledger snapshot: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return domain.Snapshot{}, Report{}, errors.New("empty ledger snapshot")
	}

	var (
		snapshot domain.Snapshot
		report   Report
	)
	if data[0] == '[' {
		snapshot, report, err = decodeLegacy(data)
	} else {
		snapshot, err = decodeV1(data)
	}
	if err != nil {
		return domain.Snapshot{}, Report{}, err
	}

	if err := validate(snapshot); err != nil {
		return domain.Snapshot{}, Report{}, err
	}
	return snapshot, report, nil
}

func decodeV1(data []byte) (domain.Snapshot, error) {
	var in fileV1
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.Snapshot{}, fmt.Errorf("cannot parse ledger snapshot: %w", err)
	}
	if in.SchemaVersion != SchemaVersion {
		return domain.Snapshot{}, fmt.Errorf("%w: %d", domain.ErrUnsupportedSchema, in.SchemaVersion)
	}

	snapshot := domain.Snapshot{LastID: in.LastID, Orders: make([]domain.Order, 0, len(in.Orders))}
	for i, rec := range in.Orders {
		created, err := domain.ParseDate(rec.CreatedDate)
		if err != nil {
			return domain.Snapshot{}, fmt.Errorf("order[%d]: %w", i, err)
		}
		snapshot.Orders = append(snapshot.Orders, domain.Order{
			ID:          rec.ID,
			Number:      rec.Number,
			ClientName:  rec.ClientName,
			Description: rec.Description,
			WeightKg:    rec.WeightKg,
			ValueAmount: rec.ValueAmount,
			Completed:   rec.Completed,
			CreatedDate: created,
		})
	}
	return snapshot, nil
}

// legacyRecord — запись из localStorage старого веб-приложения.
// Вес там хранился свободным текстом, сумма — числом или строкой.
type legacyRecord struct {
	ID        int64           `json:"id"`
	Numero    int             `json:"numero"`
	Nome      string          `json:"nome"`
	Descricao string          `json:"descricao"`
	Peso      json.RawMessage `json:"peso"`
	Status    bool            `json:"status"`
	Valor     json.RawMessage `json:"valor"`
	Data      string          `json:"data"`
}

// decodeLegacy переносит записи старого формата. Нечитаемый вес становится
// «не указан», а исходный текст уходит в описание. Запись без имени, с
// неположительной или нечитаемой суммой либо без даты пропускается.
// Отсутствующие или повторные id и номера выдаются заново.
func decodeLegacy(data []byte) (domain.Snapshot, Report, error) {
	var in []legacyRecord
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.Snapshot{}, Report{}, fmt.Errorf("cannot parse legacy ledger: %w", err)
	}

	var (
		report    Report
		maxNumber int
	)
	snapshot := domain.Snapshot{Orders: make([]domain.Order, 0, len(in))}
	for _, rec := range in {
		if rec.ID > snapshot.LastID {
			snapshot.LastID = rec.ID
		}
		if rec.Numero > maxNumber {
			maxNumber = rec.Numero
		}
	}

	ids := make(map[int64]struct{}, len(in))
	for i, rec := range in {
		order, repaired, err := legacyOrder(rec)
		if err != nil {
			report.Skipped = append(report.Skipped, fmt.Errorf("legacy order[%d] id=%d: %w", i, rec.ID, err))
			continue
		}
		if _, dup := ids[order.ID]; dup || order.ID <= 0 {
			snapshot.LastID++
			order.ID = snapshot.LastID
			repaired = true
		}
		if order.Number <= 0 {
			maxNumber++
			order.Number = maxNumber
			repaired = true
		}
		ids[order.ID] = struct{}{}
		if repaired {
			report.Repaired++
		}
		snapshot.Orders = append(snapshot.Orders, order)
	}
	return snapshot, report, nil
}

func legacyOrder(rec legacyRecord) (domain.Order, bool, error) {
	name := strings.TrimSpace(rec.Nome)
	if name == "" {
		return domain.Order{}, false, domain.ErrClientNameRequired
	}
	created, err := domain.ParseDate(strings.TrimSpace(rec.Data))
	if err != nil {
		return domain.Order{}, false, err
	}
	value, err := parseLegacyDecimal(rec.Valor)
	if err != nil {
		return domain.Order{}, false, fmt.Errorf("invalid value: %w", err)
	}
	if !value.Valid || !value.Decimal.IsPositive() {
		return domain.Order{}, false, domain.ErrValueNotPositive
	}

	order := domain.Order{
		ID:          rec.ID,
		Number:      rec.Numero,
		ClientName:  name,
		Description: rec.Descricao,
		ValueAmount: value.Decimal,
		Completed:   rec.Status,
		CreatedDate: created,
	}

	repaired := false
	weight, err := parseLegacyDecimal(rec.Peso)
	if err != nil || (weight.Valid && weight.Decimal.IsNegative()) {
		order.Description = appendNote(order.Description, "peso: "+legacyText(rec.Peso))
		repaired = true
	} else {
		order.WeightKg = weight
	}
	return order, repaired, nil
}

// parseLegacyDecimal принимает число или строку ("", "2,5", "2.5"); пустое значение — Valid=false.
func parseLegacyDecimal(raw json.RawMessage) (decimal.NullDecimal, error) {
	text := legacyText(raw)
	text = strings.TrimSpace(strings.Replace(text, ",", ".", 1))
	if text == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("%q is not a number", text)
	}
	return decimal.NewNullDecimal(d), nil
}

// legacyText возвращает значение поля как текст: строку без кавычек или JSON как есть.
func legacyText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err == nil {
			return strings.TrimSpace(text)
		}
	}
	return string(raw)
}

func appendNote(description, note string) string {
	if strings.TrimSpace(description) == "" {
		return note
	}
	return description + " (" + note + ")"
}

// validate проверяет инварианты записей. Дубли номеров допускаются: их чинит ledger при загрузке.
func validate(snapshot domain.Snapshot) error {
	ids := make(map[int64]struct{}, len(snapshot.Orders))
	for i := range snapshot.Orders {
		order := &snapshot.Orders[i]
		if errs := order.ValidateInvariants(); len(errs) > 0 {
			return fmt.Errorf("order[%d] id=%d: %w", i, order.ID, errors.Join(errs...))
		}
		if _, dup := ids[order.ID]; dup {
			return fmt.Errorf("order[%d]: duplicate id %d", i, order.ID)
		}
		ids[order.ID] = struct{}{}
	}
	return nil
}
