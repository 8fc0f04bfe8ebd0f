package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Order — одна запись журнала заказов.
type Order struct {
	// ID назначается хранилищем, монотонно растёт и никогда не переиспользуется.
	ID int64
	// Number — пользовательский номер заказа, уникален среди живых записей.
	Number      int
	ClientName  string
	Description string
	// WeightKg отсутствует (Valid=false), если вес не указан; это не то же самое, что ноль.
	WeightKg    decimal.NullDecimal
	ValueAmount decimal.Decimal
	// Completed — единственное поле, изменяемое после создания.
	Completed   bool
	CreatedDate Date
}

// HasWeight сообщает, указан ли вес заказа.
func (o Order) HasWeight() bool { return o.WeightKg.Valid }

// Draft — сырой ввод для создания заказа, как он пришёл из формы или CLI.
type Draft struct {
	// Number учитывается только при ручной нумерации.
	Number      string
	ClientName  string
	Description string
	WeightKg    string
	ValueAmount string
	Completed   bool
}

// ParsedDraft — черновик, прошедший разбор и проверку полей.
type ParsedDraft struct {
	Number      int
	ClientName  string
	Description string
	WeightKg    decimal.NullDecimal
	ValueAmount decimal.Decimal
	Completed   bool
}

// Parse проверяет поля черновика и возвращает все найденные ошибки сразу.
// Номер проверяется только при manualNumber; уникальность номера проверяет taken.
func (d Draft) Parse(manualNumber bool, taken func(number int) bool) (ParsedDraft, ValidationErrors) {
	var (
		out  ParsedDraft
		errs ValidationErrors
	)

	if manualNumber {
		raw := strings.TrimSpace(d.Number)
		switch n, err := strconv.Atoi(raw); {
		case raw == "":
			errs = append(errs, FieldError{Field: FieldNumber, Reason: ReasonRequired})
		case err != nil:
			errs = append(errs, FieldError{Field: FieldNumber, Reason: ReasonNotANumber})
		case n <= 0:
			errs = append(errs, FieldError{Field: FieldNumber, Reason: ReasonNonPositive})
		case taken != nil && taken(n):
			errs = append(errs, FieldError{Field: FieldNumber, Reason: ReasonDuplicateNumber})
		default:
			out.Number = n
		}
	}

	out.ClientName = strings.TrimSpace(d.ClientName)
	if out.ClientName == "" {
		errs = append(errs, FieldError{Field: FieldClientName, Reason: ReasonRequired})
	}

	if raw := strings.TrimSpace(d.ValueAmount); raw == "" {
		errs = append(errs, FieldError{Field: FieldValueAmount, Reason: ReasonRequired})
	} else if v, err := decimal.NewFromString(raw); err != nil {
		errs = append(errs, FieldError{Field: FieldValueAmount, Reason: ReasonNotANumber})
	} else if !v.IsPositive() {
		errs = append(errs, FieldError{Field: FieldValueAmount, Reason: ReasonNonPositive})
	} else {
		out.ValueAmount = v
	}

	// Пустой вес допустим и означает «не указан».
	if raw := strings.TrimSpace(d.WeightKg); raw != "" {
		if w, err := decimal.NewFromString(raw); err != nil {
			errs = append(errs, FieldError{Field: FieldWeightKg, Reason: ReasonNotANumber})
		} else if w.IsNegative() {
			errs = append(errs, FieldError{Field: FieldWeightKg, Reason: ReasonNegative})
		} else {
			out.WeightKg = decimal.NewNullDecimal(w)
		}
	}

	out.Description = d.Description
	out.Completed = d.Completed

	if len(errs) > 0 {
		return ParsedDraft{}, errs
	}
	return out, nil
}

// ValidateInvariants проверяет инварианты уже существующей записи
// (например, прочитанной с диска) и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.ID <= 0 {
		errs = append(errs, ErrOrderIDInvalid)
	}
	if o.Number <= 0 {
		errs = append(errs, ErrOrderNumberInvalid)
	}
	if strings.TrimSpace(o.ClientName) == "" {
		errs = append(errs, ErrClientNameRequired)
	}
	if !o.ValueAmount.IsPositive() {
		errs = append(errs, ErrValueNotPositive)
	}
	if o.WeightKg.Valid && o.WeightKg.Decimal.IsNegative() {
		errs = append(errs, ErrWeightNegative)
	}
	if o.CreatedDate.IsZero() {
		errs = append(errs, ErrCreatedDateRequired)
	}

	return errs
}
