package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Ошибка некорректного идентификатора записи.
	ErrOrderIDInvalid = errors.New("order id must be positive")
	// Ошибка некорректного номера заказа.
	ErrOrderNumberInvalid = errors.New("order number must be positive")
	// Ошибка отсутствующего имени клиента.
	ErrClientNameRequired = errors.New("client name is required")
	// Ошибка неположительной суммы заказа.
	ErrValueNotPositive = errors.New("value amount must be greater than zero")
	// Ошибка отрицательного веса.
	ErrWeightNegative = errors.New("weight must be non-negative")
	// Ошибка отсутствующей даты создания.
	ErrCreatedDateRequired = errors.New("created date is required")
	// ErrDuplicateNumber — в снимке встретились два заказа с одним номером.
	ErrDuplicateNumber = errors.New("duplicate order number")
	// ErrUnsupportedSchema — снимок записан неизвестной версией формата.
	ErrUnsupportedSchema = errors.New("unsupported snapshot schema version")
	// ErrInvalidStatusFilter — неизвестное значение фильтра статуса.
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// Field — имя проверяемого поля черновика.
type Field string

const (
	FieldNumber      Field = "number"
	FieldClientName  Field = "clientName"
	FieldValueAmount Field = "valueAmount"
	FieldWeightKg    Field = "weightKg"
)

// Reason — код причины, по которой поле не прошло проверку.
type Reason string

const (
	ReasonRequired        Reason = "required"
	ReasonNonPositive     Reason = "nonPositive"
	ReasonNotANumber      Reason = "notANumber"
	ReasonDuplicateNumber Reason = "duplicateNumber"
	// ReasonNegative используется только для веса: ноль допустим, минус — нет.
	ReasonNegative Reason = "negative"
)

// FieldError описывает одну проваленную проверку поля.
type FieldError struct {
	Field  Field
	Reason Reason
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationErrors — полный набор ошибок проверки черновика.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has сообщает, есть ли ошибка для поля с заданной причиной.
func (v ValidationErrors) Has(field Field, reason Reason) bool {
	for _, fe := range v {
		if fe.Field == field && fe.Reason == reason {
			return true
		}
	}
	return false
}

// ForField возвращает причины ошибок по одному полю.
func (v ValidationErrors) ForField(field Field) []Reason {
	var reasons []Reason
	for _, fe := range v {
		if fe.Field == field {
			reasons = append(reasons, fe.Reason)
		}
	}
	return reasons
}

// AsValidationErrors извлекает ValidationErrors из цепочки ошибок.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
