package domain

import (
	"fmt"
	"time"
)

// DateFormat — ISO-формат календарной даты.
const DateFormat = "2006-01-02"

const readDateFormat = "2006-1-2"

// Date — календарная дата с точностью до дня. Нулевое значение означает «не задана».
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate возвращает нормализованную дату.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return Date{y: y, m: m, d: d}
}

// DateOf усекает момент времени до дня в его собственной зоне.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// Today возвращает текущую дату в зоне loc (UTC, если loc == nil).
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	return DateOf(time.Now().In(loc))
}

// ParseDate разбирает дату в ISO-формате; допускает однозначные месяц и день.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(readDateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want %s: %w", s, DateFormat, err)
	}
	return DateOf(t), nil
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// IsZero сообщает, что дата не задана.
func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Year() int          { return d.y }
func (d Date) Month() time.Month  { return d.m }
func (d Date) Day() int           { return d.d }
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }
func (d Date) Equal(x Date) bool  { return d == x }
func (d Date) AddDays(n int) Date { return NewDate(d.y, d.m, d.d+n) }

// String возвращает дату в формате YYYY-MM-DD; пустую строку для нулевой даты.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.time().Format(DateFormat)
}
