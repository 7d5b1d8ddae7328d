package domain

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Apurer/petguard-api/internal/shared/faults"
	"github.com/Apurer/petguard-api/internal/shared/phone"
)

// DateLayout is the only accepted literal form for calendar dates.
const DateLayout = "2006-01-02"

var dateLiteral = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Date is a calendar day in YYYY-MM-DD form. The empty value means unset.
type Date string

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == "" }

// Time returns the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

// DateOf formats t as a Date.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// RequireNonEmpty fails when value is blank.
func RequireNonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return faults.RequiredFieldEmpty(field)
	}
	return nil
}

// RequireMaxLength fails when value has more than max characters.
func RequireMaxLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return faults.ValueTooLong(field, value, max)
	}
	return nil
}

// RequirePhone fails when a present value is longer than the phone column or is not a phone
// number. Absence is not checked here.
func RequirePhone(field, value string) error {
	if value == "" {
		return nil
	}
	if err := RequireMaxLength(field, value, phone.MaxLength); err != nil {
		return err
	}
	if !phone.Valid(value) {
		return faults.InvalidPhoneFormat(field, value)
	}
	return nil
}

// RequireEnumMember fails when a present value is not one of allowed. Absence is not checked here.
func RequireEnumMember[T ~string](field string, value T, allowed []T) error {
	if value == "" || isMember(value, allowed) {
		return nil
	}
	return faults.NotInEnum(field, string(value), literals(allowed))
}

// requireMember is the mandatory-enum check: required first, then membership.
func requireMember[T ~string](field string, value T, allowed []T) error {
	if err := RequireNonEmpty(field, string(value)); err != nil {
		return err
	}
	return RequireEnumMember(field, value, allowed)
}

// RequireNonNegative fails when value is below zero.
func RequireNonNegative[N int | int64 | float64](field string, value N) error {
	if value < 0 {
		return faults.NegativeValueNotAllowed(field, value)
	}
	return nil
}

// ParseDate parses a strict YYYY-MM-DD literal. Format, month, and day failures are distinct.
func ParseDate(field, raw string) (time.Time, error) {
	parts := dateLiteral.FindStringSubmatch(raw)
	if parts == nil {
		return time.Time{}, faults.InvalidDateFormat(field, raw)
	}
	year, _ := strconv.Atoi(parts[1])
	month, _ := strconv.Atoi(parts[2])
	day, _ := strconv.Atoi(parts[3])
	if month < 1 || month > 12 {
		return time.Time{}, faults.InvalidDateComponent("month", month, 1, 12)
	}
	last := daysIn(year, time.Month(month))
	if day < 1 || day > last {
		return time.Time{}, faults.InvalidDateComponent("day", day, 1, last)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// RequirePastOrPresentDate parses raw and fails when its day is later than the day of now.
func RequirePastOrPresentDate(field, raw string, now time.Time) error {
	date, err := ParseDate(field, raw)
	if err != nil {
		return err
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.After(today) {
		return faults.FutureDateNotAllowed(field, raw)
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
