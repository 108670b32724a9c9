// Package academicyear handles the "YYYY-YYYY" bookkeeping period that
// leave policies and balances are scoped to.
package academicyear

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidFormat = errors.New("academic year must look like 2025-2026")

// Parse validates s and returns its first calendar year.
func Parse(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return 0, ErrInvalidFormat
	}
	first, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrInvalidFormat
	}
	second, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, ErrInvalidFormat
	}
	if second != first+1 {
		return 0, ErrInvalidFormat
	}
	return first, nil
}

func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

func Format(firstYear int) string {
	return fmt.Sprintf("%d-%d", firstYear, firstYear+1)
}

// For returns the academic year containing t when years start on
// startMonth (1 = January).
func For(t time.Time, startMonth int) string {
	if startMonth < 1 || startMonth > 12 {
		startMonth = 1
	}
	year := t.Year()
	if int(t.Month()) < startMonth {
		year--
	}
	return Format(year)
}

// Previous returns the academic year before s.
func Previous(s string) (string, error) {
	first, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(first - 1), nil
}

// Bounds returns the first and last day of academic year s.
func Bounds(s string, startMonth int) (time.Time, time.Time, error) {
	first, err := Parse(s)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startMonth < 1 || startMonth > 12 {
		startMonth = 1
	}
	start := time.Date(first, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, -1)
	return start, end, nil
}
