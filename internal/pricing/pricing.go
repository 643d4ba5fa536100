// Package pricing turns recorded minutes and an hourly rate into a price.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const minutesPerHour = 60

var (
	ErrInvalidRate     = errors.New("invalid hourly rate")
	ErrInvalidDuration = errors.New("invalid duration")
)

// Price returns (totalMinutes / 60) * hourlyRate rounded half away
// from zero to 2 decimal places.
func Price(hourlyRate float64, totalMinutes int) (float64, error) {
	if err := validateRate(hourlyRate); err != nil {
		return 0, err
	}
	if totalMinutes < 0 {
		return 0, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, totalMinutes)
	}

	amount := decimal.NewFromInt(int64(totalMinutes)).
		Mul(decimal.NewFromFloat(hourlyRate)).
		Div(decimal.NewFromInt(minutesPerHour)).
		Round(2)

	price, _ := amount.Float64()
	if math.IsInf(price, 0) {
		return 0, fmt.Errorf("%w: %v per hour over %d minutes overflows", ErrInvalidRate, hourlyRate, totalMinutes)
	}
	return price, nil
}

// Round rounds v to 2 decimal places, half away from zero. It works on
// the shortest decimal form of v, so 1.005 becomes 1.01.
func Round(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ParseRate converts the raw text of a rate field into a validated
// hourly rate. Both "60" and "60.5" style values are accepted.
func ParseRate(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return 0, fmt.Errorf("%w: missing", ErrInvalidRate)
	}

	rate, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidRate, raw)
	}
	if err := validateRate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return fmt.Errorf("%w: %v is not finite", ErrInvalidRate, rate)
	}
	if rate <= 0 {
		return fmt.Errorf("%w: %v must be greater than zero", ErrInvalidRate, rate)
	}
	return nil
}
