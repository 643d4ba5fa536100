// Package duration converts tracker "time spent" expressions such as
// PT1H30M or P1W2DT3H4M into a number of minutes.
package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
	MinutesPerWeek = 7 * MinutesPerDay
)

var ErrInvalidFormat = errors.New("invalid duration format")

// P[nW][nD][T[nH][nM]]
var expressionRe = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?)?$`)

var multipliers = [...]int{MinutesPerWeek, MinutesPerDay, MinutesPerHour, 1}

// Parse returns the total number of minutes in expr.
//
// A bare "P" is a valid zero duration. Anything outside the grammar,
// including seconds and unknown unit letters, is an ErrInvalidFormat.
func Parse(expr string) (int, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return 0, fmt.Errorf("%w: empty expression", ErrInvalidFormat)
	}

	m := expressionRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormat, expr)
	}

	total := 0
	for i, mult := range multipliers {
		group := m[i+1]
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil || n > (math.MaxInt-total)/mult {
			return 0, fmt.Errorf("%w: %q overflows", ErrInvalidFormat, expr)
		}
		total += n * mult
	}

	return total, nil
}

// Format renders minutes as the shortest expression Parse accepts,
// splitting into weeks, days, hours and minutes.
// Negative values are treated as zero.
func Format(minutes int) string {
	if minutes <= 0 {
		return "P"
	}

	weeks := minutes / MinutesPerWeek
	minutes %= MinutesPerWeek
	days := minutes / MinutesPerDay
	minutes %= MinutesPerDay
	hours := minutes / MinutesPerHour
	minutes %= MinutesPerHour

	var b strings.Builder
	b.WriteString("P")
	if weeks > 0 {
		fmt.Fprintf(&b, "%dW", weeks)
	}
	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}
	if hours > 0 || minutes > 0 {
		b.WriteString("T")
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
	}
	return b.String()
}
