package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DURATION - Structured duration, ISO-8601 at the boundaries
// =============================================================================

// Duration is a length of time with minute-or-finer precision. It is
// stored as a plain magnitude so that equal durations always compare
// equal regardless of how they were written ("PT90M" == "PT1H30M");
// the ISO-8601 text form exists only at serialization boundaries.
// Durations may be negative (under-worked time).
type Duration time.Duration

// Common constructors.
func Hours(n int) Duration   { return Duration(time.Duration(n) * time.Hour) }
func Minutes(n int) Duration { return Duration(time.Duration(n) * time.Minute) }

// ParseISODuration parses an ISO-8601 duration of the form
// [-]P[nD][T[nH][nM][nS]]. Week, month and year designators are not
// supported: schedule durations are intra-day quantities.
func ParseISODuration(s string) (Duration, error) {
	orig := s
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if len(s) == 0 || (s[0] != 'P' && s[0] != 'p') {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, orig)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := ""
	seen := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			num += string(c)
		case c == 'T' || c == 't':
			if inTime || num != "" {
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, orig)
			}
			inTime = true
		default:
			if num == "" {
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, orig)
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, orig)
			}
			num = ""
			seen = true
			switch {
			case !inTime && (c == 'D' || c == 'd'):
				total += time.Duration(n) * 24 * time.Hour
			case inTime && (c == 'H' || c == 'h'):
				total += time.Duration(n) * time.Hour
			case inTime && (c == 'M' || c == 'm'):
				total += time.Duration(n) * time.Minute
			case inTime && (c == 'S' || c == 's'):
				total += time.Duration(n) * time.Second
			default:
				return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, orig)
			}
		}
	}
	if num != "" || !seen {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, orig)
	}
	if neg {
		total = -total
	}
	return Duration(total), nil
}

// MustISO parses an ISO-8601 duration and panics on failure.
// For fixtures and compiled-in defaults only.
func MustISO(s string) Duration {
	d, err := ParseISODuration(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ISO renders the duration in canonical largest-unit ISO-8601 form:
// zero components are dropped, "PT0S" for zero, leading sign when
// negative.
func (d Duration) ISO() string {
	v := time.Duration(d)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	h := v / time.Hour
	v -= h * time.Hour
	m := v / time.Minute
	v -= m * time.Minute
	s := v / time.Second

	if h == 0 && m == 0 && s == 0 {
		return sign + "PT0S"
	}

	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("PT")
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}

func (d Duration) String() string { return d.ISO() }

// HoursMinutes renders the duration as "hh:mm", with a leading sign
// when negative. This is the display form used for worked-time totals.
func (d Duration) HoursMinutes() string {
	v := time.Duration(d)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	h := v / time.Hour
	m := (v - h*time.Hour) / time.Minute
	return fmt.Sprintf("%s%02d:%02d", sign, h, m)
}

// DecimalHours returns the duration as fractional hours with two
// decimal places (e.g. PT7H30M -> 7.5). Decimal arithmetic avoids the
// drift of float division at the reporting boundary.
func (d Duration) DecimalHours() decimal.Decimal {
	minutes := int64(time.Duration(d) / time.Minute)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60)).Round(2)
}

// Arithmetic and comparison. Comparisons are magnitude comparisons, so
// rescaling is never needed.
func (d Duration) Add(o Duration) Duration     { return d + o }
func (d Duration) Sub(o Duration) Duration     { return d - o }
func (d Duration) Neg() Duration               { return -d }
func (d Duration) IsZero() bool                { return d == 0 }
func (d Duration) IsNegative() bool            { return d < 0 }
func (d Duration) IsPositive() bool            { return d > 0 }
func (d Duration) GreaterThan(o Duration) bool { return d > o }
func (d Duration) LessThan(o Duration) bool    { return d < o }
func (d Duration) Std() time.Duration          { return time.Duration(d) }

// MarshalJSON/UnmarshalJSON serialize as ISO-8601 strings.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.ISO())), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, data)
	}
	parsed, err := ParseISODuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
