package engine

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// =============================================================================
// DATE - Calendar day, no time-of-day component
// =============================================================================

// Date is a plain calendar day. Date values are comparable with ==
// and are used as map keys through their ISO form (yyyy-MM-dd).
type Date struct {
	year  int
	month time.Month
	day   int
}

// ParseDate parses a yyyy-MM-dd date string. A malformed date is a
// caller contract violation and is rejected, never coerced.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}, nil
}

// MustDate parses a date and panics on failure. For fixtures.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewDate builds a date from components, normalizing out-of-range
// values the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// DateOf truncates an instant to its calendar day in the instant's
// location.
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

func (d Date) time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }
func (d Date) IsZero() bool      { return d == Date{} }

func (d Date) String() string { return d.time().Format("2006-01-02") }

// Weekday returns the ISO weekday: 1 (Monday) .. 7 (Sunday).
func (d Date) Weekday() Weekday {
	return Weekday((int(d.time().Weekday())+6)%7 + 1)
}

func (d Date) AddDays(n int) Date   { return DateOf(d.time().AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.time().AddDate(0, n, 0)) }

// WithDay returns the date with the day-of-month replaced, normalized
// past the end of short months.
func (d Date) WithDay(day int) Date {
	return NewDate(d.year, d.month, day)
}

func (d Date) Before(o Date) bool { return d.time().Before(o.time()) }
func (d Date) After(o Date) bool  { return d.time().After(o.time()) }

// DaysBetween returns the whole-day distance from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.time().Sub(from.time()).Hours() / 24)
}

// MarshalText/UnmarshalText let Date serve as a JSON value and map key.
func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(data []byte) error {
	parsed, err := ParseDate(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// WEEKDAY - 1 (Monday) .. 7 (Sunday)
// =============================================================================

type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (w Weekday) Valid() bool     { return w >= Monday && w <= Sunday }
func (w Weekday) IsWeekend() bool { return w == Saturday || w == Sunday }

// =============================================================================
// CLOCK TIME - Wall-clock HH:mm, no date
// =============================================================================

// ClockTime is a wall-clock time of day, stored as minutes since
// midnight. It is a bare time: it can only be diffed against another
// ClockTime of the same day.
type ClockTime int

// ParseClock parses a 24-hour "HH:mm" string.
func ParseClock(s string) (ClockTime, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return ClockTime(h*60 + m), nil
}

// MustClock parses a clock time and panics on failure. For fixtures.
func MustClock(s string) ClockTime {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ClockOf truncates an instant to its wall-clock minute.
func ClockOf(t time.Time) ClockTime {
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Add shifts the clock time by a duration, wrapping past midnight.
// Sub-minute components of the duration are dropped.
func (c ClockTime) Add(d Duration) ClockTime {
	minutes := (int(c) + int(d.Std()/time.Minute)) % (24 * 60)
	if minutes < 0 {
		minutes += 24 * 60
	}
	return ClockTime(minutes)
}

// Sub returns the duration from earlier to c, assuming both fall on
// the same day. The result is negative when c precedes earlier.
func (c ClockTime) Sub(earlier ClockTime) Duration {
	return Duration(time.Duration(int(c)-int(earlier)) * time.Minute)
}

func (c ClockTime) Before(o ClockTime) bool { return c < o }
func (c ClockTime) After(o ClockTime) bool  { return c > o }

// MarshalText/UnmarshalText serialize as "HH:mm".
func (c ClockTime) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *ClockTime) UnmarshalText(data []byte) error {
	parsed, err := ParseClock(string(data))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// HoursDiff formats the duration between two bare "HH:mm" times as
// "hh:mm". There is no day-wrap handling: when later precedes earlier
// the result is negative, not wrapped into the next day. Overnight
// shifts are a known, documented limitation.
func HoursDiff(earlier, later string) (string, error) {
	e, err := ParseClock(earlier)
	if err != nil {
		return "", err
	}
	l, err := ParseClock(later)
	if err != nil {
		return "", err
	}
	return l.Sub(e).HoursMinutes(), nil
}

// =============================================================================
// LOCALE - 12h/24h clock detection
// =============================================================================

var (
	clockOnce sync.Once
	clock24   bool
)

// twelveHourRegions are the locale regions that customarily use a
// 12-hour clock.
var twelveHourRegions = map[string]bool{
	"US": true, "PH": true, "CA": true, "AU": true,
	"NZ": true, "IN": true, "EG": true, "SA": true,
	"CO": true, "PK": true, "MY": true,
}

// Is24HourClock reports whether the host locale uses a 24-hour clock.
// The answer comes from LC_TIME/LC_ALL/LANG, is cached for the
// process, and defaults to true when no locale is set.
func Is24HourClock() bool {
	clockOnce.Do(func() {
		clock24 = is24HourLocale(localeFromEnv())
	})
	return clock24
}

func localeFromEnv() string {
	for _, key := range []string{"LC_TIME", "LC_ALL", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func is24HourLocale(locale string) bool {
	if locale == "" {
		return true
	}
	// "en_US.UTF-8" -> region "US"
	locale = strings.SplitN(locale, ".", 2)[0]
	parts := strings.SplitN(locale, "_", 2)
	if len(parts) != 2 {
		return true
	}
	return !twelveHourRegions[strings.ToUpper(parts[1])]
}
