package occurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Precision tells which parts of a Date are known.
type Precision int

const (
	// NoDate marks an absent date.
	NoDate Precision = iota
	// YearPrecision dates only know the year.
	YearPrecision
	// MonthPrecision dates know the year and the month.
	MonthPrecision
	// DayPrecision dates are complete calendar dates.
	DayPrecision
)

var precisionNames = map[Precision]string{
	NoDate:         "",
	YearPrecision:  "year",
	MonthPrecision: "month",
	DayPrecision:   "day",
}

// String returns "day", "month", "year", or an empty string.
func (p Precision) String() string {
	return precisionNames[p]
}

// NewPrecision converts a precision name back to Precision.
func NewPrecision(s string) Precision {
	for k, v := range precisionNames {
		if v != "" && v == s {
			return k
		}
	}
	return NoDate
}

// Date is a calendar date with explicit precision. A year-only date is
// never the same as January 1st of that year. The zero value is an
// absent date.
type Date struct {
	Year      int
	Month     time.Month
	Day       int
	Precision Precision
}

// NewDay creates a date with day precision. It returns an absent date
// if the parts do not form a real calendar date.
func NewDay(y int, m time.Month, d int) Date {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return Date{}
	}
	return Date{Year: y, Month: m, Day: d, Precision: DayPrecision}
}

// NewMonth creates a date with month precision.
func NewMonth(y int, m time.Month) Date {
	if m < time.January || m > time.December {
		return Date{}
	}
	return Date{Year: y, Month: m, Precision: MonthPrecision}
}

// NewYear creates a date with year precision.
func NewYear(y int) Date {
	return Date{Year: y, Precision: YearPrecision}
}

// IsZero is true for an absent date.
func (d Date) IsZero() bool {
	return d.Precision == NoDate
}

// String returns the canonical form: YYYY-MM-DD, YYYY-MM or YYYY.
func (d Date) String() string {
	switch d.Precision {
	case DayPrecision:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case MonthPrecision:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	case YearPrecision:
		return fmt.Sprintf("%04d", d.Year)
	default:
		return ""
	}
}

// Time returns the first moment covered by the date in UTC.
func (d Date) Time() time.Time {
	m, day := d.Month, d.Day
	if m == 0 {
		m = time.January
	}
	if day == 0 {
		day = 1
	}
	return time.Date(d.Year, m, day, 0, 0, 0, 0, time.UTC)
}

// ParseCanonical reads a date written by Date.String. An empty string
// gives an absent date.
func ParseCanonical(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	parts := strings.Split(s, "-")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, fmt.Errorf("bad date %q: %w", s, err)
		}
		nums[i] = n
	}

	var res Date
	switch len(nums) {
	case 1:
		res = NewYear(nums[0])
	case 2:
		res = NewMonth(nums[0], time.Month(nums[1]))
	case 3:
		res = NewDay(nums[0], time.Month(nums[1]), nums[2])
	}
	if res.IsZero() {
		return res, fmt.Errorf("bad date %q", s)
	}
	return res, nil
}
