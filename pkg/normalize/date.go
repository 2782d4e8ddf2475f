package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/troutdb/pkg/occurrence"
	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/xuri/excelize/v2"
)

// Numbers in this range are read as years rather than Excel serial days.
const (
	minYear = 1700
	maxYear = 2100
)

var (
	reYMD = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})$`)
	reYM  = regexp.MustCompile(`^(\d{4})[-/.](\d{1,2})$`)
	reMDY = regexp.MustCompile(`^(\d{1,2})[-/.](\d{1,2})[-/.](\d{4})$`)
	reNum = regexp.MustCompile(`^\d+$`)
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

var dayLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"2-Jan-2006",
	"2-January-2006",
	"2006-Jan-2",
}

var monthLayouts = []string{
	"Jan 2006",
	"January 2006",
	"Jan-2006",
	"January-2006",
	"Jan, 2006",
	"January, 2006",
}

// Date converts a cell to a date with precision. Ok is false for absent
// cells, unparseable values give an error message.
func Date(c sheet.Cell) (occurrence.Date, bool, string) {
	if f, ok := c.Number(); ok {
		d, msg := dateFromNumber(f)
		return d, true, msg
	}
	s, ok := Text(c)
	if !ok {
		return occurrence.Date{}, false, ""
	}
	d, msg := dateFromText(s)
	return d, true, msg
}

func dateFromNumber(f float64) (occurrence.Date, string) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return occurrence.Date{}, "not a date"
	}
	if f == math.Trunc(f) {
		digits := strconv.FormatFloat(f, 'f', 0, 64)
		if d, ok := dateFromDigits(digits); ok {
			return d, ""
		}
		// four digits are a year, even outside of the accepted range
		if len(digits) == 4 {
			return occurrence.Date{}, "number is not a year or a date serial"
		}
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil || t.Year() < minYear || t.Year() > maxYear {
		return occurrence.Date{}, "number is not a year or a date serial"
	}
	return occurrence.NewDay(t.Year(), t.Month(), t.Day()), ""
}

// dateFromDigits reads YYYY, YYYYMM and YYYYMMDD.
func dateFromDigits(s string) (occurrence.Date, bool) {
	var d occurrence.Date
	switch len(s) {
	case 4:
		y, _ := strconv.Atoi(s)
		if y >= minYear && y <= maxYear {
			d = occurrence.NewYear(y)
		}
	case 6:
		y, _ := strconv.Atoi(s[:4])
		m, _ := strconv.Atoi(s[4:])
		if y >= minYear && y <= maxYear {
			d = occurrence.NewMonth(y, time.Month(m))
		}
	case 8:
		y, _ := strconv.Atoi(s[:4])
		m, _ := strconv.Atoi(s[4:6])
		day, _ := strconv.Atoi(s[6:])
		if y >= minYear && y <= maxYear {
			d = occurrence.NewDay(y, time.Month(m), day)
		}
	}
	return d, !d.IsZero()
}

func dateFromText(s string) (occurrence.Date, string) {
	if reNum.MatchString(s) {
		if d, ok := dateFromDigits(s); ok {
			return d, ""
		}
		return occurrence.Date{}, "digits do not form a date"
	}

	if m := reYMD.FindStringSubmatch(s); m != nil {
		return day(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reYM.FindStringSubmatch(s); m != nil {
		d := occurrence.NewMonth(atoi(m[1]), time.Month(atoi(m[2])))
		if d.IsZero() {
			return d, "month is out of range"
		}
		return d, ""
	}
	if m := reMDY.FindStringSubmatch(s); m != nil {
		a, b, y := atoi(m[1]), atoi(m[2]), atoi(m[3])
		// month first, unless the first part cannot be a month
		if a > 12 {
			return day(y, b, a)
		}
		return day(y, a, b)
	}

	for _, l := range timestampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return occurrence.NewDay(t.Year(), t.Month(), t.Day()), ""
		}
	}

	s = strings.TrimSuffix(s, ".")
	for _, l := range dayLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return occurrence.NewDay(t.Year(), t.Month(), t.Day()), ""
		}
	}
	for _, l := range monthLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return occurrence.NewMonth(t.Year(), t.Month()), ""
		}
	}

	return occurrence.Date{}, "unrecognized date format"
}

func day(y, m, d int) (occurrence.Date, string) {
	res := occurrence.NewDay(y, time.Month(m), d)
	if res.IsZero() {
		return res, "not a calendar date"
	}
	return res, ""
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
