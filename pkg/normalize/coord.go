package normalize

import (
	"math"
	"regexp"
	"strings"

	"github.com/gnames/troutdb/pkg/sheet"
	"github.com/shopspring/decimal"
)

// Decimal places kept for coordinates (about 0.1 m).
const coordPlaces = 6

var (
	reCoordNum   = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reCoordJunk  = regexp.MustCompile(`[^\d.\s°º˚'’′"”″:dms]`)
	reCommaFloat = regexp.MustCompile(`^[-+]?\d+,\d+$`)
)

var (
	sixty    = decimal.NewFromInt(60)
	sixtySq  = decimal.NewFromInt(3600)
	latHemis = map[rune]bool{'N': false, 'S': true}
	lonHemis = map[rune]bool{'E': false, 'W': true, 'O': true}
)

// Coordinate converts a cell with decimal degrees or
// degrees-minutes-seconds to decimal degrees rounded to 6 places.
// S, W (and Spanish O for oeste) give negative values. Ok is false for
// absent cells; unparseable values give an error message.
func Coordinate(c sheet.Cell, f Field) (float64, bool, string) {
	if n, ok := c.Number(); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, true, "not a number"
		}
		return round(decimal.NewFromFloat(n)), true, ""
	}
	s, ok := Text(c)
	if !ok {
		return 0, false, ""
	}
	res, msg := parseCoordinate(s, f)
	return res, true, msg
}

func parseCoordinate(s string, f Field) (float64, string) {
	s = strings.ToUpper(strings.TrimSpace(s))
	hemis := latHemis
	if f == Longitude {
		hemis = lonHemis
	}

	var negative, hasHemi bool
	if r, rest, ok := cutHemisphere(s); ok {
		neg, known := hemis[r]
		if !known {
			return 0, "hemisphere does not fit " + string(f)
		}
		negative, hasHemi, s = neg, true, rest
	}

	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "-") {
		if hasHemi && !negative {
			return 0, "negative value conflicts with hemisphere"
		}
		negative = true
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}

	if reCommaFloat.MatchString(s) {
		s = strings.Replace(s, ",", ".", 1)
	}
	if reCoordJunk.MatchString(strings.ToLower(s)) {
		return 0, "unrecognized coordinate format"
	}

	parts := reCoordNum.FindAllString(s, -1)
	if len(parts) == 0 || len(parts) > 3 {
		return 0, "unrecognized coordinate format"
	}

	var res decimal.Decimal
	for i, p := range parts {
		v, err := decimal.NewFromString(p)
		if err != nil {
			return 0, "unrecognized coordinate format"
		}
		switch i {
		case 0:
			res = v
		case 1:
			if v.GreaterThanOrEqual(sixty) || !isInteger(parts[0]) {
				return 0, "minutes are out of range"
			}
			res = res.Add(v.Div(sixty))
		case 2:
			if v.GreaterThanOrEqual(sixty) || !isInteger(parts[1]) {
				return 0, "seconds are out of range"
			}
			res = res.Add(v.Div(sixtySq))
		}
	}
	if negative {
		res = res.Neg()
	}
	return round(res), ""
}

// cutHemisphere removes a hemisphere letter from either end of s.
func cutHemisphere(s string) (rune, string, bool) {
	if s == "" {
		return 0, s, false
	}
	first, last := rune(s[0]), rune(s[len(s)-1])
	if isHemi(last) {
		return last, s[:len(s)-1], true
	}
	if isHemi(first) {
		return first, s[1:], true
	}
	return 0, s, false
}

func isHemi(r rune) bool {
	return strings.ContainsRune("NSEWO", r)
}

func isInteger(s string) bool {
	return !strings.Contains(s, ".")
}

func round(d decimal.Decimal) float64 {
	res, _ := d.Round(coordPlaces).Float64()
	return res
}
