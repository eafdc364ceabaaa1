package frame

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// sortLevels orders categorical labels the way a human reads them: runs of
// digits compare by value ("age5" < "age10", "00+" < "05-14" < "15+"), the
// text between them compares with a locale-aware collator.
// A collator is not safe for concurrent use, so one is built per call.
func sortLevels(levels []string) {
	c := collate.New(language.Und)
	slices.SortStableFunc(levels, func(a, b string) int {
		return naturalCompare(c, a, b)
	})
}

// naturalCompare compares a and b chunk by chunk. Digit runs of equal
// value order the shorter run first; full ties fall back to byte order.
func naturalCompare(c *collate.Collator, a, b string) int {
	ra, rb := a, b
	for ra != "" && rb != "" {
		ca, da := nextChunk(ra)
		cb, db := nextChunk(rb)
		ra, rb = ra[len(ca):], rb[len(cb):]

		var r int
		switch {
		case da && db:
			r = compareDigits(ca, cb)
		case da != db:
			// Numbers sort before text.
			if da {
				r = -1
			} else {
				r = 1
			}
		default:
			r = c.CompareString(ca, cb)
		}
		if r != 0 {
			return r
		}
	}
	switch {
	case ra == "" && rb != "":
		return -1
	case ra != "" && rb == "":
		return 1
	}
	return strings.Compare(a, b)
}

// nextChunk returns the leading run of digits or non-digits of s.
func nextChunk(s string) (string, bool) {
	digit := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == digit {
		i++
	}
	return s[:i], digit
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// compareDigits compares two digit runs by value without parsing, so runs
// of any length work.
func compareDigits(a, b string) int {
	ta := strings.TrimLeft(a, "0")
	tb := strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) - len(tb)
	}
	if r := strings.Compare(ta, tb); r != 0 {
		return r
	}
	return len(a) - len(b)
}

// FormatNumber renders a numeric value as a level label or column suffix.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
