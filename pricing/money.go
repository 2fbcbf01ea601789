package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseMinorUnits converts a price that may arrive as a display string
// ("4,999" or "4999.50") into paise. Formatted values never re-enter
// computation as strings; this is the only crossing point.
func ParseMinorUnits(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "₹")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	rupees, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	var paise int64
	if hasFrac {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		paise, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	if rupees < 0 {
		return rupees*100 - paise, nil
	}
	return rupees*100 + paise, nil
}

// MajorUnits truncates paise to whole rupees for user-facing messages.
func MajorUnits(paise int64) int64 {
	return paise / 100
}

// FormatMajor renders paise as a rupee display string with Indian digit
// grouping, e.g. 149970000 -> "₹14,99,700".
func FormatMajor(paise int64) string {
	rupees := paise / 100
	neg := rupees < 0
	if neg {
		rupees = -rupees
	}

	digits := strconv.FormatInt(rupees, 10)

	// Indian grouping: last three digits, then pairs.
	out := ""
	if n := len(digits); n > 3 {
		out = digits[n-3:]
		head := digits[:n-3]
		for len(head) > 2 {
			out = head[len(head)-2:] + "," + out
			head = head[:len(head)-2]
		}
		out = head + "," + out
	} else {
		out = digits
	}

	if neg {
		return "-₹" + out
	}
	return "₹" + out
}
