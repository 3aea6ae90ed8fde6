package convoso

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var dateOnly = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FormatDateTime normalizes a UI date into the upstream "YYYY-MM-DD HH:MM:SS"
// form, pinned to the start of the day or, with end set, to 23:59:59.
// Accepted inputs are ISO timestamps, "YYYY-MM-DD HH:MM:SS" and plain dates.
// Anything else returns "".
func FormatDateTime(s string, end bool) string {
	var datePart string
	switch {
	case strings.Contains(s, "T"):
		datePart, _, _ = strings.Cut(s, "T")
	case strings.Contains(s, " ") && strings.Contains(s, ":"):
		datePart, _, _ = strings.Cut(s, " ")
	case dateOnly.MatchString(s):
		datePart = s
	default:
		return ""
	}

	parts := strings.Split(datePart, "-")
	if len(parts) < 3 {
		return ""
	}
	var ymd [3]int
	for i := range ymd {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n <= 0 {
			return ""
		}
		ymd[i] = n
	}
	year, month, day := ymd[0], ymd[1], ymd[2]
	if month > 12 || day > 31 {
		return ""
	}

	clock := "00:00:00"
	if end {
		clock = "23:59:59"
	}
	return fmt.Sprintf("%d-%02d-%02d %s", year, month, day, clock)
}
