package dailysync

import (
	"strconv"
	"strings"
)

// TimeToSeconds converts "HH:MM:SS" into seconds. Anything else is 0.
func TimeToSeconds(s string) int {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0
	}

	total := 0
	for i, unit := range []int{3600, 60, 1} {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil {
			return 0
		}
		total += n * unit
	}
	return total
}
