package optimize

import (
	"fmt"
	"strconv"
	"strings"
)

// parseClock parses a GTFS-style HH:MM:SS time-of-day into seconds since
// midnight. Hours may exceed 24 for trips that run past midnight — the
// Optimizer does not wrap them, since wrapping would break the strictly
// monotone ordering a trip's stop sequence requires.
func parseClock(s string) (uint32, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	sec, err := strconv.Atoi(parts[2])
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	if h < 0 {
		return 0, fmt.Errorf("malformed clock value %q", s)
	}
	return uint32(h*3600 + m*60 + sec), nil
}

// compareID orders two raw textual ids the way step 5 of the Optimizer
// expects: numerically when both parse as integers (the common GTFS
// case), lexicographically otherwise.
func compareID(a, b string) bool {
	an, aerr := strconv.ParseInt(a, 10, 64)
	bn, berr := strconv.ParseInt(b, 10, 64)
	if aerr == nil && berr == nil {
		return an < bn
	}
	return a < b
}
