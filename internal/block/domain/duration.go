package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var durationRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([smhd])?$`)

// ParseDuration parses a block duration string into a time.Duration.
//
// Accepted forms: a bare number meaning minutes ("30"), or a number with a
// unit suffix: "90s", "25m", "2h", "1d". Rejects anything else so malformed
// input is caught before any blocking layer is touched.
func ParseDuration(s string) (time.Duration, error) {
	m := durationRe.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q: use a number of minutes (30) or a unit suffix (90s, 25m, 2h, 1d)", s)
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	unit := time.Minute
	switch m[2] {
	case "s":
		unit = time.Second
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	}

	d := time.Duration(n * float64(unit))
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
