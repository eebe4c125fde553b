package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/palmares/internal/normalize"
)

var ratingRangePattern = regexp.MustCompile(`^(\d*)\s*-\s*(\d*)$`)

// ParseRatingRange parses a rating range.
//
// Supported formats:
//   - "1000-2000" - both bounds
//   - "1000-" - lower bound only
//   - "-2000" - upper bound only
//   - "1500" - exact rating
//
// Returns (min, max, error); 0 means unbounded.
func ParseRatingRange(input string) (int, int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, 0, fmt.Errorf("rating range cannot be empty")
	}

	if n, err := strconv.Atoi(input); err == nil {
		if n <= 0 {
			return 0, 0, fmt.Errorf("invalid rating: %s", input)
		}
		return n, n, nil
	}

	matches := ratingRangePattern.FindStringSubmatch(input)
	if matches == nil || (matches[1] == "" && matches[2] == "") {
		return 0, 0, fmt.Errorf("invalid rating range format. Use '1000-2000', '1000-', '-2000', or '1500'")
	}

	lo, hi := 0, 0
	if matches[1] != "" {
		lo, _ = strconv.Atoi(matches[1])
	}
	if matches[2] != "" {
		hi, _ = strconv.Atoi(matches[2])
	}

	if lo > 0 && hi > 0 && lo > hi {
		return 0, 0, fmt.Errorf("minimum rating must not exceed maximum rating")
	}

	return lo, hi, nil
}

// ParseCategories parses a comma-separated list of category codes. Codes are
// lower-cased, deduplicated and checked against the known categories.
func ParseCategories(input string) ([]string, error) {
	out := make([]string, 0)
	seen := make(map[string]bool)

	for _, part := range strings.Split(input, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if !normalize.IsCategory(code) {
			return nil, fmt.Errorf("unknown category: %s", code)
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}

	return out, nil
}
