package profile

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var feetInchesPattern = regexp.MustCompile(`(\d+)'(\d+)"?`)

// FormatHeight renders a height in total inches as feet'inches". Strings
// that already look formatted pass through unchanged; unparseable input
// yields "".
func FormatHeight(height string) string {
	if strings.Contains(height, "'") || strings.Contains(height, "ft") {
		return height
	}
	inches, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil || inches <= 0 {
		return ""
	}
	return fmt.Sprintf(`%d'%d"`, inches/12, inches%12)
}

// ParseHeight converts a height string to total inches. It accepts plain
// inches ("71") or feet'inches format (`5'11"`). Unparseable input yields 0.
func ParseHeight(height string) int {
	height = strings.TrimSpace(height)
	if height == "" {
		return 0
	}
	if m := feetInchesPattern.FindStringSubmatch(height); m != nil {
		feet, ferr := strconv.Atoi(m[1])
		inches, ierr := strconv.Atoi(m[2])
		if ferr == nil && ierr == nil {
			return feet*12 + inches
		}
	}
	if inches, err := strconv.Atoi(height); err == nil {
		return inches
	}
	return 0
}
