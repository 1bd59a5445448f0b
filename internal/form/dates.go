package form

import (
	"fmt"
	"strings"
)

// NormalizeDate rewrites MM/DD/YYYY and YYYY-MM-DD dates as the 8-digit
// MMDDYYYY format the form expects, zero-padding month and day. Any other
// shape passes through unchanged, including already-normalized values.
func NormalizeDate(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case strings.Contains(v, "/"):
		parts := strings.Split(v, "/")
		if len(parts) != 3 {
			return v
		}
		return pad2(parts[0]) + pad2(parts[1]) + parts[2]
	case strings.Contains(v, "-"):
		parts := strings.Split(v, "-")
		if len(parts) != 3 {
			return v
		}
		return pad2(parts[1]) + pad2(parts[2]) + parts[0]
	default:
		return v
	}
}

func pad2(s string) string {
	if len(s) == 1 {
		return fmt.Sprintf("0%s", s)
	}
	return s
}
