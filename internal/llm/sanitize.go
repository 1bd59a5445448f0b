package llm

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/w7-autofill/internal/fields"
)

// NormalizeMappedData applies the lenient-mode policy to a raw mapping
// object before schema validation:
// - Removes keys outside the field dictionary
// - Coerces checkbox values to bool ("yes"/"true"/1 and friends)
// - Coerces scalar text values to string, dropping null/empty ones
// Every removal or failed coercion is reported in the diagnostics slice.
func NormalizeMappedData(raw map[string]any, logger *slog.Logger) (MappedData, []string) {
	if logger == nil {
		logger = slog.Default()
	}

	out := make(MappedData, len(raw))
	dropped := make([]string, 0, 8)

	for k, v := range raw {
		e, ok := fields.Resolve(k)
		if !ok {
			dropped = append(dropped, k+"(unknown)")
			continue
		}
		if e.Kind == fields.Checkbox {
			b, ok := coerceBool(v)
			if !ok {
				dropped = append(dropped, k+"(not boolean)")
				continue
			}
			out[k] = b
			continue
		}
		s, ok := coerceString(v)
		if !ok {
			dropped = append(dropped, k+"(not string)")
			continue
		}
		if s == "" {
			dropped = append(dropped, k+"(empty)")
			continue
		}
		out[k] = s
	}

	if len(dropped) > 0 {
		logger.Warn("mapper.normalize.dropped", "keys", dropped)
	}
	return out, dropped
}

func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1", "x", "checked":
			return true, true
		case "false", "no", "0", "":
			return false, true
		}
		return false, false
	case float64:
		return t != 0, true
	default:
		return false, false
	}
}

func coerceString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return fmt.Sprintf("%t", t), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
