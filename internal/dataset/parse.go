package dataset

import (
	"strconv"
	"strings"
)

// The metric tables embed per-sequence arrays as textual list literals
// ("[1.0, 2.0]") and failure taxonomies as dict literals
// ("{'logic': 2}"). Both parse defensively: anything malformed degrades
// to an empty container and never surfaces as an error.

// SafeParseList parses a list or tuple literal of numbers. Missing,
// empty or malformed input yields an empty slice.
func SafeParseList(raw string) []float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []float64{}
	}

	switch {
	case strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"):
		s = s[1 : len(s)-1]
	case strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"):
		s = s[1 : len(s)-1]
	default:
		return []float64{}
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return []float64{}
	}

	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			// Trailing comma in a tuple literal.
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return []float64{}
		}
		out = append(out, v)
	}

	return out
}

// SafeParseDict parses a flat dict literal with quoted string keys and
// numeric values. Malformed or nested input yields an empty map.
func SafeParseDict(raw string) map[string]float64 {
	out := map[string]float64{}

	s := strings.TrimSpace(raw)
	if s == "" {
		return out
	}
	if !strings.HasPrefix(s, "{") || !strings.HasSuffix(s, "}") {
		return out
	}

	s = strings.TrimSpace(s[1 : len(s)-1])
	if s == "" {
		return out
	}

	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) != 2 {
			return map[string]float64{}
		}

		key, ok := unquote(strings.TrimSpace(kv[0]))
		if !ok {
			return map[string]float64{}
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(kv[1]), 64)
		if err != nil {
			return map[string]float64{}
		}
		out[key] = val
	}

	return out
}

// ParseBool accepts the encodings the exporters produce: True/False,
// 1/0, yes/no. Anything else is false.
func ParseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "1.0", "yes":
		return true
	default:
		return false
	}
}

// ParseFloat degrades to 0 on malformed scalar cells; scalar columns are
// required to be present but not required to be well-formed.
func ParseFloat(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return v
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1], true
		}
	}
	return "", false
}
