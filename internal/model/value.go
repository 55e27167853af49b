// Package model defines the domain records shared by the recommendation
// engine: farm and species profiles, parameter overrides, dependency rules,
// and the result shapes produced by exclusion, scoring and ranking.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// naStrings are the string sentinels classified as missing data. Raw
// datasets mix blank cells with several NA spellings; they are all collapsed
// here, once, so downstream logic never inspects sentinel strings again.
var naStrings = map[string]struct{}{
	"nan":  {},
	"none": {},
	"na":   {},
	"n/a":  {},
	"null": {},
}

// IsMissing reports whether v carries no usable data.
//
// Only nil, blank strings and NA-like strings count as missing. Explicit
// false and 0 are meaningful values: a false habitat flag may trigger an
// exclusion and a zero weight removes a feature from aggregation.
func IsMissing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "" {
			return true
		}
		_, na := naStrings[s]
		return na
	default:
		return false
	}
}

// Float parses v as a float64. Missing or unparsable values return ok=false.
func Float(v any) (float64, bool) {
	if IsMissing(v) {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Bool parses v as a boolean flag. Accepts native booleans, 0/1 numerics and
// the usual true/false, yes/no, y/n spellings. Anything else is ok=false.
func Bool(v any) (bool, bool) {
	if IsMissing(v) {
		return false, false
	}
	switch t := v.(type) {
	case bool:
		return t, true
	case int, int32, int64, float32, float64:
		f, _ := Float(t)
		switch f {
		case 1:
			return true, true
		case 0:
			return false, true
		}
		return false, false
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true, true
		case "false", "no", "n", "0":
			return false, true
		}
		return false, false
	default:
		return false, false
	}
}

// Str normalizes v to a trimmed string. Missing values return ok=false.
func Str(v any) (string, bool) {
	if IsMissing(v) {
		return "", false
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s), true
	}
	return strings.TrimSpace(fmt.Sprint(v)), true
}

// setSeparators are the delimiters accepted in preference-list cells,
// e.g. "Loam, Clay", "Loam;Clay" or "Loam / Clay".
var setSeparators = []string{";", "/", "|"}

// Set parses v as a set of preference values. Native string slices pass
// through; delimiter-separated strings are split and trimmed. Returns nil
// when v is missing or yields no usable parts.
func Set(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []string:
		return trimParts(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return trimParts(parts)
	default:
		s, ok := Str(v)
		if !ok {
			return nil
		}
		for _, sep := range setSeparators {
			s = strings.ReplaceAll(s, sep, ",")
		}
		return trimParts(strings.Split(s, ","))
	}
}

func trimParts(parts []string) []string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SetContains reports whether the set holds value, comparing
// case-insensitively after trimming.
func SetContains(set []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}
