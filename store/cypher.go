package store

import (
	"fmt"
	"strconv"
	"strings"
)

// escapeString makes s safe for embedding in a single-quoted Cypher string
// literal.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return s
}

// formatVector renders an embedding as a FalkorDB vecf32 literal.
func formatVector(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return "vecf32([" + strings.Join(parts, ", ") + "])"
}

// asString coerces a scalar reply value. go-redis returns strings for bulk
// replies but other client paths may yield []byte.
func asString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// asFloat coerces a scalar reply value to a float64. FalkorDB returns doubles
// as bulk strings in the default reply encoding.
func asFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		return strconv.ParseFloat(x, 64)
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	default:
		return 0, fmt.Errorf("cannot interpret %T as float", v)
	}
}

// parseVector decodes an embedding from a query reply. Vectors come back
// either as an array of numbers or as a rendered "[0.1, 0.2]" string depending
// on the server version.
func parseVector(v interface{}) []float32 {
	switch x := v.(type) {
	case []interface{}:
		out := make([]float32, 0, len(x))
		for _, item := range x {
			f, err := asFloat(item)
			if err != nil {
				return nil
			}
			out = append(out, float32(f))
		}
		return out
	case string:
		return parseVectorString(x)
	case []byte:
		return parseVectorString(string(x))
	default:
		return nil
	}
}

func parseVectorString(s string) []float32 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if s == "" {
		return nil
	}
	fields := strings.Split(s, ",")
	out := make([]float32, 0, len(fields))
	for _, field := range fields {
		f, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil {
			return nil
		}
		out = append(out, float32(f))
	}
	return out
}
