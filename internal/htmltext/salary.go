package htmltext

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`[\d,]+\.?\d*`)

// ParseSalary extracts a salary range from loosely formatted strings such
// as "$50,000 - $70,000" or "50k-70k". Values below 1000 are read as
// thousands. A single value yields an equal min and max; inputs with no
// numbers yield (nil, nil).
func ParseSalary(s string) (*float64, *float64) {
	if s == "" {
		return nil, nil
	}

	matches := numberPattern.FindAllString(strings.ReplaceAll(s, ",", ""), -1)
	if len(matches) == 0 {
		return nil, nil
	}

	vals := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if v < 1000 {
			v *= 1000
		}
		vals = append(vals, v)
	}
	if len(vals) == 0 {
		return nil, nil
	}

	min, max := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return &min, &max
}

// SafeFloat converts an arbitrary numeric JSON value to a salary figure,
// returning nil for non-positive or non-numeric input
func SafeFloat(v interface{}) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if f <= 0 {
		return nil
	}
	return &f
}
