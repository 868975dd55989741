package cart

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// Quantity is a requested quantity as it arrives from a form or JSON body.
// Numbers are truncated, numeric strings are read up to the first non-digit,
// anything else becomes 1.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	v, ok := parseQuantity(data)
	if !ok {
		v = 1
	}
	*q = Quantity(v)
	return nil
}

// Int returns the raw value.
func (q Quantity) Int() int {
	return int(q)
}

// parseQuantity reads a JSON number or numeric string. ok is false when the
// value carries no leading integer.
func parseQuantity(data []byte) (int, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, false
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, false
		}
		return leadingInt(s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		if n > math.MaxInt32/10 {
			return 0, false
		}
		n = n*10 + int(r-'0')
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
