package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Number holds a numeric body field that clients may send either as a JSON
// number or as text. The raw text is kept and coerced on demand. An empty
// Number means the field was absent or falsy (null, false, 0 or "").
type Number string

// UnmarshalJSON never fails on a well-formed value. Strings and numbers keep
// their text, falsy values become empty, and any other value (true, objects,
// arrays) keeps its raw text, which coerces to 0.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*n = ""
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(s)
	case 'n', 'f':
		*n = ""
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var num json.Number
		if err := json.Unmarshal(b, &num); err != nil {
			return err
		}
		if f, err := num.Float64(); err == nil && f == 0 {
			*n = ""
			return nil
		}
		*n = Number(num.String())
	default:
		*n = Number(b)
	}
	return nil
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// Int parses the leading integer of the value, so "2004", " 2004abc" and
// "2004.9" all give 2004. ok is false when no digits lead the value.
func (n Number) Int() (int, bool) {
	return ParseLeadingInt(string(n))
}

// Float parses the leading decimal of the value. Invalid text gives 0.
func (n Number) Float() (float64, bool) {
	m := leadingFloat.FindString(strings.TrimSpace(string(n)))
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseLeadingInt parses the integer prefix of s after trimming spaces.
func ParseLeadingInt(s string) (int, bool) {
	m := leadingInt.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	i, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return i, true
}
