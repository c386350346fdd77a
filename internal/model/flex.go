package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Effort is a remediation effort estimate.
//
// Reports are produced by several analyzers and the field is not always an
// integer. Effort accepts integers, floats (truncated), numeric strings and
// null. Any other value decodes to zero rather than failing the document.
type Effort int

// UnmarshalJSON implements json.Unmarshaler.
func (e *Effort) UnmarshalJSON(data []byte) error {
	*e = 0

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil //nolint:nilerr // malformed effort falls back to zero
	}

	switch val := v.(type) {
	case float64:
		if !math.IsNaN(val) && !math.IsInf(val, 0) {
			*e = Effort(int(val))
		}
	case string:
		s := strings.TrimSpace(val)
		if n, err := strconv.Atoi(s); err == nil {
			*e = Effort(n)
		} else if f, err := strconv.ParseFloat(s, 64); err == nil {
			*e = Effort(int(f))
		}
	}
	return nil
}

// Int returns the effort as an int.
func (e Effort) Int() int {
	return int(e)
}

// FlexString is a string field that also accepts JSON numbers and booleans.
// jdkVersion is written as "17" by some analyzers and 17 by others.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	*s = ""

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil //nolint:nilerr // malformed value falls back to empty
	}

	switch val := v.(type) {
	case string:
		*s = FlexString(val)
	case float64:
		*s = FlexString(strconv.FormatFloat(val, 'f', -1, 64))
	case bool:
		*s = FlexString(strconv.FormatBool(val))
	}
	return nil
}

// String returns the underlying string.
func (s FlexString) String() string {
	return string(s)
}
