package resource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var jsonNull = []byte("null")

// Text is a string field that also accepts numbers and booleans.
type Text string

// UnmarshalJSON implements json.Unmarshaler. null leaves the value unchanged.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		*t = Text(num.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*t = Text(strconv.FormatBool(b))
		return nil
	}

	return fmt.Errorf("cannot use %s as a string", trimmed)
}

func (t Text) String() string {
	return string(t)
}

// FlexInt is an integer field that accepts JSON numbers and numeric strings.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler. null leaves the value unchanged,
// an empty string resets it to zero.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	raw := string(trimmed)

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		raw = strings.TrimSpace(s)
		if raw == "" {
			*n = 0
			return nil
		}
	}

	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		*n = FlexInt(i)
		return nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) ||
		f >= math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("cannot use %s as an integer", trimmed)
	}

	*n = FlexInt(f)

	return nil
}

// Int64 returns n as int64.
func (n FlexInt) Int64() int64 {
	return int64(n)
}

// FlexBool is a boolean field that accepts booleans, 0/1 and the usual form values.
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler. null leaves the value unchanged.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	raw := string(trimmed)

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		raw = strings.ToLower(strings.TrimSpace(s))
	}

	switch raw {
	case "true", "1", "on", "yes":
		*b = true
	case "false", "0", "off", "no", "":
		*b = false
	default:
		return fmt.Errorf("cannot use %s as a boolean", trimmed)
	}

	return nil
}

// timeLayout is how FlexTime values are written, millisecond precision in UTC.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// years timeLayout can write with four digits
const (
	minYear = 0
	maxYear = 9999
)

// accepted input layouts besides RFC 3339
var timeInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// FlexTime is a date field. It accepts RFC 3339 strings, dates, epoch milliseconds
// and the empty string (unset). A zero FlexTime is written as null.
type FlexTime struct {
	time.Time
}

// NewFlexTime returns t as FlexTime.
func NewFlexTime(t time.Time) FlexTime {
	return FlexTime{Time: t.UTC()}
}

// MarshalJSON implements json.Marshaler.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return jsonNull, nil
	}

	return []byte(strconv.Quote(t.UTC().Format(timeLayout))), nil
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the value unchanged.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		var ms json.Number
		if err = json.Unmarshal(trimmed, &ms); err != nil {
			return fmt.Errorf("cannot use %s as a date", trimmed)
		}

		i, err := ms.Int64()
		if err != nil {
			return fmt.Errorf("cannot use %s as a date", trimmed)
		}

		return t.set(time.UnixMilli(i), string(trimmed))
	}

	s = strings.TrimSpace(s)
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timeInputLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return t.set(parsed, strconv.Quote(s))
		}
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return t.set(time.UnixMilli(i), strconv.Quote(s))
	}

	return fmt.Errorf("cannot use %q as a date", s)
}

// set stores parsed unless its year can't be written back in timeLayout.
func (t *FlexTime) set(parsed time.Time, input string) error {
	parsed = parsed.UTC()
	if y := parsed.Year(); y < minYear || y > maxYear {
		return fmt.Errorf("cannot use %s as a date, the year must be between %d and %d", input, minYear, maxYear)
	}

	t.Time = parsed

	return nil
}
