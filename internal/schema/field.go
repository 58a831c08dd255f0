package schema

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Field validates one raw value into its typed bound form. The bound result
// is only meaningful when present is true; an absent optional value yields
// (nil, false, nil). Validators are stateless and safe for concurrent use.
type Field interface {
	Validate(value any) (bound any, present bool, err *FieldError)
}

// Char accepts any string. An empty string is allowed only when Nullable.
type Char struct {
	Required bool
	Nullable bool
}

func (f Char) Validate(value any) (any, bool, *FieldError) {
	if value == nil {
		if f.Required {
			return nil, false, requiredErr()
		}
		return nil, false, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, false, wrongTypeErr("string", value)
	}
	if s == "" && !f.Nullable {
		return nil, false, notNullableErr()
	}
	return s, true, nil
}

// Arguments accepts a JSON object and binds it as a raw map for a nested bind.
type Arguments struct {
	Required bool
	Nullable bool
}

func (f Arguments) Validate(value any) (any, bool, *FieldError) {
	if value == nil {
		if f.Required {
			return nil, false, requiredErr()
		}
		return nil, false, nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, false, wrongTypeErr("object", value)
	}
	if len(m) == 0 && !f.Nullable {
		return nil, false, notNullableErr()
	}
	return m, true, nil
}

// Email is a Char that must contain the literal character '@'.
type Email struct {
	Required bool
	Nullable bool
}

func (f Email) Validate(value any) (any, bool, *FieldError) {
	bound, present, err := Char(f).Validate(value)
	if err != nil || !present {
		return nil, present, err
	}
	s := bound.(string)
	if !strings.Contains(s, "@") {
		return nil, false, invalidValueErr(value)
	}
	return s, true, nil
}

// Phone accepts a string or a number that reads as an integer of exactly
// 11 digits starting with '7'. The bound value is the digit string.
type Phone struct {
	Required bool
	Nullable bool
}

func (f Phone) Validate(value any) (any, bool, *FieldError) {
	if value == nil {
		if f.Required {
			return nil, false, requiredErr()
		}
		return nil, false, nil
	}
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case json.Number:
		s = v.String()
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	default:
		return nil, false, wrongTypeErr("string or number", value)
	}
	if (s == "" || s == "0") && !f.Nullable {
		return nil, false, notNullableErr()
	}
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return nil, false, invalidValueErr(value)
	}
	if len(s) != 11 || s[0] != '7' {
		return nil, false, invalidValueErr(value)
	}
	return s, true, nil
}

const dateLayout = "02.01.2006"

// Date accepts a DD.MM.YYYY string (4-digit year) and binds a time.Time.
type Date struct {
	Required bool
	Nullable bool
}

func (f Date) Validate(value any) (any, bool, *FieldError) {
	if value == nil {
		if f.Required {
			return nil, false, requiredErr()
		}
		return nil, false, nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, false, wrongTypeErr("string in DD.MM.YYYY format", value)
	}
	if s == "" && !f.Nullable {
		return nil, false, notNullableErr()
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, false, invalidValueErr(value)
	}
	return t, true, nil
}

// BirthDay is a Date whose age in whole 365-day years must fall strictly
// between 0 and 70. Now is overridable for tests and defaults to time.Now.
type BirthDay struct {
	Required bool
	Nullable bool
	Now      func() time.Time
}

func (f BirthDay) Validate(value any) (any, bool, *FieldError) {
	bound, present, err := Date{Required: f.Required, Nullable: f.Nullable}.Validate(value)
	if err != nil || !present {
		return nil, present, err
	}
	t := bound.(time.Time)
	now := time.Now()
	if f.Now != nil {
		now = f.Now()
	}
	age := int(now.Sub(t).Hours()/24) / 365
	if age <= 0 || age >= 70 {
		return nil, false, invalidValueErr(value)
	}
	return t, true, nil
}

// Gender accepts the integers 0, 1 and 2. Floats are rejected even when
// their value is integral, so raw maps must be decoded with json.Number.
type Gender struct {
	Required bool
	Nullable bool
}

func (f Gender) Validate(value any) (any, bool, *FieldError) {
	if value == nil {
		if f.Required {
			return nil, false, requiredErr()
		}
		return nil, false, nil
	}
	n, ok := intValue(value)
	if !ok {
		return nil, false, wrongTypeErr("integer", value)
	}
	if n == 0 && !f.Nullable {
		return nil, false, notNullableErr()
	}
	if n < 0 || n > 2 {
		return nil, false, invalidValueErr(value)
	}
	return int(n), true, nil
}

// ClientIDs accepts a non-empty array of strictly positive integers and
// binds []int64. The kind is never nullable.
type ClientIDs struct {
	Required bool
}

func (f ClientIDs) Validate(value any) (any, bool, *FieldError) {
	if value == nil {
		if f.Required {
			return nil, false, requiredErr()
		}
		return nil, false, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, false, wrongTypeErr("array of integers", value)
	}
	if len(list) == 0 {
		return nil, false, notNullableErr()
	}
	ids := make([]int64, 0, len(list))
	for _, el := range list {
		n, ok := intValue(el)
		if !ok || n <= 0 {
			return nil, false, invalidValueErr(el)
		}
		ids = append(ids, n)
	}
	return ids, true, nil
}

// intValue reports a raw value as an integer, rejecting anything with a
// fractional representation ("1.0" stays distinguishable thanks to
// json.Number).
func intValue(value any) (int64, bool) {
	switch v := value.(type) {
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}
