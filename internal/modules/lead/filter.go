package lead

import (
	"encoding/json"
	"strings"
	"time"
)

// Filter field kinds. Each filterable field has exactly one kind, and each
// kind recognizes its own set of clause shapes.
type fieldKind int

const (
	kindString fieldKind = iota
	kindEnum
	kindNumber
	kindDate
	kindBool
)

// filterFields maps DSL field names to their kind. Fields not listed here
// are ignored when they appear in a filter payload.
var filterFields = map[string]fieldKind{
	"email":          kindString,
	"company":        kindString,
	"city":           kindString,
	"state":          kindString,
	"source":         kindEnum,
	"status":         kindEnum,
	"score":          kindNumber,
	"leadValue":      kindNumber,
	"createdAt":      kindDate,
	"lastActivityAt": kindDate,
	"isQualified":    kindBool,
}

// StringClause filters a string field: equals XOR contains. When both are
// present, equals wins.
type StringClause struct {
	Equals   *string
	Contains *string
}

// EnumClause filters an enum field: equals XOR in. Members of In are passed
// through to the store unvalidated; unknown values simply match nothing.
type EnumClause struct {
	Equals *string
	In     []string
}

// NumberClause filters a numeric field: equals XOR any combination of
// gt/lt/between, which are ANDed.
type NumberClause struct {
	Equals  *float64
	Gt      *float64
	Lt      *float64
	Between *[2]float64
}

// DateClause filters a date field: on XOR any combination of
// before/after/between, which are ANDed.
type DateClause struct {
	On      *time.Time
	Before  *time.Time
	After   *time.Time
	Between *[2]time.Time
}

// BoolClause filters a boolean field.
type BoolClause struct {
	Equals *bool
}

// FieldFilter holds the decoded clause for a single field. Exactly one
// member is non-nil.
type FieldFilter struct {
	String *StringClause
	Enum   *EnumClause
	Number *NumberClause
	Date   *DateClause
	Bool   *BoolClause
}

func (f FieldFilter) empty() bool {
	return f.String == nil && f.Enum == nil && f.Number == nil && f.Date == nil && f.Bool == nil
}

// Expression is a validated filter: DSL field name to decoded clause.
type Expression map[string]FieldFilter

// ParseExpression decodes and validates the raw filters query parameter.
//
// The whole payload failing to decode as a JSON object is the only hard
// error. Everything below that degrades silently: unknown fields are
// ignored, a field whose clause matches none of the recognized shapes is
// dropped, and a date value that fails to parse drops only that
// sub-condition. This permissiveness is deliberate and covered by tests.
func ParseExpression(raw string) (Expression, error) {
	expr := make(Expression)
	if strings.TrimSpace(raw) == "" {
		return expr, nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ErrMalformedFilter
	}

	for field, rawClause := range payload {
		kind, ok := filterFields[field]
		if !ok {
			continue
		}

		var keys map[string]json.RawMessage
		if err := json.Unmarshal(rawClause, &keys); err != nil {
			continue
		}

		var ff FieldFilter
		switch kind {
		case kindString:
			ff.String = parseStringClause(keys)
		case kindEnum:
			ff.Enum = parseEnumClause(keys)
		case kindNumber:
			ff.Number = parseNumberClause(keys)
		case kindDate:
			ff.Date = parseDateClause(keys)
		case kindBool:
			ff.Bool = parseBoolClause(keys)
		}

		if !ff.empty() {
			expr[field] = ff
		}
	}

	return expr, nil
}

func parseStringClause(keys map[string]json.RawMessage) *StringClause {
	c := StringClause{
		Equals:   decodeString(keys["equals"]),
		Contains: decodeString(keys["contains"]),
	}
	if c.Equals == nil && c.Contains == nil {
		return nil
	}
	return &c
}

func parseEnumClause(keys map[string]json.RawMessage) *EnumClause {
	c := EnumClause{Equals: decodeString(keys["equals"])}
	if raw, ok := keys["in"]; ok {
		var in []string
		if err := json.Unmarshal(raw, &in); err == nil && len(in) > 0 {
			c.In = in
		}
	}
	if c.Equals == nil && c.In == nil {
		return nil
	}
	return &c
}

func parseNumberClause(keys map[string]json.RawMessage) *NumberClause {
	c := NumberClause{
		Equals: decodeNumber(keys["equals"]),
		Gt:     decodeNumber(keys["gt"]),
		Lt:     decodeNumber(keys["lt"]),
	}
	if raw, ok := keys["between"]; ok {
		var pair []float64
		if err := json.Unmarshal(raw, &pair); err == nil && len(pair) == 2 {
			c.Between = &[2]float64{pair[0], pair[1]}
		}
	}
	if c.Equals == nil && c.Gt == nil && c.Lt == nil && c.Between == nil {
		return nil
	}
	return &c
}

func parseDateClause(keys map[string]json.RawMessage) *DateClause {
	c := DateClause{
		On:     decodeDate(keys["on"]),
		Before: decodeDate(keys["before"]),
		After:  decodeDate(keys["after"]),
	}
	if raw, ok := keys["between"]; ok {
		var pair []string
		if err := json.Unmarshal(raw, &pair); err == nil && len(pair) == 2 {
			lo, loOK := parseDate(pair[0])
			hi, hiOK := parseDate(pair[1])
			if loOK && hiOK {
				c.Between = &[2]time.Time{lo, hi}
			}
		}
	}
	if c.On == nil && c.Before == nil && c.After == nil && c.Between == nil {
		return nil
	}
	return &c
}

func parseBoolClause(keys map[string]json.RawMessage) *BoolClause {
	raw, ok := keys["equals"]
	if !ok {
		return nil
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &BoolClause{Equals: &v}
}

func decodeString(raw json.RawMessage) *string {
	if raw == nil {
		return nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func decodeNumber(raw json.RawMessage) *float64 {
	if raw == nil {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func decodeDate(raw json.RawMessage) *time.Time {
	if raw == nil {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	t, ok := parseDate(s)
	if !ok {
		return nil
	}
	return &t
}

// parseDate accepts RFC 3339 timestamps and bare calendar days, the two
// formats clients actually send. Bare days are interpreted as UTC midnight.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}
