package lead

import (
	"sort"
	"time"

	"leadflow/internal/query"
)

// OwnerField is the DSL name of the owner-scope field. Compile seeds every
// query with an equality condition on it; no code path may build a lead
// query without going through Compile.
const OwnerField = "ownerId"

// Compile turns a validated filter expression plus the requesting owner
// into a store query. All per-field conditions are ANDed; the DSL has no
// OR/NOT combinators.
func Compile(ownerID int64, expr Expression) query.Query {
	q := query.Query{}.Where(OwnerField, query.OpEq, ownerID)

	// Stable condition order keeps generated SQL reproducible.
	fields := make([]string, 0, len(expr))
	for f := range expr {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, field := range fields {
		ff := expr[field]
		switch {
		case ff.String != nil:
			q = compileString(q, field, ff.String)
		case ff.Enum != nil:
			q = compileEnum(q, field, ff.Enum)
		case ff.Number != nil:
			q = compileNumber(q, field, ff.Number)
		case ff.Date != nil:
			q = compileDate(q, field, ff.Date)
		case ff.Bool != nil:
			q = q.Where(field, query.OpEq, *ff.Bool.Equals)
		}
	}

	return q
}

func compileString(q query.Query, field string, c *StringClause) query.Query {
	if c.Equals != nil {
		return q.Where(field, query.OpEq, *c.Equals)
	}
	return q.Where(field, query.OpContains, *c.Contains)
}

func compileEnum(q query.Query, field string, c *EnumClause) query.Query {
	if c.Equals != nil {
		return q.Where(field, query.OpEq, *c.Equals)
	}
	return q.Where(field, query.OpIn, c.In)
}

func compileNumber(q query.Query, field string, c *NumberClause) query.Query {
	if c.Equals != nil {
		return q.Where(field, query.OpEq, *c.Equals)
	}
	if c.Gt != nil {
		q = q.Where(field, query.OpGt, *c.Gt)
	}
	if c.Lt != nil {
		q = q.Where(field, query.OpLt, *c.Lt)
	}
	if c.Between != nil {
		// Inclusive on both ends. Inverted bounds produce an empty
		// range, never an error.
		q = q.Where(field, query.OpGte, c.Between[0])
		q = q.Where(field, query.OpLte, c.Between[1])
	}
	return q
}

func compileDate(q query.Query, field string, c *DateClause) query.Query {
	if c.On != nil {
		// Exact calendar day: the half-open interval
		// [midnight, next midnight) in UTC.
		day := startOfDayUTC(*c.On)
		q = q.Where(field, query.OpGte, day)
		return q.Where(field, query.OpLt, day.AddDate(0, 0, 1))
	}
	if c.Before != nil {
		q = q.Where(field, query.OpLt, *c.Before)
	}
	if c.After != nil {
		q = q.Where(field, query.OpGt, *c.After)
	}
	if c.Between != nil {
		q = q.Where(field, query.OpGte, c.Between[0])
		q = q.Where(field, query.OpLte, c.Between[1])
	}
	return q
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
