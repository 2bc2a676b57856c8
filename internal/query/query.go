// Package query defines the store-agnostic representation of a compiled
// lead query: a flat conjunction of field conditions. The repository layer
// translates conditions into SQL; everything above it stays independent of
// the storage engine.
package query

// Op is a comparison operator supported by the store adapter.
type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains" // case-insensitive substring
	OpIn       Op = "in"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
)

// Condition compares a single field against a value.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Query is a conjunction of conditions. There is no OR/NOT support: the
// filter DSL is a flat per-field mapping and every condition is ANDed.
type Query struct {
	Conditions []Condition
}

// Where appends a condition and returns the query for chaining.
func (q Query) Where(field string, op Op, value any) Query {
	q.Conditions = append(q.Conditions, Condition{Field: field, Op: op, Value: value})
	return q
}

// HasCondition reports whether any condition targets the given field.
func (q Query) HasCondition(field string) bool {
	for _, c := range q.Conditions {
		if c.Field == field {
			return true
		}
	}
	return false
}
