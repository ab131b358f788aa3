package adapter

import (
	"strings"
	"unicode"

	"github.com/swpdata/sitecat/internal/ent/model"
)

// Op is the comparison a predicate performs on one raw field.
type Op int

const (
	OpEquals Op = iota
	OpContains
	OpEmpty
	OpNotEmpty
	OpNonASCII
)

// Predicate is one declarative row test: an operation over a single raw
// field, with an optional comparison value. Keeping predicates as data, not
// closures, keeps source configs printable and testable one rule at a time.
type Predicate struct {
	Field string
	Op    Op
	Value string
}

// FieldEquals matches rows whose field equals value exactly.
func FieldEquals(field, value string) Predicate {
	return Predicate{Field: field, Op: OpEquals, Value: value}
}

// FieldContains matches rows whose field contains value.
func FieldContains(field, value string) Predicate {
	return Predicate{Field: field, Op: OpContains, Value: value}
}

// FieldEmpty matches rows whose field is empty or whitespace.
func FieldEmpty(field string) Predicate {
	return Predicate{Field: field, Op: OpEmpty}
}

// FieldNotEmpty matches rows whose field has a non-blank value.
func FieldNotEmpty(field string) Predicate {
	return Predicate{Field: field, Op: OpNotEmpty}
}

// FieldNonASCII matches rows whose field contains characters outside ASCII.
// Some providers mark records of partner organizations with accented or
// syllabic names; the identifier rule keys off that.
func FieldNonASCII(field string) Predicate {
	return Predicate{Field: field, Op: OpNonASCII}
}

// Match evaluates the predicate against one row.
func (p Predicate) Match(row model.Row) bool {
	v := row[p.Field]
	switch p.Op {
	case OpEquals:
		return v == p.Value
	case OpContains:
		return strings.Contains(v, p.Value)
	case OpEmpty:
		return strings.TrimSpace(v) == ""
	case OpNotEmpty:
		return strings.TrimSpace(v) != ""
	case OpNonASCII:
		for _, r := range v {
			if r > unicode.MaxASCII {
				return true
			}
		}
		return false
	}
	return false
}
