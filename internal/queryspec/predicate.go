package queryspec

import (
	"github.com/blotterlabs/blotter/internal/table"
	"github.com/blotterlabs/blotter/internal/value"
)

// Predicate is a sealed interface over row filters.
// Only Equals, NotNull, DateRange, and And implement it.
type Predicate interface {
	predicate() // Sealed - only these types implement it

	// Matches reports whether a raw row passes the filter.
	// A Null cell never matches Equals or DateRange.
	Matches(row table.Row) bool

	// Fields returns every dataset column the predicate reads.
	Fields() []string
}

// Equals matches rows whose cell equals the given value.
type Equals struct {
	Field string
	Value value.Value
}

func (Equals) predicate() {}

func (p Equals) Matches(row table.Row) bool {
	cell := row.Get(p.Field)
	if value.IsNull(cell) {
		return false
	}
	return value.Equal(cell, p.Value)
}

func (p Equals) Fields() []string { return []string{p.Field} }

// NotNull matches rows whose cell is present and non-null.
type NotNull struct {
	Field string
}

func (NotNull) predicate() {}

func (p NotNull) Matches(row table.Row) bool {
	return !value.IsNull(row.Get(p.Field))
}

func (p NotNull) Fields() []string { return []string{p.Field} }

// DateRange matches rows whose ISO date cell falls within [From, To],
// inclusive. Either bound may be empty for an open end. ISO dates compare
// correctly as strings, so no time parsing happens per row.
type DateRange struct {
	Field string
	From  string // "2006-01-02" or empty
	To    string // "2006-01-02" or empty
}

func (DateRange) predicate() {}

func (p DateRange) Matches(row table.Row) bool {
	cell := row.Get(p.Field)
	s, ok := cell.(value.String)
	if !ok {
		return false
	}
	d := string(s)
	if d == "" {
		return false
	}
	if p.From != "" && d < p.From {
		return false
	}
	if p.To != "" && d > p.To {
		return false
	}
	return true
}

func (p DateRange) Fields() []string { return []string{p.Field} }

// And matches rows satisfying every child predicate.
// An empty And matches everything (vacuous truth).
type And struct {
	Predicates []Predicate
}

func (And) predicate() {}

func (p And) Matches(row table.Row) bool {
	for _, child := range p.Predicates {
		if !child.Matches(row) {
			return false
		}
	}
	return true
}

func (p And) Fields() []string {
	var fields []string
	for _, child := range p.Predicates {
		fields = append(fields, child.Fields()...)
	}
	return fields
}
