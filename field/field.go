// Package field provides typed column references, so predicates and
// assignments over a table only accept values of the column's Go type.
package field

import (
	"github.com/arllen133/userdb/clause"
	"golang.org/x/exp/constraints"
)

// Number references an integer column holding values of type T.
type Number[T constraints.Integer] struct {
	column clause.Column
}

// WithColumn returns a reference to the named column.
func (Number[T]) WithColumn(name string) Number[T] {
	return Number[T]{column: clause.Column{Name: name}}
}

// Eq matches rows where the column equals value.
func (n Number[T]) Eq(value T) clause.Expression {
	return clause.Eq{Column: n.column, Value: value}
}

// Set assigns value to the column in an UPDATE.
func (n Number[T]) Set(value T) clause.Assignment {
	return clause.Assignment{Column: n.column, Value: value}
}

// Asc orders by the column, smallest first.
func (n Number[T]) Asc() clause.OrderByColumn {
	return clause.OrderByColumn{Column: n.column}
}

// String references a text column.
type String struct {
	column clause.Column
}

func (String) WithColumn(name string) String {
	return String{column: clause.Column{Name: name}}
}

// Set assigns value to the column in an UPDATE.
func (s String) Set(value string) clause.Assignment {
	return clause.Assignment{Column: s.column, Value: value}
}
