// Package clause holds the SQL fragments the orm query builder composes:
// column references, equality predicates, SET assignments and ORDER BY terms.
// Every fragment renders with ? placeholders; the session dialect rebinds them.
package clause

// Column names one column of the table being queried.
type Column struct {
	Name string
}

// Expression renders itself as a SQL fragment and its bound arguments.
type Expression interface {
	Build() (sql string, args []any, err error)
}

// Eq matches rows whose column equals Value.
type Eq struct {
	Column Column
	Value  any
}

func (e Eq) Build() (string, []any, error) {
	return e.Column.Name + " = ?", []any{e.Value}, nil
}

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column Column
	Value  any
}

func (a Assignment) Build() (string, []any, error) {
	return a.Column.Name + " = ?", []any{a.Value}, nil
}

// OrderByColumn sorts by Column, ascending unless Desc is set.
type OrderByColumn struct {
	Column Column
	Desc   bool
}

func (o OrderByColumn) Build() (string, []any, error) {
	if o.Desc {
		return o.Column.Name + " DESC", nil, nil
	}
	return o.Column.Name, nil, nil
}
