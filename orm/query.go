package orm

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/userdb/clause"
)

// ErrNotFound indicates that no record was found.
var ErrNotFound = errors.New("orm: record not found")

// QueryBuilder is a generic SQL query builder for model T.
//
//	users, err := repo.Query().
//	    Where(user.Columns.ID.Eq(7)).
//	    OrderBy(user.Columns.ID.Asc()).
//	    Find(ctx)
//
// Where and OrderBy modify the builder and return it; the first build error
// is kept and reported by the terminal method.
type QueryBuilder[T any] struct {
	session *Session
	schema  Schema[T]
	builder sq.SelectBuilder
	err     error
}

// Query creates a new QueryBuilder instance for T's table.
func Query[T any](session *Session) *QueryBuilder[T] {
	schema := LoadSchema[T]()
	return &QueryBuilder[T]{
		session: session,
		schema:  schema,
		builder: sq.Select().
			From(session.dialect.Quote(schema.TableName())).
			PlaceholderFormat(session.dialect.PlaceholderFormat()),
	}
}

// Where adds a condition; multiple calls are joined with AND.
func (q *QueryBuilder[T]) Where(expr clause.Expression) *QueryBuilder[T] {
	if q.err != nil {
		return q
	}
	sql, args, err := expr.Build()
	if err != nil {
		q.err = err
		return q
	}
	q.builder = q.builder.Where(sq.Expr(sql, args...))
	return q
}

// OrderBy appends ORDER BY columns.
func (q *QueryBuilder[T]) OrderBy(orders ...clause.OrderByColumn) *QueryBuilder[T] {
	if q.err != nil {
		return q
	}
	for _, order := range orders {
		sql, _, err := order.Build()
		if err != nil {
			q.err = err
			return q
		}
		q.builder = q.builder.OrderBy(sql)
	}
	return q
}

// Limit sets LIMIT.
func (q *QueryBuilder[T]) Limit(n uint64) *QueryBuilder[T] {
	q.builder = q.builder.Limit(n)
	return q
}

// Find executes the query and returns all matching records.
// Returns an empty slice (not nil) if no records are found.
func (q *QueryBuilder[T]) Find(ctx context.Context) ([]*T, error) {
	query, args, err := q.ToSQL()
	if err != nil {
		return nil, err
	}

	results := make([]*T, 0)
	if err := q.session.Select(ctx, &results, query, args...); err != nil {
		return nil, fmt.Errorf("orm: query failed: %w", err)
	}
	return results, nil
}

// Take returns a single matching record without any ordering, or ErrNotFound.
func (q *QueryBuilder[T]) Take(ctx context.Context) (*T, error) {
	results, err := q.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return results[0], nil
}

// First returns the matching record with the lowest primary key, or ErrNotFound.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	pk := q.schema.PK(nil).Column
	return q.OrderBy(clause.OrderByColumn{Column: pk}).Take(ctx)
}

// ToSQL renders the SELECT statement without executing it.
func (q *QueryBuilder[T]) ToSQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	query, args, err := q.builder.Columns(q.schema.SelectColumns()...).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("orm: failed to build sql: %w", err)
	}
	return query, args, nil
}
