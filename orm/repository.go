package orm

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/arllen133/userdb/clause"
)

// Repository manages CRUD operations for model T.
//
// Usage example:
//
//	repo := orm.NewRepository[user.User](session)
//
//	u := &user.User{Name: "Ada", Email: "ada@x.com", Age: 30}
//	if err := repo.Create(ctx, u); err != nil {
//	    return err
//	}
//	fmt.Println("Created user ID:", u.ID) // generated key back-filled
//
//	found, err := repo.FindOne(ctx, u.ID)
//	if errors.Is(err, orm.ErrNotFound) {
//	    // no such row
//	}
type Repository[T any] struct {
	session *Session
	schema  Schema[T]
}

// NewRepository creates a Repository bound to session, which may be a
// transaction session. Model T must be registered via RegisterSchema.
func NewRepository[T any](session *Session) *Repository[T] {
	return &Repository[T]{
		session: session,
		schema:  LoadSchema[T](),
	}
}

func (r *Repository[T]) table() string {
	return r.session.dialect.Quote(r.schema.TableName())
}

// Create inserts model and back-fills its generated primary key.
//
// Operation flow:
//  1. Trigger BeforeCreate hook
//  2. INSERT the columns reported by schema.InsertRow
//  3. Read the generated key via RETURNING, or LastInsertId where RETURNING is unavailable
//  4. Trigger AfterCreate hook
//
// Driver errors stay in the wrapped chain, so Dialect.IsUniqueViolation can
// classify a constraint violation.
func (r *Repository[T]) Create(ctx context.Context, model *T) error {
	if err := trigger(ctx, model, BeforeCreateInterface.BeforeCreate); err != nil {
		return err
	}

	cols, vals := r.schema.InsertRow(model)
	builder := sq.Insert(r.table()).
		Columns(cols...).
		Values(vals...).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat())

	returning := r.schema.AutoIncrement() && r.session.dialect.SupportsReturning()
	if returning {
		builder = builder.Suffix("RETURNING " + r.schema.PK(nil).Column.Name)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("orm: failed to build sql: %w", err)
	}

	switch {
	case returning:
		var id int64
		if err := r.session.Get(ctx, &id, query, args...); err != nil {
			return fmt.Errorf("orm: insert into %s: %w", r.schema.TableName(), err)
		}
		r.schema.SetPK(model, id)
	default:
		result, err := r.session.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("orm: insert into %s: %w", r.schema.TableName(), err)
		}
		if r.schema.AutoIncrement() {
			id, err := result.LastInsertId()
			if err != nil {
				return fmt.Errorf("orm: read generated key: %w", err)
			}
			r.schema.SetPK(model, id)
		}
	}

	return trigger(ctx, model, AfterCreateInterface.AfterCreate)
}

// FindOne queries a single record by primary key.
// Returns ErrNotFound if no record matches.
func (r *Repository[T]) FindOne(ctx context.Context, id any) (*T, error) {
	pk := r.schema.PK(nil)
	return r.Query().Where(clause.Eq{Column: pk.Column, Value: id}).Take(ctx)
}

// Query returns a QueryBuilder over the model's table.
func (r *Repository[T]) Query() *QueryBuilder[T] {
	return Query[T](r.session)
}

// Update writes the columns reported by schema.UpdateMap for the row
// identified by model's primary key, triggering BeforeUpdate/AfterUpdate.
//
// A row that matches but whose values are unchanged is not an error; some
// engines (MySQL) report zero affected rows for it, so no row count check is made.
func (r *Repository[T]) Update(ctx context.Context, model *T) error {
	if err := trigger(ctx, model, BeforeUpdateInterface.BeforeUpdate); err != nil {
		return err
	}

	setMap := r.schema.UpdateMap(model)
	if len(setMap) == 0 {
		return trigger(ctx, model, AfterUpdateInterface.AfterUpdate)
	}

	pk := r.schema.PK(model)
	query, args, err := sq.Update(r.table()).
		SetMap(setMap).
		Where(sq.Eq{pk.Column.Name: pk.Value}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return fmt.Errorf("orm: failed to build sql: %w", err)
	}

	if _, err := r.session.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("orm: update %s: %w", r.schema.TableName(), err)
	}

	return trigger(ctx, model, AfterUpdateInterface.AfterUpdate)
}

// UpdateColumns writes only the given assignments for the row identified by
// model's primary key. The hooks run against model, which must already hold
// the assigned values.
//
//	u.Age = 31
//	err := repo.UpdateColumns(ctx, u, user.Columns.Age.Set(31))
func (r *Repository[T]) UpdateColumns(ctx context.Context, model *T, assignments ...clause.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	if err := trigger(ctx, model, BeforeUpdateInterface.BeforeUpdate); err != nil {
		return err
	}

	pk := r.schema.PK(model)
	builder := sq.Update(r.table()).
		Where(sq.Eq{pk.Column.Name: pk.Value}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat())
	for _, a := range assignments {
		builder = builder.Set(a.Column.Name, a.Value)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("orm: failed to build sql: %w", err)
	}
	if _, err := r.session.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("orm: update %s: %w", r.schema.TableName(), err)
	}

	return trigger(ctx, model, AfterUpdateInterface.AfterUpdate)
}

// Delete permanently removes the row identified by model's primary key,
// triggering BeforeDelete/AfterDelete. Returns ErrNotFound if no row was removed.
func (r *Repository[T]) Delete(ctx context.Context, model *T) error {
	if err := trigger(ctx, model, BeforeDeleteInterface.BeforeDelete); err != nil {
		return err
	}

	pk := r.schema.PK(model)
	query, args, err := sq.Delete(r.table()).
		Where(sq.Eq{pk.Column.Name: pk.Value}).
		PlaceholderFormat(r.session.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return fmt.Errorf("orm: failed to build sql: %w", err)
	}

	result, err := r.session.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("orm: delete from %s: %w", r.schema.TableName(), err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	return trigger(ctx, model, AfterDeleteInterface.AfterDelete)
}
