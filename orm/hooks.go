package orm

import (
	"context"
)

// Lifecycle interfaces. A model opts in by implementing any of them on its
// pointer type; a non-nil error aborts the operation.
type BeforeCreateInterface interface {
	BeforeCreate(context.Context) error
}

type AfterCreateInterface interface {
	AfterCreate(context.Context) error
}

type BeforeUpdateInterface interface {
	BeforeUpdate(context.Context) error
}

type AfterUpdateInterface interface {
	AfterUpdate(context.Context) error
}

type BeforeDeleteInterface interface {
	BeforeDelete(context.Context) error
}

type AfterDeleteInterface interface {
	AfterDelete(context.Context) error
}

// trigger calls hook when model implements H.
//
//	trigger(ctx, user, BeforeCreateInterface.BeforeCreate)
func trigger[H any](ctx context.Context, model any, hook func(H, context.Context) error) error {
	if m, ok := model.(H); ok {
		return hook(m, ctx)
	}
	return nil
}
