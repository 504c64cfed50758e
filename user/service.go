package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/arllen133/userdb/orm"
	"go.uber.org/zap"
)

// ErrDuplicateEmail is returned when a create or update collides with the
// unique email index. The driver error stays in the chain.
var ErrDuplicateEmail = errors.New("email already registered")

// Service implements the user operations over one session.
type Service struct {
	session *orm.Session
	logger  *zap.Logger
}

func NewService(session *orm.Session, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{session: session, logger: logger.Named("user")}
}

// Create inserts a new user and returns it with its generated id and
// creation time.
func (s *Service) Create(ctx context.Context, name, email string, age int) (*User, error) {
	u := &User{Name: name, Email: email, Age: age}
	if err := orm.NewRepository[User](s.session).Create(ctx, u); err != nil {
		return nil, s.classify(err, email)
	}

	s.logger.Info("user created", zap.Int64("id", u.ID), zap.String("email", u.Email))
	return u, nil
}

// List returns every user ordered by id.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return orm.NewRepository[User](s.session).Query().
		OrderBy(Columns.ID.Asc()).
		Find(ctx)
}

// Find looks a user up by id. A missing row reports false, not an error.
func (s *Service) Find(ctx context.Context, id int64) (*User, bool, error) {
	u, err := orm.NewRepository[User](s.session).Query().
		Where(Columns.ID.Eq(id)).
		Take(ctx)
	if errors.Is(err, orm.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Update applies p to the user with the given id inside one transaction.
// It reports false when no such user exists. A patch that changes nothing
// succeeds without writing.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (bool, error) {
	var found bool
	err := s.session.Transaction(ctx, func(tx *orm.Session) error {
		repo := orm.NewRepository[User](tx)
		u, err := repo.FindOne(ctx, id)
		if errors.Is(err, orm.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true

		set := p.apply(u)
		if err := repo.UpdateColumns(ctx, u, set...); err != nil {
			return s.classify(err, u.Email)
		}
		if len(set) > 0 {
			s.logger.Info("user updated", zap.Int64("id", id), zap.Int("columns", len(set)))
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Delete removes the user with the given id inside one transaction and
// reports whether it existed.
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	var found bool
	err := s.session.Transaction(ctx, func(tx *orm.Session) error {
		repo := orm.NewRepository[User](tx)
		u, err := repo.FindOne(ctx, id)
		if errors.Is(err, orm.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := repo.Delete(ctx, u); err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if found {
		s.logger.Info("user deleted", zap.Int64("id", id))
	}
	return found, nil
}

func (s *Service) classify(err error, email string) error {
	if s.session.Dialect().IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: %w", ErrDuplicateEmail, email, err)
	}
	return err
}
