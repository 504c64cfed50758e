// Package user holds the User entity and the data-access operations over the
// Users table.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid user")

var validate = validator.New(validator.WithRequiredStructEnabled())

// User is one row of the Users table.
type User struct {
	ID        int64     `db:"id,primaryKey,autoIncrement"`
	Name      string    `db:"name" validate:"required,max=100"`
	Email     string    `db:"email" validate:"required,max=150,email"`
	Age       int       `db:"age"`
	CreatedAt time.Time `db:"created_at"`
}

// BeforeCreate stamps the creation time and validates the record.
func (u *User) BeforeCreate(context.Context) error {
	u.CreatedAt = time.Now().UTC()
	return u.Validate()
}

// BeforeUpdate validates the record as it will be after the update.
func (u *User) BeforeUpdate(context.Context) error {
	return u.Validate()
}

// Validate checks the name and email constraints.
func (u *User) Validate() error {
	err := validate.Struct(u)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return fmt.Sprintf("%s %q is not a valid address", name, fe.Value())
	case "max":
		return fmt.Sprintf("%s exceeds %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", name, fe.Tag())
	}
}
