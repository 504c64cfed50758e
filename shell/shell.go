// Package shell is the interactive console front end of userdb.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arllen133/userdb/user"
)

const dateLayout = "02.01.2006 15:04"

// UserService is the set of operations the shell drives.
type UserService interface {
	Create(ctx context.Context, name, email string, age int) (*user.User, error)
	List(ctx context.Context) ([]*user.User, error)
	Find(ctx context.Context, id int64) (*user.User, bool, error)
	Update(ctx context.Context, id int64, p user.Patch) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Shell reads menu selections line by line and prints results.
type Shell struct {
	svc UserService
	in  *bufio.Reader
	out io.Writer
}

func New(svc UserService, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		svc: svc,
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Run loops over the menu until 0 is chosen or input ends. Errors inside one
// iteration are printed and the loop continues; only a read failure or a
// cancelled ctx ends Run with an error.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.printMenu()
		choice, err := s.readLine()
		if errors.Is(err, io.EOF) {
			s.goodbye()
			return nil
		}
		if err != nil {
			return err
		}

		if choice == "0" {
			s.goodbye()
			return nil
		}

		err = s.dispatch(ctx, choice)
		switch {
		case errors.Is(err, io.EOF):
			s.goodbye()
			return nil
		case err != nil:
			s.printf("❌ Error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return s.addInteractive(ctx)
	case "2":
		return s.list(ctx)
	case "3":
		return s.findInteractive(ctx)
	case "4":
		return s.updateInteractive(ctx)
	case "5":
		return s.deleteInteractive(ctx)
	default:
		s.printf("❌ Invalid selection!\n")
		return nil
	}
}

func (s *Shell) printMenu() {
	s.printf("\n📋 MENU:\n")
	s.printf("1. Add User\n")
	s.printf("2. List All Users\n")
	s.printf("3. Find User (ID)\n")
	s.printf("4. Update User\n")
	s.printf("5. Delete User\n")
	s.printf("0. Exit\n")
	s.printf("\nYour choice: ")
}

func (s *Shell) goodbye() {
	s.printf("👋 Goodbye!\n")
}

func (s *Shell) addInteractive(ctx context.Context) error {
	name, err := s.prompt("Name: ")
	if err != nil {
		return err
	}
	email, err := s.prompt("Email: ")
	if err != nil {
		return err
	}
	ageStr, err := s.prompt("Age: ")
	if err != nil {
		return err
	}

	age, err := strconv.Atoi(ageStr)
	if err != nil {
		s.printf("❌ Invalid age!\n")
		return nil
	}
	return s.create(ctx, name, email, age)
}

func (s *Shell) findInteractive(ctx context.Context) error {
	id, ok, err := s.promptID("User ID to find: ")
	if err != nil || !ok {
		return err
	}
	return s.find(ctx, id)
}

func (s *Shell) updateInteractive(ctx context.Context) error {
	id, ok, err := s.promptID("User ID to update: ")
	if err != nil || !ok {
		return err
	}

	name, err := s.prompt("New name (leave empty to keep): ")
	if err != nil {
		return err
	}
	email, err := s.prompt("New email (leave empty to keep): ")
	if err != nil {
		return err
	}
	ageStr, err := s.prompt("New age (leave empty to keep): ")
	if err != nil {
		return err
	}

	var p user.Patch
	if name != "" {
		p.Name = &name
	}
	if email != "" {
		p.Email = &email
	}
	if ageStr != "" {
		age, err := strconv.Atoi(ageStr)
		if err != nil {
			return fmt.Errorf("invalid age %q", ageStr)
		}
		p.Age = &age
	}
	return s.update(ctx, id, p)
}

func (s *Shell) deleteInteractive(ctx context.Context) error {
	id, ok, err := s.promptID("User ID to delete: ")
	if err != nil || !ok {
		return err
	}

	answer, err := s.prompt(fmt.Sprintf("Are you sure you want to delete user with ID %d? (y/n): ", id))
	if err != nil {
		return err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return s.delete(ctx, id)
	default:
		s.printf("Operation cancelled.\n")
		return nil
	}
}

func (s *Shell) create(ctx context.Context, name, email string, age int) error {
	u, err := s.svc.Create(ctx, name, email, age)
	if err != nil {
		return err
	}
	s.printf("✅ User added: %s (ID: %d)\n", u.Name, u.ID)
	return nil
}

func (s *Shell) list(ctx context.Context) error {
	users, err := s.svc.List(ctx)
	if err != nil {
		return err
	}

	s.printf("\n📋 All Users:\n")
	s.printf("ID | Name           | Email                    | Age | Created\n")
	s.printf("---|----------------|--------------------------|-----|------------------\n")
	for _, u := range users {
		s.printf("%2d | %-14s | %-24s | %3d | %s\n",
			u.ID, u.Name, u.Email, u.Age, u.CreatedAt.UTC().Format(dateLayout))
	}
	return nil
}

func (s *Shell) find(ctx context.Context, id int64) error {
	u, ok, err := s.svc.Find(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.printf("❌ No user found with ID %d\n", id)
		return nil
	}
	s.printf("👤 User found: %s - %s\n", u.Name, u.Email)
	return nil
}

func (s *Shell) update(ctx context.Context, id int64, p user.Patch) error {
	ok, err := s.svc.Update(ctx, id, p)
	if err != nil {
		return err
	}
	if !ok {
		s.printf("❌ No user found with ID %d\n", id)
		return nil
	}
	s.printf("✅ User updated (ID: %d)\n", id)
	return nil
}

func (s *Shell) delete(ctx context.Context, id int64) error {
	ok, err := s.svc.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		s.printf("❌ No user found with ID %d\n", id)
		return nil
	}
	s.printf("🗑️ User deleted (ID: %d)\n", id)
	return nil
}

// promptID reads an id. Ids are 32-bit in every supported engine, so a
// malformed or out-of-range id is reported and ok is false.
func (s *Shell) promptID(label string) (id int64, ok bool, err error) {
	line, err := s.prompt(label)
	if err != nil {
		return 0, false, err
	}
	id, err = strconv.ParseInt(line, 10, 32)
	if err != nil {
		s.printf("❌ Invalid ID!\n")
		return 0, false, nil
	}
	return id, true, nil
}

func (s *Shell) prompt(label string) (string, error) {
	s.printf("%s", label)
	return s.readLine()
}

// readLine returns the next trimmed input line, or io.EOF once input ends.
// Lines have no length limit; a final line without a newline still counts.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}
