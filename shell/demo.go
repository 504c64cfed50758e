package shell

import (
	"context"
	"strings"

	"github.com/arllen133/userdb/user"
)

// RunDemo runs the scripted scenario: create one user, list, find it,
// rename it and bump its age, list again. The first failing step ends the
// demo with its error.
func (s *Shell) RunDemo(ctx context.Context) error {
	s.printf("🎯 Starting demo...\n\n")

	u, err := s.svc.Create(ctx, "Ada Lovelace", "ada.lovelace@example.com", 36)
	if err != nil {
		return err
	}
	s.printf("✅ User added: %s (ID: %d)\n", u.Name, u.ID)

	if err := s.list(ctx); err != nil {
		return err
	}

	s.printf("\n🔍 Find by ID:\n")
	if err := s.find(ctx, u.ID); err != nil {
		return err
	}

	s.printf("\n📝 Update:\n")
	name := u.Name + " (updated)"
	age := u.Age + 1
	if err := s.update(ctx, u.ID, user.Patch{Name: &name, Age: &age}); err != nil {
		return err
	}

	if err := s.list(ctx); err != nil {
		return err
	}

	s.printf("\n%s\n", strings.Repeat("=", 50))
	return nil
}
