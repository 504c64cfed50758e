package user_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arllen133/userdb/user"
)

func BenchmarkCreate(b *testing.B) {
	svc := setupService(b, nil)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Create(ctx, "bench", fmt.Sprintf("bench%d@test.com", i), 30); err != nil {
			b.Fatalf("Create failed: %v", err)
		}
	}
}

func BenchmarkFind(b *testing.B) {
	svc := setupService(b, nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, "find_me", "find@test.com", 30)
	if err != nil {
		b.Fatalf("Failed to seed user: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok, err := svc.Find(ctx, u.ID); err != nil || !ok {
			b.Fatalf("Find failed: ok=%v err=%v", ok, err)
		}
	}
}

func BenchmarkList100(b *testing.B) {
	svc := setupService(b, nil)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if _, err := svc.Create(ctx, "list", fmt.Sprintf("list%d@test.com", i), i); err != nil {
			b.Fatalf("Failed to seed users: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		users, err := svc.List(ctx)
		if err != nil || len(users) != 100 {
			b.Fatalf("List failed: n=%d err=%v", len(users), err)
		}
	}
}

func BenchmarkUpdate(b *testing.B) {
	svc := setupService(b, nil)
	ctx := context.Background()

	u, err := svc.Create(ctx, "update_me", "update@test.com", 0)
	if err != nil {
		b.Fatalf("Failed to seed user: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		age := i + 1
		if _, err := svc.Update(ctx, u.ID, user.Patch{Age: &age}); err != nil {
			b.Fatalf("Update failed: %v", err)
		}
	}
}
