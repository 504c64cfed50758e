package shell_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arllen133/userdb/orm"
	"github.com/arllen133/userdb/shell"
	"github.com/arllen133/userdb/user"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *user.Service {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	sess := orm.NewSession(db, orm.SQLite)
	require.NoError(t, orm.EnsureSchema(context.Background(), sess, user.Table()))
	return user.NewService(sess, nil)
}

// run feeds lines to a shell over svc and returns everything it printed.
func run(t *testing.T, svc shell.UserService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	require.NoError(t, shell.New(svc, in, &out).Run(context.Background()))
	return out.String()
}

func TestRunScenario(t *testing.T) {
	svc := newService(t)

	out := run(t, svc,
		"1", "Ada", "ada@x.com", "30",
		"1", "Bob", "bob@x.com", "25",
		"2",
		"4", "1", "", "", "31",
		"3", "1",
		"5", "2", "YES",
		"3", "2",
		"0",
	)

	assert.Contains(t, out, "✅ User added: Ada (ID: 1)")
	assert.Contains(t, out, "✅ User added: Bob (ID: 2)")
	assert.Contains(t, out, "ID | Name           | Email                    | Age | Created")
	assert.Contains(t, out, " 1 | Ada            | ada@x.com                |  30 | ")
	assert.Contains(t, out, " 2 | Bob            | bob@x.com                |  25 | ")
	assert.Contains(t, out, "✅ User updated (ID: 1)")
	assert.Contains(t, out, "👤 User found: Ada - ada@x.com")
	assert.Contains(t, out, "🗑️ User deleted (ID: 2)")
	assert.Contains(t, out, "❌ No user found with ID 2")
	assert.True(t, strings.HasSuffix(out, "👋 Goodbye!\n"))

	u, ok, err := svc.Find(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 31, u.Age)
	assert.Equal(t, "Ada", u.Name)
}

func TestRunListDateFormat(t *testing.T) {
	created := time.Date(2024, 3, 9, 7, 5, 0, 0, time.UTC)
	svc := &fakeService{users: []*user.User{{ID: 3, Name: "Ada", Email: "ada@x.com", Age: 30, CreatedAt: created}}}

	out := run(t, svc, "2", "0")
	assert.Contains(t, out, " 3 | Ada            | ada@x.com                |  30 | 09.03.2024 07:05\n")
}

func TestRunInputErrors(t *testing.T) {
	svc := newService(t)

	out := run(t, svc,
		"9",
		"",
		"1", "Ada", "ada@x.com", "thirty",
		"3", "abc",
		"4", "x",
		"5", "1.5",
		"0",
	)

	assert.Equal(t, 2, strings.Count(out, "❌ Invalid selection!"))
	assert.Equal(t, 1, strings.Count(out, "❌ Invalid age!"))
	assert.Equal(t, 3, strings.Count(out, "❌ Invalid ID!"))
	assert.NotContains(t, out, "User added")

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRunOutOfRangeID(t *testing.T) {
	svc := newService(t)

	out := run(t, svc,
		"3", "3000000000",
		"4", "-2147483649",
		"5", "2147483648",
		"3", "2147483647",
		"0",
	)

	assert.Equal(t, 3, strings.Count(out, "❌ Invalid ID!"))
	assert.Contains(t, out, "❌ No user found with ID 2147483647")
	assert.NotContains(t, out, "❌ Error:")
}

func TestRunOverlongLine(t *testing.T) {
	svc := newService(t)
	long := strings.Repeat("n", 70000)

	out := run(t, svc,
		"1", long, "ada@x.com", "30",
		long,
		"2",
		"0",
	)

	assert.Contains(t, out, "❌ Error: invalid user: name exceeds 100 characters")
	assert.Contains(t, out, "❌ Invalid selection!")
	assert.Contains(t, out, "📋 All Users:")
	assert.True(t, strings.HasSuffix(out, "👋 Goodbye!\n"))

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRunErrorsDoNotStopLoop(t *testing.T) {
	svc := newService(t)

	out := run(t, svc,
		"1", "Ada", "ada@x.com", "30",
		"1", "Ada", "ada@x.com", "30",
		"1", "", "nobody@x.com", "30",
		"4", "1", "", "", "old",
		"2",
		"0",
	)

	assert.Contains(t, out, "❌ Error: email already registered: ada@x.com")
	assert.Contains(t, out, "❌ Error: invalid user: name is required")
	assert.Contains(t, out, `❌ Error: invalid age "old"`)
	assert.Contains(t, out, " 1 | Ada ")
	assert.True(t, strings.HasSuffix(out, "👋 Goodbye!\n"))
}

func TestRunDeleteConfirmation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, "Ada", "ada@x.com", 30)
	require.NoError(t, err)

	out := run(t, svc,
		"5", "1", "n",
		"5", "1", "",
		"5", "1", "yep",
		"0",
	)
	assert.Equal(t, 3, strings.Count(out, "Operation cancelled."))
	assert.Contains(t, out, "Are you sure you want to delete user with ID 1? (y/n): ")

	_, ok, err := svc.Find(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	out = run(t, svc, "5", "1", "Y", "0")
	assert.Contains(t, out, "🗑️ User deleted (ID: 1)")

	out = run(t, svc, "5", "1", "y", "0")
	assert.Contains(t, out, "❌ No user found with ID 1")
}

func TestRunEndOfInput(t *testing.T) {
	svc := newService(t)

	t.Run("AtMenu", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, shell.New(svc, strings.NewReader(""), &out).Run(context.Background()))
		assert.True(t, strings.HasSuffix(out.String(), "👋 Goodbye!\n"))
	})

	t.Run("UnterminatedLastLine", func(t *testing.T) {
		var out bytes.Buffer
		in := strings.NewReader("1\nAda\nada@x.com\n30")
		require.NoError(t, shell.New(svc, in, &out).Run(context.Background()))
		assert.Contains(t, out.String(), "✅ User added: Ada")
		assert.True(t, strings.HasSuffix(out.String(), "👋 Goodbye!\n"))
	})

	t.Run("MidPrompt", func(t *testing.T) {
		var out bytes.Buffer
		in := strings.NewReader("1\nAda\n")
		require.NoError(t, shell.New(svc, in, &out).Run(context.Background()))
		assert.NotContains(t, out.String(), "User added")
		assert.True(t, strings.HasSuffix(out.String(), "👋 Goodbye!\n"))
	})
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := shell.New(&fakeService{}, strings.NewReader("2\n"), &out).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunServiceFailure(t *testing.T) {
	svc := &fakeService{err: errors.New("connection reset")}

	out := run(t, svc, "2", "3", "1", "5", "1", "y", "0")
	assert.Equal(t, 3, strings.Count(out, "❌ Error: connection reset"))
}

func TestRunDemo(t *testing.T) {
	svc := newService(t)

	var out bytes.Buffer
	require.NoError(t, shell.New(svc, strings.NewReader(""), &out).RunDemo(context.Background()))

	text := out.String()
	assert.Contains(t, text, "✅ User added: Ada Lovelace (ID: 1)")
	assert.Contains(t, text, "👤 User found: Ada Lovelace - ada.lovelace@example.com")
	assert.Contains(t, text, "✅ User updated (ID: 1)")
	assert.Equal(t, 2, strings.Count(text, "📋 All Users:"))
	assert.True(t, strings.HasSuffix(text, strings.Repeat("=", 50)+"\n"))

	u, ok, err := svc.Find(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace (updated)", u.Name)
	assert.Equal(t, 37, u.Age)

	// A second run collides on the unique email.
	err = shell.New(svc, strings.NewReader(""), &out).RunDemo(context.Background())
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

type fakeService struct {
	users []*user.User
	err   error
}

func (f *fakeService) Create(_ context.Context, name, email string, age int) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u := &user.User{ID: int64(len(f.users) + 1), Name: name, Email: email, Age: age, CreatedAt: time.Now().UTC()}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeService) List(context.Context) ([]*user.User, error) {
	return f.users, f.err
}

func (f *fakeService) Find(_ context.Context, id int64) (*user.User, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	for _, u := range f.users {
		if u.ID == id {
			return u, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeService) Update(context.Context, int64, user.Patch) (bool, error) {
	return false, f.err
}

func (f *fakeService) Delete(context.Context, int64) (bool, error) {
	return false, f.err
}
