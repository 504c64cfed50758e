package orm_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/arllen133/userdb/clause"
	"github.com/arllen133/userdb/orm"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Account is the model the orm tests run against.
type Account struct {
	ID        int64     `db:"id,primaryKey,autoIncrement"`
	Handle    string    `db:"handle"`
	Email     string    `db:"email"`
	Visits    int       `db:"visits"`
	CreatedAt time.Time `db:"created_at"`

	events []string
}

func (a *Account) BeforeCreate(context.Context) error {
	if a.Handle == "reject" {
		return errRejected
	}
	a.events = append(a.events, "before_create")
	return nil
}

func (a *Account) AfterCreate(context.Context) error {
	a.events = append(a.events, "after_create")
	return nil
}

func (a *Account) BeforeUpdate(context.Context) error {
	a.events = append(a.events, "before_update")
	return nil
}

func (a *Account) AfterUpdate(context.Context) error {
	a.events = append(a.events, "after_update")
	return nil
}

func (a *Account) BeforeDelete(context.Context) error {
	a.events = append(a.events, "before_delete")
	return nil
}

func (a *Account) AfterDelete(context.Context) error {
	a.events = append(a.events, "after_delete")
	return nil
}

type accountSchema struct{}

func (accountSchema) TableName() string { return "accounts" }

func (accountSchema) Table() orm.TableDef {
	return orm.TableDef{
		Name: "accounts",
		Columns: []orm.ColumnDef{
			{Name: "id", Type: orm.TypeInteger, PrimaryKey: true, AutoIncrement: true},
			{Name: "handle", Type: orm.TypeString, Size: 20, NotNull: true},
			{Name: "email", Type: orm.TypeString, Size: 100, NotNull: true},
			{Name: "visits", Type: orm.TypeInteger, NotNull: true},
			{Name: "created_at", Type: orm.TypeTimestamp, NotNull: true},
		},
		Indexes: []orm.IndexDef{
			{Name: "ix_accounts_email", Columns: []string{"email"}, Unique: true},
		},
	}
}

func (accountSchema) SelectColumns() []string {
	return []string{"id", "handle", "email", "visits", "created_at"}
}

func (accountSchema) InsertRow(m *Account) ([]string, []any) {
	return []string{"handle", "email", "visits", "created_at"},
		[]any{m.Handle, m.Email, m.Visits, m.CreatedAt}
}

func (accountSchema) UpdateMap(m *Account) map[string]any {
	return map[string]any{"handle": m.Handle, "email": m.Email, "visits": m.Visits}
}

func (accountSchema) PK(m *Account) orm.PK {
	var val any
	if m != nil {
		val = m.ID
	}
	return orm.PK{Column: clause.Column{Name: "id"}, Value: val}
}

func (accountSchema) SetPK(m *Account, val int64) { m.ID = val }
func (accountSchema) AutoIncrement() bool         { return true }

func init() {
	orm.RegisterSchema[Account](accountSchema{})
}

// setupTestDB opens the test database, ensures the accounts table and returns
// a session over it. TEST_DRIVER/TEST_DSN select another engine.
func setupTestDB(t *testing.T, opts ...orm.SessionOption) *orm.Session {
	t.Helper()

	driver := os.Getenv("TEST_DRIVER")
	dsn := os.Getenv("TEST_DSN")
	if driver == "" {
		driver = "sqlite3"
		dsn = ":memory:"
	}

	dialect, err := orm.DialectFor(driver)
	require.NoError(t, err)

	db, err := sql.Open(dialect.DriverName(), dsn)
	require.NoError(t, err)
	// One connection keeps a single :memory: database for the whole test.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	sess := orm.NewSession(db, dialect, opts...)
	require.NoError(t, orm.EnsureSchema(context.Background(), sess, accountSchema{}.Table()))
	if driver != "sqlite3" {
		_, err = sess.Exec(context.Background(), "DELETE FROM "+dialect.Quote("accounts"))
		require.NoError(t, err)
	}
	return sess
}

func newAccount(handle string) *Account {
	return &Account{
		Handle:    handle,
		Email:     handle + "@example.com",
		Visits:    1,
		CreatedAt: time.Now().UTC(),
	}
}
