package user

import (
	"github.com/arllen133/userdb/clause"
	"github.com/arllen133/userdb/field"
	"github.com/arllen133/userdb/orm"
)

const (
	TableName  = "Users"
	EmailIndex = "ix_users_email"

	NameMaxLen  = 100
	EmailMaxLen = 150
)

// Columns are the typed references to the Users columns that queries and
// updates address. created_at is written once at insert and never filtered on.
var Columns = struct {
	ID    field.Number[int64]
	Name  field.String
	Email field.String
	Age   field.Number[int]
}{
	ID:    field.Number[int64]{}.WithColumn("id"),
	Name:  field.String{}.WithColumn("name"),
	Email: field.String{}.WithColumn("email"),
	Age:   field.Number[int]{}.WithColumn("age"),
}

type userSchema struct{}

func (userSchema) TableName() string { return TableName }

// Table is the Users table definition handed to orm.EnsureSchema.
func (userSchema) Table() orm.TableDef {
	return orm.TableDef{
		Name: TableName,
		Columns: []orm.ColumnDef{
			{Name: "id", Type: orm.TypeInteger, PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: orm.TypeString, Size: NameMaxLen, NotNull: true},
			{Name: "email", Type: orm.TypeString, Size: EmailMaxLen, NotNull: true},
			{Name: "age", Type: orm.TypeInteger, NotNull: true},
			{Name: "created_at", Type: orm.TypeTimestamp, NotNull: true},
		},
		Indexes: []orm.IndexDef{
			{Name: EmailIndex, Columns: []string{"email"}, Unique: true},
		},
	}
}

func (userSchema) SelectColumns() []string {
	return []string{"id", "name", "email", "age", "created_at"}
}

func (userSchema) InsertRow(u *User) ([]string, []any) {
	return []string{"name", "email", "age", "created_at"},
		[]any{u.Name, u.Email, u.Age, u.CreatedAt}
}

// UpdateMap leaves out id and created_at, which are written once.
func (userSchema) UpdateMap(u *User) map[string]any {
	return map[string]any{
		"name":  u.Name,
		"email": u.Email,
		"age":   u.Age,
	}
}

func (userSchema) PK(u *User) orm.PK {
	var val any
	if u != nil {
		val = u.ID
	}
	return orm.PK{
		Column: clause.Column{Name: "id"},
		Value:  val,
	}
}

func (userSchema) SetPK(u *User, val int64) {
	u.ID = val
}

func (userSchema) AutoIncrement() bool { return true }

// Table returns the Users table definition.
func Table() orm.TableDef { return userSchema{}.Table() }

func init() {
	orm.RegisterSchema[User](userSchema{})
}
