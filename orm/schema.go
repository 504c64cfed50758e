package orm

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/arllen133/userdb/clause"
)

type PK = clause.Eq

// Schema defines how to map a model to a table and back
type Schema[T any] interface {
	// Table Metadata
	TableName() string
	Table() TableDef

	// Read Operations
	SelectColumns() []string

	// Write Operations
	InsertRow(*T) ([]string, []any)

	// Update Operations; never includes the primary key or write-once columns
	UpdateMap(*T) map[string]any

	// Primary Key
	PK(*T) PK
	SetPK(m *T, val int64)
	AutoIncrement() bool
}

// ColumnType is the portable storage type of a column.
type ColumnType int

const (
	TypeInteger ColumnType = iota
	TypeString
	TypeTimestamp
)

// ColumnDef describes one column for schema bootstrap.
type ColumnDef struct {
	Name          string
	Type          ColumnType
	Size          int // maximum length for TypeString, 0 = unbounded
	NotNull       bool
	PrimaryKey    bool
	AutoIncrement bool
}

// IndexDef describes one index for schema bootstrap.
type IndexDef struct {
	Name    string
	Columns []string
	Unique  bool
}

// TableDef is the declared shape of a table.
type TableDef struct {
	Name    string
	Columns []ColumnDef
	Indexes []IndexDef
}

var (
	schemasMu sync.RWMutex
	schemas   = make(map[reflect.Type]any)
)

func RegisterSchema[T any](schema Schema[T]) {
	typ := reflect.TypeFor[T]()
	schemasMu.Lock()
	schemas[typ] = schema
	schemasMu.Unlock()
}

func LoadSchema[T any]() Schema[T] {
	typ := reflect.TypeFor[T]()
	schemasMu.RLock()
	s, ok := schemas[typ]
	schemasMu.RUnlock()
	if ok {
		return s.(Schema[T])
	}
	panic(fmt.Sprintf("orm: schema not registered for type %v", typ))
}
