package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/quiverdb/quiver/pkg/types"
)

// Column describes a single column of a table schema.
type Column struct {
	Name string
	Type types.DataType
}

// String returns the column rendered as name:type.
func (c Column) String() string {
	return fmt.Sprintf("%s:%s", c.Name, c.Type)
}

// Table describes a named table and its ordered columns.
type Table struct {
	Name    string
	Columns []Column
}

// Column returns the column with the given name, and reports whether the
// table has one.
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ArrowSchema returns the Arrow schema for records of the table.
func (t *Table) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, 0, len(t.Columns))
	for _, c := range t.Columns {
		fields = append(fields, arrow.Field{
			Name:     c.Name,
			Type:     types.ToArrow[c.Type],
			Nullable: true,
		})
	}
	return arrow.NewSchema(fields, nil)
}

// Catalog is a registry of tables, keyed by table name. It is safe for
// concurrent use.
type Catalog struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// RegisterTable adds a table to the catalog. Registering a name twice is an
// error.
func (c *Catalog) RegisterTable(t *Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[t.Name]; ok {
		return fmt.Errorf("table %q already registered", t.Name)
	}
	c.tables[t.Name] = t
	return nil
}

// Table returns the table with the given name, and reports whether the
// catalog has one.
func (c *Catalog) Table(name string) (*Table, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[name]
	return t, ok
}

// Tables returns the names of all registered tables in sorted order.
func (c *Catalog) Tables() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tables))
	for name := range c.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
