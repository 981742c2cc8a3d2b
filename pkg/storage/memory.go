package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/quiverdb/quiver/pkg/catalog"
)

// Memory holds tables as resident arrow records.
type Memory struct {
	catalog *catalog.Catalog

	mu     sync.RWMutex
	tables map[string][]arrow.Record
}

var _ Storage = (*Memory)(nil)

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{
		catalog: catalog.New(),
		tables:  map[string][]arrow.Record{},
	}
}

// Catalog implements Storage.
func (m *Memory) Catalog() *catalog.Catalog { return m.catalog }

// CreateTable registers a table with the given columns and no rows.
func (m *Memory) CreateTable(name string, columns []catalog.Column) error {
	return m.CreateMemTable(name, columns)
}

// CreateMemTable registers a table seeded with the given batches. Batches
// must match the table's arrow schema; the storage retains them.
func (m *Memory) CreateMemTable(name string, columns []catalog.Column, batches ...arrow.Record) error {
	table := &catalog.Table{Name: name, Columns: columns}
	schema := table.ArrowSchema()
	for _, batch := range batches {
		if !batch.Schema().Equal(schema) {
			return fmt.Errorf("batch schema does not match table %s", name)
		}
	}

	if err := m.catalog.RegisterTable(table); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, batch := range batches {
		batch.Retain()
	}
	m.tables[name] = append([]arrow.Record(nil), batches...)
	return nil
}

// Scan implements Storage. Each call returns a fresh reader over the stored
// batches.
func (m *Memory) Scan(_ context.Context, table string) (array.RecordReader, error) {
	tbl, ok := m.catalog.Table(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	m.mu.RLock()
	batches := m.tables[table]
	m.mu.RUnlock()

	reader, err := array.NewRecordReader(tbl.ArrowSchema(), batches)
	if err != nil {
		return nil, fmt.Errorf("scanning table %s: %w", table, err)
	}
	return reader, nil
}
