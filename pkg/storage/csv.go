package storage

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"

	"github.com/quiverdb/quiver/pkg/catalog"
)

// CSV serves tables from local headerless CSV files, one file per table,
// read lazily in fixed-size batches.
type CSV struct {
	catalog *catalog.Catalog
	chunk   int64

	mu    sync.RWMutex
	files map[string]string
}

var _ Storage = (*CSV)(nil)

// NewCSV creates a CSV storage producing batches of up to chunk rows. A non
// positive chunk reads each file as a single batch.
func NewCSV(chunk int64) *CSV {
	return &CSV{
		catalog: catalog.New(),
		chunk:   chunk,
		files:   map[string]string{},
	}
}

// Catalog implements Storage.
func (s *CSV) Catalog() *catalog.Catalog { return s.catalog }

// RegisterTable declares a table whose rows live in the CSV file at path,
// with columns describing the file's field order.
func (s *CSV) RegisterTable(name string, columns []catalog.Column, path string) error {
	if err := s.catalog.RegisterTable(&catalog.Table{Name: name, Columns: columns}); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = path
	return nil
}

// Scan implements Storage. Each call opens the table's file anew.
func (s *CSV) Scan(_ context.Context, table string) (array.RecordReader, error) {
	tbl, ok := s.catalog.Table(table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	s.mu.RLock()
	path := s.files[table]
	s.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", table, err)
	}

	chunk := int(s.chunk)
	if chunk <= 0 {
		chunk = -1 // read the whole file into one batch
	}
	reader := csv.NewReader(f, tbl.ArrowSchema(),
		csv.WithNullReader(true),
		csv.WithComma(','),
		csv.WithChunk(chunk),
	)
	return &fileReader{RecordReader: reader, file: f}, nil
}

// fileReader closes the backing file once the reader is released.
type fileReader struct {
	array.RecordReader

	file *os.File
	once sync.Once
}

func (r *fileReader) Release() {
	r.RecordReader.Release()
	r.once.Do(func() { _ = r.file.Close() })
}
