// Package storage provides the columnar batch sources queries scan from.
package storage

import (
	"context"
	"errors"

	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/quiverdb/quiver/pkg/catalog"
)

// ErrTableNotFound indicates a scan of a table the storage does not hold.
var ErrTableNotFound = errors.New("table not found")

// Storage supplies the catalog of available tables and columnar batches for
// their rows.
type Storage interface {
	// Catalog returns the tables the storage holds.
	Catalog() *catalog.Catalog

	// Scan returns a fresh reader over the rows of the named table. Every
	// call starts over at the first row. The caller releases the reader.
	Scan(ctx context.Context, table string) (array.RecordReader, error)
}
