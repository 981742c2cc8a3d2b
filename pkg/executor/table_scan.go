package executor

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// scanPipeline streams the batches of one stored table. The table is opened
// on the first read so that compiling a plan does not touch storage. Stored
// batches larger than batchSize are emitted as zero-copy slices.
type scanPipeline struct {
	scanner   Scanner
	table     string
	batchSize int64

	reader  array.RecordReader
	current arrow.Record
	offset  int64
	closed  bool
}

var _ Pipeline = (*scanPipeline)(nil)

func newScanPipeline(scanner Scanner, table string, batchSize int64) *scanPipeline {
	return &scanPipeline{scanner: scanner, table: table, batchSize: batchSize}
}

// Read implements Pipeline.
func (p *scanPipeline) Read(ctx context.Context) (arrow.Record, error) {
	if p.closed {
		return nil, EOF
	}

	if p.reader == nil {
		reader, err := p.scanner.Scan(ctx, p.table)
		if err != nil {
			return nil, err
		}
		p.reader = reader
	}

	for {
		if p.current != nil {
			return p.nextSlice(), nil
		}

		if p.reader.Next() {
			rec := p.reader.Record()
			rec.Retain()
			if p.batchSize <= 0 || rec.NumRows() <= p.batchSize {
				return rec, nil
			}
			p.current = rec
			p.offset = 0
			continue
		}

		if err := p.reader.Err(); err != nil {
			return nil, fmt.Errorf("reading table %s: %w", p.table, err)
		}
		return nil, EOF
	}
}

// nextSlice cuts the next batchSize rows out of the current stored batch,
// releasing the batch once it is fully consumed.
func (p *scanPipeline) nextSlice() arrow.Record {
	end := min(p.offset+p.batchSize, p.current.NumRows())
	slice := p.current.NewSlice(p.offset, end)
	p.offset = end

	if p.offset >= p.current.NumRows() {
		p.current.Release()
		p.current = nil
	}
	return slice
}

// Close implements Pipeline.
func (p *scanPipeline) Close() {
	if p.current != nil {
		p.current.Release()
		p.current = nil
	}
	if p.reader != nil {
		p.reader.Release()
		p.reader = nil
	}
	p.closed = true
}
