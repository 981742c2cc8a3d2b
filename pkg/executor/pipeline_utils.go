package executor

import (
	"context"
	"errors"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// BufferedPipeline is a pipeline that reads from a fixed set of in-memory
// records. It retains the records it is given and hands one reference over
// to the caller per read.
type BufferedPipeline struct {
	records []arrow.Record
	pos     int
}

var _ Pipeline = (*BufferedPipeline)(nil)

// NewBufferedPipeline creates a new pipeline from the given records.
func NewBufferedPipeline(records ...arrow.Record) *BufferedPipeline {
	buffered := make([]arrow.Record, len(records))
	for i, rec := range records {
		rec.Retain()
		buffered[i] = rec
	}
	return &BufferedPipeline{records: buffered}
}

// Read implements Pipeline.
func (p *BufferedPipeline) Read(_ context.Context) (arrow.Record, error) {
	if p.pos >= len(p.records) {
		return nil, EOF
	}
	rec := p.records[p.pos]
	p.records[p.pos] = nil
	p.pos++
	return rec, nil
}

// Close implements Pipeline. Records that have not been read are released.
func (p *BufferedPipeline) Close() {
	for i := p.pos; i < len(p.records); i++ {
		if p.records[i] != nil {
			p.records[i].Release()
			p.records[i] = nil
		}
	}
	p.pos = len(p.records)
}

// Collect drains the pipeline and returns all records it produced. The
// caller releases the returned records.
func Collect(ctx context.Context, p Pipeline) ([]arrow.Record, error) {
	var records []arrow.Record
	for {
		rec, err := p.Read(ctx)
		if errors.Is(err, EOF) {
			return records, nil
		}
		if err != nil {
			for _, rec := range records {
				rec.Release()
			}
			return nil, err
		}
		records = append(records, rec)
	}
}

// CSVToArrow converts CSV data into an Arrow record with the given fields.
// Surrounding whitespace is trimmed from the data, so inputs can be written
// as indented raw strings.
func CSVToArrow(fields []arrow.Field, data string) (arrow.Record, error) {
	return CSVToArrowWithAllocator(memory.NewGoAllocator(), fields, data)
}

// CSVToArrowWithAllocator converts CSV data into an Arrow record with the
// given fields, using the given allocator.
func CSVToArrowWithAllocator(allocator memory.Allocator, fields []arrow.Field, data string) (arrow.Record, error) {
	schema := arrow.NewSchema(fields, nil)
	input := strings.NewReader(strings.TrimSpace(data))
	reader := csv.NewReader(input, schema,
		csv.WithAllocator(allocator),
		csv.WithNullReader(true),
		csv.WithComma(','),
		csv.WithChunk(-1),
	)
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, err
		}
		return nil, errors.New("empty csv input")
	}

	record := reader.Record()
	record.Retain()
	return record, reader.Err()
}
