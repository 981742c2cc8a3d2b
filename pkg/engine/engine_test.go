package engine

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/quiverdb/quiver/pkg/binder"
	"github.com/quiverdb/quiver/pkg/catalog"
	"github.com/quiverdb/quiver/pkg/executor"
	"github.com/quiverdb/quiver/pkg/storage"
	"github.com/quiverdb/quiver/pkg/types"
)

const employeeCSV = `1,Bill,Hopkins,100
2,Gregg,Langford,100
3,John,Travis,200
4,Von,Mill,400`

func employeeColumns() []catalog.Column {
	return []catalog.Column{
		{Name: "id", Type: types.Integer},
		{Name: "first_name", Type: types.String},
		{Name: "last_name", Type: types.String},
		{Name: "salary", Type: types.Integer},
	}
}

func employeeFields() []arrow.Field {
	return []arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
		{Name: "first_name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "last_name", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "salary", Type: arrow.PrimitiveTypes.Int64, Nullable: true},
	}
}

func employeeStorage(t *testing.T) *storage.Memory {
	t.Helper()

	rec, err := executor.CSVToArrow(employeeFields(), employeeCSV)
	require.NoError(t, err)
	defer rec.Release()

	mem := storage.NewMemory()
	require.NoError(t, mem.CreateMemTable("employee", employeeColumns(), rec))
	return mem
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()

	eng, err := New(Params{Config: cfg, Storage: employeeStorage(t)})
	require.NoError(t, err)
	return eng
}

func TestEngine_Query(t *testing.T) {
	t.Run("selects a column by predicate", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		result, err := eng.Query(t.Context(), "select first_name from employee where id = 1")
		require.NoError(t, err)
		defer result.Release()

		require.Equal(t, int64(1), result.Rows)
		require.Equal(t, []string{"Bill"}, stringValues(t, result, "first_name"))
	})

	t.Run("sums a column", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		result, err := eng.Query(t.Context(), "select sum(salary) from employee")
		require.NoError(t, err)
		defer result.Release()

		require.Equal(t, int64(1), result.Rows)
		require.Equal(t, []int64{800}, int64Values(t, result, "SUM(salary)"))
	})

	t.Run("filters on arithmetic", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		result, err := eng.Query(t.Context(), "select last_name from employee where salary + 100 = 300")
		require.NoError(t, err)
		defer result.Release()

		require.Equal(t, []string{"Travis"}, stringValues(t, result, "last_name"))
	})

	t.Run("projects computed expressions", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		result, err := eng.Query(t.Context(), "select salary * 2 from employee where id = 4")
		require.NoError(t, err)
		defer result.Release()

		require.Equal(t, []int64{800}, int64Values(t, result, "MUL(salary, 2)"))
	})

	t.Run("count star is rejected", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select count(*) from employee")
		require.ErrorIs(t, err, binder.ErrNotImplemented)
		require.ErrorContains(t, err, "COUNT(*)")
	})

	t.Run("count over a column is rejected", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select count(id) from employee")
		require.ErrorIs(t, err, executor.ErrNotImplemented)
	})

	t.Run("group by is rejected", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select last_name, sum(salary) from employee group by last_name")
		require.ErrorIs(t, err, executor.ErrNotImplemented)
		require.ErrorContains(t, err, "GROUP BY")
	})

	t.Run("unknown table", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select id from missing")
		require.ErrorIs(t, err, binder.ErrInvalidTable)
	})

	t.Run("unknown column", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select nickname from employee")
		require.ErrorIs(t, err, binder.ErrInvalidColumn)
	})

	t.Run("malformed query", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select from employee")
		require.ErrorContains(t, err, "parsing query")
	})

	t.Run("batch size splits scanned records", func(t *testing.T) {
		eng := newTestEngine(t, Config{BatchSize: 3})

		result, err := eng.Query(t.Context(), "select id from employee")
		require.NoError(t, err)
		defer result.Release()

		require.Equal(t, int64(4), result.Rows)
		require.Len(t, result.Records, 2)
		require.Equal(t, []int64{1, 2, 3, 4}, int64Values(t, result, "id"))
	})

	t.Run("records query status metrics", func(t *testing.T) {
		eng := newTestEngine(t, Config{})

		_, err := eng.Query(t.Context(), "select count(*) from employee")
		require.Error(t, err)

		result, err := eng.Query(t.Context(), "select sum(salary) from employee")
		require.NoError(t, err)
		result.Release()

		require.Equal(t, float64(1), testutil.ToFloat64(eng.metrics.queries.WithLabelValues(statusSuccess)))
		require.Equal(t, float64(1), testutil.ToFloat64(eng.metrics.queries.WithLabelValues(statusNotImplemented)))
		require.Equal(t, float64(1), testutil.ToFloat64(eng.metrics.rowsProduced))
	})

	t.Run("logs query completion", func(t *testing.T) {
		var buf bytes.Buffer
		eng, err := New(Params{
			Logger:  log.NewLogfmtLogger(log.NewSyncWriter(&buf)),
			Storage: employeeStorage(t),
		})
		require.NoError(t, err)

		result, err := eng.Query(t.Context(), "select sum(salary) from employee")
		require.NoError(t, err)
		result.Release()

		require.Contains(t, buf.String(), "finished executing")
		require.Contains(t, buf.String(), "rows=1")
	})
}

func TestEngine_Query_CSVStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "employee.csv")
	require.NoError(t, os.WriteFile(path, []byte(employeeCSV+"\n"), 0o644))

	store := storage.NewCSV(2)
	require.NoError(t, store.RegisterTable("employee", employeeColumns(), path))

	eng, err := New(Params{Storage: store})
	require.NoError(t, err)

	result, err := eng.Query(t.Context(), "select first_name from employee where id = 1")
	require.NoError(t, err)
	defer result.Release()

	require.Equal(t, int64(1), result.Rows)
	require.Equal(t, []string{"Bill"}, stringValues(t, result, "first_name"))
}

func TestEngine_Explain(t *testing.T) {
	eng := newTestEngine(t, Config{})

	out, err := eng.Explain(t.Context(), "select first_name from employee where id = 1")
	require.NoError(t, err)

	require.Contains(t, out, "Logical plan:")
	require.Contains(t, out, "Physical plan:")
	require.Contains(t, out, "LogicalProject")
	require.Contains(t, out, "PhysicalProject")
	require.Contains(t, out, "PhysicalFilter")
	require.Contains(t, out, "PhysicalTableScan")

	_, err = eng.Explain(t.Context(), "select id from missing")
	require.ErrorIs(t, err, binder.ErrInvalidTable)
}

func TestNew(t *testing.T) {
	t.Run("requires storage", func(t *testing.T) {
		_, err := New(Params{})
		require.ErrorContains(t, err, "storage is required")
	})

	t.Run("rejects negative batch size", func(t *testing.T) {
		_, err := New(Params{Storage: storage.NewMemory(), Config: Config{BatchSize: -1}})
		require.ErrorContains(t, err, "invalid batch size")
	})

	t.Run("defaults logger and registerer", func(t *testing.T) {
		eng, err := New(Params{Storage: storage.NewMemory()})
		require.NoError(t, err)
		require.NotNil(t, eng)
	})
}

func TestResult_String(t *testing.T) {
	eng := newTestEngine(t, Config{})

	result, err := eng.Query(t.Context(), "select first_name, salary from employee where salary = 100")
	require.NoError(t, err)
	defer result.Release()

	out := result.String()
	require.Contains(t, out, "first_name")
	require.Contains(t, out, "Bill")
	require.Contains(t, out, "Gregg")
}

func columnIndex(t *testing.T, rec arrow.Record, name string) int {
	t.Helper()

	indices := rec.Schema().FieldIndices(name)
	require.Len(t, indices, 1, "expected exactly one column named %s", name)
	return indices[0]
}

func stringValues(t *testing.T, result *Result, field string) []string {
	t.Helper()

	var values []string
	for _, rec := range result.Records {
		col, ok := rec.Column(columnIndex(t, rec, field)).(*array.String)
		require.True(t, ok, "column %s is not a string column", field)
		for i := 0; i < col.Len(); i++ {
			values = append(values, col.Value(i))
		}
	}
	return values
}

func int64Values(t *testing.T, result *Result, field string) []int64 {
	t.Helper()

	var values []int64
	for _, rec := range result.Records {
		col, ok := rec.Column(columnIndex(t, rec, field)).(*array.Int64)
		require.True(t, ok, "column %s is not an int64 column", field)
		for i := 0; i < col.Len(); i++ {
			values = append(values, col.Value(i))
		}
	}
	return values
}
